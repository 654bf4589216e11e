// Package entitlement holds the customer entitlement record and the
// read-through cache in front of the entitlement service.
package entitlement

import "encoding/json"

// Equity identifies a purchasable benefit by id and alias.
type Equity struct {
	ID    string `json:"id"`
	Alias string `json:"alias"`
}

// Balance is one equity the customer holds and whether it can be used now.
type Balance struct {
	Equity          Equity `json:"equity"`
	IsBalanceUsable bool   `json:"is_balance_usable"`
}

// Link is a URL offered by the server, such as the paywall page.
type Link struct {
	URL string `json:"url"`
}

// Record is the server snapshot returned by customer.info.
//
// Only the fields the client acts on are typed. Raw keeps the complete
// document so hosts can pass it through untouched.
type Record struct {
	Balances []Balance `json:"balance_s"`
	HomeLink *Link     `json:"home_link,omitempty"`

	Raw json.RawMessage `json:"-"`
}

type recordFields Record

// UnmarshalJSON decodes the typed fields and keeps a copy of b in Raw.
func (r *Record) UnmarshalJSON(b []byte) error {
	var f recordFields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*r = Record(f)
	r.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON returns Raw when the record came from the server.
func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	return json.Marshal(recordFields(r))
}

// PaywallURL returns the purchase page, or "" when none is offered.
func (r *Record) PaywallURL() string {
	if r == nil || r.HomeLink == nil {
		return ""
	}
	return r.HomeLink.URL
}

// FindBalance returns the first balance accepted by match.
func (r *Record) FindBalance(match func(Balance) bool) (Balance, bool) {
	if r == nil {
		return Balance{}, false
	}
	for _, b := range r.Balances {
		if match(b) {
			return b, true
		}
	}
	return Balance{}, false
}
