// Package service is the entitlement facade exposed to hosts: the customer
// id, the customer record, the paywall flow and balance checks.
package service

import (
	"context"

	"github.com/dmitrijs2005/ezrevenue/internal/entitlement"
	"github.com/dmitrijs2005/ezrevenue/internal/logging"
	"github.com/dmitrijs2005/ezrevenue/internal/paywall"
)

// DefaultEquityAlias is matched when a balance query names neither an id
// nor an alias.
const DefaultEquityAlias = "equity_vip"

// BalanceQuery selects a balance entry. EquityID takes precedence over
// EquityAlias.
type BalanceQuery struct {
	EquityID    string `json:"equityId,omitempty"`
	EquityAlias string `json:"equityAlias,omitempty"`
}

// Service is the entitlement facade.
//
// Contract:
//   - GetCustomerID: the device id, created and persisted on first use.
//   - GetCustomerInfo: the cached record; refresh forces a server round trip.
//   - ShowPaywallPopup: runs the paywall flow and blocks until it completes.
//   - IsBalanceUsable: usability flag of the first matching balance entry,
//     false when nothing matches.
//
// Storage, transport and signature errors are returned unchanged.
type Service interface {
	GetCustomerID(ctx context.Context) (string, error)
	GetCustomerInfo(ctx context.Context, refresh bool) (*entitlement.Record, error)
	ShowPaywallPopup(ctx context.Context, vp paywall.Viewport) (*paywall.Result, error)
	IsBalanceUsable(ctx context.Context, q BalanceQuery) (bool, error)
}

// Paywall runs the purchase flow; *paywall.Controller implements it.
type Paywall interface {
	OpenPaywall(ctx context.Context, vp paywall.Viewport) (*paywall.Result, error)
}

type service struct {
	ids     entitlement.IDSource
	records paywall.RecordSource
	paywall Paywall
	logger  logging.Logger
}

// NewService wires the facade. ids is usually (*identity.Store).GetOrCreate
// and records an *entitlement.Cache built on the same ids.
func NewService(ids entitlement.IDSource, records paywall.RecordSource, pw Paywall, logger logging.Logger) Service {
	return &service{ids: ids, records: records, paywall: pw, logger: logger}
}

func (s *service) GetCustomerID(ctx context.Context) (string, error) {
	return s.ids(ctx)
}

func (s *service) GetCustomerInfo(ctx context.Context, refresh bool) (*entitlement.Record, error) {
	return s.records.Get(ctx, entitlement.GetOptions{Refresh: refresh})
}

func (s *service) ShowPaywallPopup(ctx context.Context, vp paywall.Viewport) (*paywall.Result, error) {
	return s.paywall.OpenPaywall(ctx, vp)
}

func (s *service) IsBalanceUsable(ctx context.Context, q BalanceQuery) (bool, error) {
	rec, err := s.records.Get(ctx, entitlement.GetOptions{})
	if err != nil {
		return false, err
	}

	b, ok := rec.FindBalance(q.matcher())
	if !ok {
		s.logger.Debug(ctx, "no matching balance", "equity_id", q.EquityID, "equity_alias", q.EquityAlias)
		return false, nil
	}
	return b.IsBalanceUsable, nil
}

func (q BalanceQuery) matcher() func(entitlement.Balance) bool {
	if q.EquityID != "" {
		return func(b entitlement.Balance) bool { return b.Equity.ID == q.EquityID }
	}
	alias := q.EquityAlias
	if alias == "" {
		alias = DefaultEquityAlias
	}
	return func(b entitlement.Balance) bool { return b.Equity.Alias == alias }
}
