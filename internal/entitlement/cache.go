package entitlement

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/ezrevenue/internal/common"
	"github.com/dmitrijs2005/ezrevenue/internal/logging"
)

// DefaultTTL is how long a fetched record is served without asking the server.
const DefaultTTL = 30 * time.Minute

// Caller performs one signed RPC call; *rpc.Client implements it.
type Caller interface {
	Call(ctx context.Context, method string, params any, out any) error
}

// IDSource yields the customer external id.
type IDSource func(ctx context.Context) (string, error)

type customerRef struct {
	ExternalID string `json:"external_id"`
}

type customerInfoParams struct {
	PaywallAlias   string      `json:"paywall_alias"`
	Customer       customerRef `json:"customer"`
	IncludeBalance bool        `json:"include_balance"`
}

type slot struct {
	record    *Record
	fetchedAt time.Time
}

// Cache is a read-through cache with a single slot shared by all callers.
//
// The mutex guards the slot only; it is released while fetching, so
// concurrent misses may each call the server and the last one to finish
// fills the slot. A fetch started before a refresh, expiry or Invalidate
// never fills the slot. Failures are never cached.
type Cache struct {
	caller       Caller
	customerID   IDSource
	paywallAlias string
	ttl          time.Duration
	now          func() time.Time
	logger       logging.Logger

	mu   sync.Mutex
	slot *slot
	// gen counts slot drops; a fetch stores its record only if gen is unchanged.
	gen uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewCache returns an empty cache that fetches customer.info for the id
// yielded by customerID under paywallAlias.
func NewCache(caller Caller, customerID IDSource, paywallAlias string, logger logging.Logger, opts ...Option) *Cache {
	c := &Cache{
		caller:       caller,
		customerID:   customerID,
		paywallAlias: paywallAlias,
		ttl:          DefaultTTL,
		now:          time.Now,
		logger:       logger,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GetOptions tunes a single Get.
type GetOptions struct {
	// Refresh drops the cached record before looking it up.
	Refresh bool
}

// Get returns the cached record, fetching it when the slot is empty, older
// than the TTL, or Refresh is set. Errors from the id source and the RPC
// layer are returned as they are. The returned record is shared and must
// not be modified.
func (c *Cache) Get(ctx context.Context, opts GetOptions) (*Record, error) {
	cached, gen := c.lookup(ctx, opts.Refresh)
	if cached != nil {
		return cached, nil
	}

	rec, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.slot = &slot{record: rec, fetchedAt: c.now()}
	} else {
		c.logger.Debug(ctx, "discarding record fetched before a refresh")
	}
	c.mu.Unlock()
	return rec, nil
}

// Invalidate empties the slot.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.slot = nil
	c.gen++
	c.mu.Unlock()
}

// lookup returns the valid cached record, or nil and the generation a
// fetch must still observe to fill the slot.
func (c *Cache) lookup(ctx context.Context, refresh bool) (*Record, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case refresh:
		c.slot = nil
		c.gen++
		c.logger.Debug(ctx, "entitlement cache refresh requested")
	case c.slot == nil:
		c.logger.Debug(ctx, "entitlement cache miss")
	case c.now().Sub(c.slot.fetchedAt) > c.ttl:
		c.slot = nil
		c.gen++
		c.logger.Debug(ctx, "entitlement cache expired")
	default:
		c.logger.Debug(ctx, "entitlement cache hit")
		return c.slot.record, c.gen
	}
	return nil, c.gen
}

func (c *Cache) fetch(ctx context.Context) (*Record, error) {
	id, err := c.customerID(ctx)
	if err != nil {
		return nil, err
	}

	params := customerInfoParams{
		PaywallAlias:   c.paywallAlias,
		Customer:       customerRef{ExternalID: id},
		IncludeBalance: true,
	}

	var rec Record
	if err := c.caller.Call(ctx, common.CustomerInfoMethod, params, &rec); err != nil {
		return nil, err
	}
	c.logger.Info(ctx, "customer info fetched", "balances", len(rec.Balances))
	return &rec, nil
}
