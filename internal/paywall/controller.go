// Package paywall runs the purchase flow: show the paywall page in a modal
// window, wait for the user to close it, then reload the entitlement record.
package paywall

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ezrevenue/internal/entitlement"
	"github.com/dmitrijs2005/ezrevenue/internal/logging"
	"github.com/google/uuid"
)

// RecordSource returns the entitlement record; *entitlement.Cache implements it.
type RecordSource interface {
	Get(ctx context.Context, opts entitlement.GetOptions) (*entitlement.Record, error)
}

// Controller drives the paywall flow over a WindowHost.
type Controller struct {
	records RecordSource
	host    WindowHost
	logger  logging.Logger
}

// NewController returns a Controller reading records from records and
// opening windows on host.
func NewController(records RecordSource, host WindowHost, logger logging.Logger) *Controller {
	return &Controller{records: records, host: host, logger: logger}
}

// Result is the outcome of OpenPaywall.
//
// Opened is false when the record offers no paywall link; Record is then the
// current record and no window was created.
type Result struct {
	Record    *entitlement.Record
	Opened    bool
	WindowID  WindowID
	SessionID string
}

// OpenPaywall shows the paywall for the current record and blocks until its
// window closes, then returns the force-refreshed record. Closing the window
// is the only way the flow completes; cancelling ctx abandons the wait,
// removes the close observer and returns ctx.Err().
func (c *Controller) OpenPaywall(ctx context.Context, vp Viewport) (*Result, error) {
	rec, err := c.records.Get(ctx, entitlement.GetOptions{})
	if err != nil {
		return nil, err
	}

	url := rec.PaywallURL()
	if url == "" {
		c.logger.Info(ctx, "no paywall link available")
		return &Result{Record: rec}, nil
	}

	session := uuid.NewString()
	log := c.logger.With("paywall_session", session)

	sub := Watch(c.host)
	defer sub.Cancel()

	g := vp.Geometry()
	id, err := c.host.OpenModal(ctx, url, g)
	if err != nil {
		return nil, fmt.Errorf("open paywall window: %w", err)
	}
	sub.Target(id)
	log.Info(ctx, "paywall window opened", "window_id", id, "width", g.Width, "height", g.Height)

	select {
	case <-sub.Done():
	case <-ctx.Done():
		log.Warn(ctx, "paywall wait abandoned", "window_id", id, "error", ctx.Err())
		return nil, ctx.Err()
	}

	log.Info(ctx, "paywall window closed", "window_id", id)

	refreshed, err := c.records.Get(ctx, entitlement.GetOptions{Refresh: true})
	if err != nil {
		return nil, err
	}
	return &Result{Record: refreshed, Opened: true, WindowID: id, SessionID: session}, nil
}
