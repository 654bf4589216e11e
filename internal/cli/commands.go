package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/ezrevenue/internal/common"
	"github.com/dmitrijs2005/ezrevenue/internal/paywall"
	"github.com/dmitrijs2005/ezrevenue/internal/service"
)

func (a *App) ID(ctx context.Context) error {
	id, err := a.svc.GetCustomerID(ctx)
	if err != nil {
		a.println("error:", err)
		return err
	}
	a.println(id)
	return nil
}

func (a *App) Info(ctx context.Context, refresh bool) error {
	rec, err := a.svc.GetCustomerInfo(ctx, refresh)
	if err != nil {
		a.println("error:", err)
		return err
	}
	a.printJSON(rec)
	return nil
}

func (a *App) Usable(ctx context.Context, q service.BalanceQuery) error {
	ok, err := a.svc.IsBalanceUsable(ctx, q)
	if err != nil {
		a.println("error:", err)
		return err
	}
	a.println(ok)
	return nil
}

// Paywall starts the purchase flow in the background; the REPL stays
// available so the window can be closed.
func (a *App) Paywall(ctx context.Context, vp paywall.Viewport) error {
	a.flows.Add(1)
	go func() {
		defer a.flows.Done()

		res, err := a.svc.ShowPaywallPopup(ctx, vp)
		switch {
		case errors.Is(err, context.Canceled):
			return
		case err != nil:
			a.println("paywall error:", err)
		case !res.Opened:
			a.println("no paywall available")
		default:
			a.println(fmt.Sprintf("paywall window %d closed, refreshed record:", res.WindowID))
			a.printJSON(res.Record)
		}
	}()
	return nil
}

func (a *App) CloseWindow(_ context.Context, id paywall.WindowID) error {
	if err := a.host.Close(id); err != nil {
		a.println("error:", err)
		return err
	}
	return nil
}

// Call runs a raw host action such as ezrevenue_isBalanceUsable.
func (a *App) Call(ctx context.Context, action string, data json.RawMessage) error {
	if !strings.HasPrefix(action, common.ActionPrefix) {
		action = common.ActionPrefix + action
	}
	resp := a.handler.Handle(ctx, action, data)
	a.printJSON(resp)
	if !resp.Success {
		return errors.New(resp.Error)
	}
	return nil
}

func parseBalanceQuery(args []string) (service.BalanceQuery, error) {
	var q service.BalanceQuery
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return q, fmt.Errorf("expected key=value, got %q", arg)
		}
		switch k {
		case "id":
			q.EquityID = v
		case "alias":
			q.EquityAlias = v
		default:
			return q, fmt.Errorf("unknown filter %q", k)
		}
	}
	return q, nil
}

func parseViewport(args []string) (paywall.Viewport, error) {
	var vp paywall.Viewport
	switch len(args) {
	case 0:
		return vp, nil
	case 2:
		w, err := strconv.Atoi(args[0])
		if err != nil {
			return vp, fmt.Errorf("width: %w", err)
		}
		h, err := strconv.Atoi(args[1])
		if err != nil {
			return vp, fmt.Errorf("height: %w", err)
		}
		return paywall.Viewport{Width: w, Height: h}, nil
	}
	return vp, fmt.Errorf("expected <width> <height>")
}
