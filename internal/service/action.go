package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/ezrevenue/internal/common"
	"github.com/dmitrijs2005/ezrevenue/internal/logging"
	"github.com/dmitrijs2005/ezrevenue/internal/paywall"
)

// Host action names.
const (
	ActionGetCustomerID    = common.ActionPrefix + "getCustomerId"
	ActionGetCustomerInfo  = common.ActionPrefix + "getCustomerInfo"
	ActionShowPaywallPopup = common.ActionPrefix + "showPaywallPopup"
	ActionIsBalanceUsable  = common.ActionPrefix + "isBalanceUsable"
)

// Request is one host action. The set of implementations is closed.
type Request interface {
	Action() string
	isRequest()
}

// GetCustomerIDRequest asks for the device id.
type GetCustomerIDRequest struct{}

// GetCustomerInfoRequest asks for the entitlement record.
type GetCustomerInfoRequest struct {
	Refresh bool `json:"refresh,omitempty"`
}

// ShowPaywallPopupRequest runs the paywall flow for a screen size.
type ShowPaywallPopupRequest struct {
	paywall.Viewport
}

// IsBalanceUsableRequest checks one balance entry.
type IsBalanceUsableRequest struct {
	BalanceQuery
}

func (GetCustomerIDRequest) Action() string    { return ActionGetCustomerID }
func (GetCustomerInfoRequest) Action() string  { return ActionGetCustomerInfo }
func (ShowPaywallPopupRequest) Action() string { return ActionShowPaywallPopup }
func (IsBalanceUsableRequest) Action() string  { return ActionIsBalanceUsable }

func (GetCustomerIDRequest) isRequest()    {}
func (GetCustomerInfoRequest) isRequest()  {}
func (ShowPaywallPopupRequest) isRequest() {}
func (IsBalanceUsableRequest) isRequest()  {}

// Actions lists the supported action names.
func Actions() []string {
	return []string{ActionGetCustomerID, ActionGetCustomerInfo, ActionShowPaywallPopup, ActionIsBalanceUsable}
}

// Response is the envelope returned to hosts.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ParseAction builds the Request for action from its JSON payload. An empty
// or null payload means no arguments. Unknown names yield common.ErrUnknownAction.
func ParseAction(action string, data json.RawMessage) (Request, error) {
	var req Request
	switch action {
	case ActionGetCustomerID:
		return GetCustomerIDRequest{}, nil
	case ActionGetCustomerInfo:
		r := GetCustomerInfoRequest{}
		if err := decodePayload(data, &r); err != nil {
			return nil, fmt.Errorf("%s: %w", action, err)
		}
		req = r
	case ActionShowPaywallPopup:
		r := ShowPaywallPopupRequest{}
		if err := decodePayload(data, &r); err != nil {
			return nil, fmt.Errorf("%s: %w", action, err)
		}
		req = r
	case ActionIsBalanceUsable:
		r := IsBalanceUsableRequest{}
		if err := decodePayload(data, &r); err != nil {
			return nil, fmt.Errorf("%s: %w", action, err)
		}
		req = r
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownAction, action)
	}
	return req, nil
}

func decodePayload(data json.RawMessage, v any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// Dispatch runs req against svc and wraps the outcome in a Response.
func Dispatch(ctx context.Context, svc Service, req Request) Response {
	data, err := run(ctx, svc, req)
	if err != nil {
		return Response{Error: err.Error()}
	}
	return Response{Success: true, Data: data}
}

// Handler serves host messages.
type Handler struct {
	svc    Service
	logger logging.Logger
}

// NewHandler returns a Handler serving svc.
func NewHandler(svc Service, logger logging.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Handle parses and dispatches one host message.
func (h *Handler) Handle(ctx context.Context, action string, data json.RawMessage) Response {
	req, err := ParseAction(action, data)
	if err != nil {
		h.logger.Warn(ctx, "rejected host action", "action", action, "error", err)
		return Response{Error: err.Error()}
	}

	h.logger.Debug(ctx, "host action", "action", action)
	resp := Dispatch(ctx, h.svc, req)
	if !resp.Success {
		h.logger.Warn(ctx, "host action failed", "action", action, "error", resp.Error)
	}
	return resp
}

func run(ctx context.Context, svc Service, req Request) (any, error) {
	switch r := req.(type) {
	case GetCustomerIDRequest:
		return svc.GetCustomerID(ctx)
	case GetCustomerInfoRequest:
		return svc.GetCustomerInfo(ctx, r.Refresh)
	case ShowPaywallPopupRequest:
		res, err := svc.ShowPaywallPopup(ctx, r.Viewport)
		if err != nil {
			return nil, err
		}
		if !res.Opened {
			return nil, nil
		}
		return res.Record, nil
	case IsBalanceUsableRequest:
		return svc.IsBalanceUsable(ctx, r.BalanceQuery)
	}
	return nil, fmt.Errorf("%w: %T", common.ErrUnknownAction, req)
}
