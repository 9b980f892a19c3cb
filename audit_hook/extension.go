// Package audithook bridges sandbox lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not depend on a
// particular audit store. Callers inject a RecorderFunc adapter at wiring
// time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/sandbox/esim"
	"github.com/xraph/sandbox/order"
	"github.com/xraph/sandbox/plugin"
	"github.com/xraph/sandbox/proxy"
	"github.com/xraph/sandbox/sms"
	"github.com/xraph/sandbox/types"
	"github.com/xraph/sandbox/wallet"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                = (*Extension)(nil)
	_ plugin.OnTransactionRecorded = (*Extension)(nil)
	_ plugin.OnDepositCreated      = (*Extension)(nil)
	_ plugin.OnDepositCompleted    = (*Extension)(nil)
	_ plugin.OnOrderCreated        = (*Extension)(nil)
	_ plugin.OnOrderExpired        = (*Extension)(nil)
	_ plugin.OnPurchaseRejected    = (*Extension)(nil)
	_ plugin.OnRentalCanceled      = (*Extension)(nil)
	_ plugin.OnMessageDelivered    = (*Extension)(nil)
	_ plugin.OnESIMToppedUp        = (*Extension)(nil)
	_ plugin.OnProxyRotated        = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges sandbox lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Wallet hooks
// ──────────────────────────────────────────────────

// OnTransactionRecorded implements plugin.OnTransactionRecorded.
func (e *Extension) OnTransactionRecorded(ctx context.Context, tx *wallet.Transaction) error {
	return e.record(ctx, ActionTransactionRecorded, SeverityInfo, OutcomeSuccess,
		ResourceTransaction, tx.ID.String(), CategoryWallet, "",
		"kind", string(tx.Kind),
		"amount", tx.Amount.Amount,
		"description", tx.Description,
	)
}

// OnDepositCreated implements plugin.OnDepositCreated.
func (e *Extension) OnDepositCreated(ctx context.Context, d *wallet.Deposit) error {
	return e.record(ctx, ActionDepositCreated, SeverityInfo, OutcomeSuccess,
		ResourceDeposit, d.InvoiceID.String(), CategoryPayment, "",
		"amount", d.Amount.Amount,
		"currency", string(d.Currency),
	)
}

// OnDepositCompleted implements plugin.OnDepositCompleted.
func (e *Extension) OnDepositCompleted(ctx context.Context, d *wallet.Deposit) error {
	return e.record(ctx, ActionDepositCompleted, SeverityInfo, OutcomeSuccess,
		ResourceDeposit, d.InvoiceID.String(), CategoryPayment, "",
		"amount", d.Amount.Amount,
		"currency", string(d.Currency),
	)
}

// ──────────────────────────────────────────────────
// Order hooks
// ──────────────────────────────────────────────────

// OnOrderCreated implements plugin.OnOrderCreated.
func (e *Extension) OnOrderCreated(ctx context.Context, o *order.Order) error {
	return e.record(ctx, ActionOrderCreated, SeverityInfo, OutcomeSuccess,
		ResourceOrder, o.ID, CategoryOrder, "",
		"type", string(o.Type),
		"name", o.Name,
		"price", o.Price.Amount,
	)
}

// OnOrderExpired implements plugin.OnOrderExpired.
func (e *Extension) OnOrderExpired(ctx context.Context, o *order.Order) error {
	return e.record(ctx, ActionOrderExpired, SeverityInfo, OutcomeSuccess,
		ResourceOrder, o.ID, CategoryOrder, "",
		"type", string(o.Type),
	)
}

// OnPurchaseRejected implements plugin.OnPurchaseRejected.
func (e *Extension) OnPurchaseRejected(ctx context.Context, kind order.Type, required, available types.Money) error {
	return e.record(ctx, ActionPurchaseRejected, SeverityWarning, OutcomeFailure,
		ResourceOrder, "", CategoryOrder, "insufficient balance",
		"type", string(kind),
		"required", required.Amount,
		"available", available.Amount,
	)
}

// ──────────────────────────────────────────────────
// Resource hooks
// ──────────────────────────────────────────────────

// OnRentalCanceled implements plugin.OnRentalCanceled.
func (e *Extension) OnRentalCanceled(ctx context.Context, r *sms.Rental, refund types.Money) error {
	return e.record(ctx, ActionRentalCanceled, SeverityInfo, OutcomeSuccess,
		ResourceRental, r.ID.String(), CategoryResource, "",
		"service", r.Service,
		"refund", refund.Amount,
	)
}

// OnMessageDelivered implements plugin.OnMessageDelivered.
func (e *Extension) OnMessageDelivered(ctx context.Context, r *sms.Rental, _ sms.Message) error {
	return e.record(ctx, ActionMessageDelivered, SeverityInfo, OutcomeSuccess,
		ResourceRental, r.ID.String(), CategoryResource, "",
		"service", r.Service,
	)
}

// OnESIMToppedUp implements plugin.OnESIMToppedUp.
func (e *Extension) OnESIMToppedUp(ctx context.Context, o *esim.Order, addedGB float64, cost types.Money) error {
	return e.record(ctx, ActionESIMToppedUp, SeverityInfo, OutcomeSuccess,
		ResourceESIM, o.ID.String(), CategoryResource, "",
		"added_gb", addedGB,
		"cost", cost.Amount,
		"data_total_gb", o.DataTotal,
	)
}

// OnProxyRotated implements plugin.OnProxyRotated.
func (e *Extension) OnProxyRotated(ctx context.Context, l *proxy.Lease, oldIP string) error {
	return e.record(ctx, ActionProxyRotated, SeverityInfo, OutcomeSuccess,
		ResourceProxy, l.ID.String(), CategoryResource, "",
		"old_ip", oldIP,
		"new_ip", l.IP,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category, reason string,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
