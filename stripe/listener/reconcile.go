package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/loquia/loquia-billing-sync/stripe/db"
	"github.com/loquia/loquia-billing-sync/stripe/types"
)

func (l *Listener) handleCheckoutCompleted(ctx context.Context, raw json.RawMessage) error {
	s, err := types.Parse[types.CheckoutSession](raw)
	if err != nil {
		return err
	}

	tenantId := s.Metadata[types.MetadataTenantId]
	if tenantId == "" {
		return fmt.Errorf("checkout session %s: %w", s.Id, ErrMissingTenantMetadata)
	}

	if s.Subscription == "" {
		l.logger.Warn(
			"Checkout session without subscription",
			zap.String("session_id", s.Id),
			zap.String("mode", s.Mode),
		)
		return nil
	}

	// The session only references the subscription; the processor holds
	// the authoritative copy.
	sub, err := l.processor.GetSubscription(ctx, s.Subscription.String())
	if err != nil {
		return fmt.Errorf("error retrieving subscription %s: %w", s.Subscription, err)
	}

	return l.upsertSubscription(
		ctx,
		sub,
		tenantId,
		s.Metadata[types.MetadataPlanName],
		s.Metadata[types.MetadataBillingInterval],
	)
}

func (l *Listener) handleSubscriptionChange(ctx context.Context, raw json.RawMessage) error {
	sub, err := types.Parse[types.Subscription](raw)
	if err != nil {
		return err
	}

	tenantId := sub.Metadata[types.MetadataTenantId]
	if tenantId == "" {
		l.logger.Warn("Subscription without tenant metadata", zap.String("subscription_id", sub.Id))
		return nil
	}

	return l.upsertSubscription(
		ctx,
		sub,
		tenantId,
		sub.Metadata[types.MetadataPlanName],
		sub.Metadata[types.MetadataBillingInterval],
	)
}

func (l *Listener) handleSubscriptionDeleted(ctx context.Context, raw json.RawMessage) error {
	sub, err := types.Parse[types.Subscription](raw)
	if err != nil {
		return err
	}

	canceledAt := lo.FromPtrOr(types.OptionalTime(sub.CanceledAt), l.now().UTC())
	if err := l.db.CancelSubscription(ctx, sub.Id, canceledAt); err != nil {
		return err
	}

	l.logger.Info("Subscription canceled", zap.String("subscription_id", sub.Id))
	return nil
}

func (l *Listener) handlePaymentSucceeded(ctx context.Context, raw json.RawMessage) error {
	inv, err := types.Parse[types.Invoice](raw)
	if err != nil {
		return err
	}

	subId := inv.SubscriptionId()
	if subId == "" {
		l.logger.Debug("Invoice without subscription", zap.String("invoice_id", inv.Id))
		return nil
	}

	sub, err := l.processor.GetSubscription(ctx, subId)
	if err != nil {
		return fmt.Errorf("error retrieving subscription %s: %w", subId, err)
	}

	if err := l.db.RefreshSubscriptionPeriod(
		ctx,
		sub.Id,
		types.StatusActive,
		types.OptionalTime(sub.PeriodStart()),
		types.OptionalTime(sub.PeriodEnd()),
	); err != nil {
		return err
	}

	var localId *string
	local, err := l.db.FindSubscriptionByStripeId(ctx, sub.Id)
	switch {
	case err == nil:
		localId = &local.Id
	case errors.Is(err, db.ErrNotFound):
		// Linked later, once the subscription row lands.
		l.logger.Warn(
			"Payment for unknown subscription",
			zap.String("subscription_id", sub.Id),
			zap.String("invoice_id", inv.Id),
		)
	default:
		return err
	}

	inserted, err := l.db.InsertPayment(ctx, types.PaymentRecord{
		SubscriptionId:        localId,
		StripeSubscriptionId:  sub.Id,
		StripeInvoiceId:       inv.Id,
		StripePaymentIntentId: inv.PaymentIntentId(),
		AmountPaid:            inv.AmountPaid,
		Currency:              inv.Currency,
		Status:                types.PaymentStatusPaid,
		PaidAt:                types.OptionalTime(inv.StatusTransitions.PaidAt),
	})
	if err != nil {
		return err
	}

	if !inserted {
		l.logger.Info("Payment already recorded", zap.String("invoice_id", inv.Id))
	}
	return nil
}

func (l *Listener) handlePaymentFailed(ctx context.Context, raw json.RawMessage) error {
	inv, err := types.Parse[types.Invoice](raw)
	if err != nil {
		return err
	}

	subId := inv.SubscriptionId()
	if subId == "" {
		l.logger.Debug("Invoice without subscription", zap.String("invoice_id", inv.Id))
		return nil
	}

	return l.db.UpdateSubscriptionStatus(ctx, subId, types.StatusPastDue)
}

// upsertSubscription mirrors sub into the local store. Whatever status the
// processor reports is taken as is.
func (l *Listener) upsertSubscription(
	ctx context.Context,
	sub *types.Subscription,
	tenantId,
	planName,
	interval string,
) error {
	price, err := sub.Price()
	if err != nil {
		return err
	}

	customer, err := l.processor.GetCustomer(ctx, sub.Customer.String())
	if err != nil {
		return fmt.Errorf("error retrieving customer %s: %w", sub.Customer, err)
	}

	if interval == "" && price.Recurring != nil {
		interval = price.Recurring.Interval
	}

	if err := l.db.UpsertSubscription(ctx, types.SubscriptionRecord{
		TenantId:             tenantId,
		StripeSubscriptionId: sub.Id,
		StripeCustomerId:     sub.Customer.String(),
		StripeProductId:      price.Product.String(),
		StripePriceId:        price.Id,
		CustomerEmail:        customer.Email,
		PlanName:             lo.Ternary(planName != "", planName, types.DefaultPlanName),
		BillingInterval:      lo.Ternary(interval != "", interval, types.IntervalMonth),
		Status:               sub.Status,
		CurrentPeriodStart:   types.OptionalTime(sub.PeriodStart()),
		CurrentPeriodEnd:     types.OptionalTime(sub.PeriodEnd()),
		CancelAt:             types.OptionalTime(sub.CancelAt),
		CanceledAt:           types.OptionalTime(sub.CanceledAt),
		TrialStart:           types.OptionalTime(sub.TrialStart),
		TrialEnd:             types.OptionalTime(sub.TrialEnd),
		Metadata:             sub.Metadata,
	}); err != nil {
		return err
	}

	l.logger.Info(
		"Subscription reconciled",
		zap.String("subscription_id", sub.Id),
		zap.String("tenant_id", tenantId),
		zap.String("status", sub.Status),
	)

	local, err := l.db.FindSubscriptionByStripeId(ctx, sub.Id)
	if err != nil {
		return err
	}

	linked, err := l.db.LinkPayments(ctx, sub.Id, local.Id)
	if err != nil {
		return err
	}
	if linked > 0 {
		l.logger.Info(
			"Linked earlier payments",
			zap.String("subscription_id", sub.Id),
			zap.Int64("payments", linked),
		)
	}
	return nil
}

// Resync mirrors the processor's current view of a subscription over its
// local row. Tenant, plan and interval fall back to what is already stored
// when the processor's metadata lacks them.
func (l *Listener) Resync(ctx context.Context, local types.SubscriptionRecord, remote *types.Subscription) error {
	return l.upsertSubscription(
		ctx,
		remote,
		lo.CoalesceOrEmpty(remote.Metadata[types.MetadataTenantId], local.TenantId),
		lo.CoalesceOrEmpty(remote.Metadata[types.MetadataPlanName], local.PlanName),
		lo.CoalesceOrEmpty(remote.Metadata[types.MetadataBillingInterval], local.BillingInterval),
	)
}

// Cancel marks a subscription the processor no longer knows about as canceled.
func (l *Listener) Cancel(ctx context.Context, stripeSubscriptionId string) error {
	return l.db.CancelSubscription(ctx, stripeSubscriptionId, l.now().UTC())
}

// mirror overwrites the local row of stripeSubscriptionId with remote. A nil
// remote means the processor no longer knows the subscription.
func (l *Listener) mirror(ctx context.Context, stripeSubscriptionId string, remote *types.Subscription) error {
	if remote == nil {
		return l.Cancel(ctx, stripeSubscriptionId)
	}

	local, err := l.db.FindSubscriptionByStripeId(ctx, stripeSubscriptionId)
	if errors.Is(err, db.ErrNotFound) {
		// The handler had nothing to store, e.g. no tenant metadata.
		return nil
	}
	if err != nil {
		return err
	}
	return l.Resync(ctx, *local, remote)
}

// snapshotSubscription names the subscription whose state e carries, or ""
// when e carries none. Checkout sessions only reference the subscription and
// deletions are final, so neither counts.
func snapshotSubscription(e types.Event) string {
	switch e.Type {
	case types.SubscriptionCreated, types.SubscriptionUpdated:
		if sub, err := types.Parse[types.Subscription](e.Data.Raw); err == nil {
			return sub.Id
		}
	case types.InvoicePaymentSucceeded, types.InvoicePaymentFailed:
		if inv, err := types.Parse[types.Invoice](e.Data.Raw); err == nil {
			return inv.SubscriptionId()
		}
	}
	return ""
}
