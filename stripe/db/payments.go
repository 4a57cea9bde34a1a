package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/loquia/loquia-billing-sync/stripe/types"
)

const (
	selectPayment = "SELECT id, subscription_id, stripe_subscription_id, stripe_invoice_id, " +
		"stripe_payment_intent_id, amount_paid, currency, status, paid_at, created_at FROM payment_history"

	linkPayments = "UPDATE payment_history SET subscription_id=? " +
		"WHERE subscription_id IS NULL AND stripe_subscription_id=?"
)

var paymentColumns = []string{
	"id",
	"subscription_id",
	"stripe_subscription_id",
	"stripe_invoice_id",
	"stripe_payment_intent_id",
	"amount_paid",
	"currency",
	"status",
	"paid_at",
	"created_at",
}

// InsertPayment records a paid invoice. A second record for the same
// invoice is ignored and reported as not inserted.
func (d *DB) InsertPayment(ctx context.Context, p types.PaymentRecord) (bool, error) {
	if p.Id == "" {
		p.Id = uuid.NewString()
	}

	r, err := d.db.ExecContext(
		ctx,
		insertStatement("payment_history", paymentColumns)+" "+d.dialect.ignore("stripe_invoice_id"),
		p.Id,
		p.SubscriptionId,
		lo.EmptyableToPtr(p.StripeSubscriptionId),
		p.StripeInvoiceId,
		lo.EmptyableToPtr(p.StripePaymentIntentId),
		p.AmountPaid,
		p.Currency,
		p.Status,
		utc(p.PaidAt),
		d.now(),
	)
	if err != nil {
		return false, fmt.Errorf("error inserting payment for invoice %s: %w", p.StripeInvoiceId, err)
	}

	n, err := r.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error inserting payment for invoice %s: %w", p.StripeInvoiceId, err)
	}
	return n > 0, nil
}

// LinkPayments attaches payments recorded before the subscription row
// existed to that row. It returns how many payments were linked.
func (d *DB) LinkPayments(ctx context.Context, stripeSubscriptionId, subscriptionId string) (int64, error) {
	r, err := d.db.ExecContext(ctx, linkPayments, subscriptionId, stripeSubscriptionId)
	if err != nil {
		return 0, fmt.Errorf("error linking payments of %s: %w", stripeSubscriptionId, err)
	}
	return r.RowsAffected()
}

func (d *DB) ListPaymentsBySubscription(ctx context.Context, subscriptionId string) ([]types.PaymentRecord, error) {
	return d.listPayments(ctx, " WHERE subscription_id=? ORDER BY created_at", subscriptionId)
}

// ListUnlinkedPayments returns payments recorded before their subscription
// row existed locally.
func (d *DB) ListUnlinkedPayments(ctx context.Context) ([]types.PaymentRecord, error) {
	return d.listPayments(ctx, " WHERE subscription_id IS NULL ORDER BY created_at")
}

func (d *DB) listPayments(ctx context.Context, where string, args ...any) ([]types.PaymentRecord, error) {
	rows, err := d.db.QueryContext(ctx, selectPayment+where, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing payments: %w", err)
	}
	defer rows.Close()

	var payments []types.PaymentRecord
	for rows.Next() {
		var (
			p                    types.PaymentRecord
			stripeSubscriptionId *string
			paymentIntent        *string
		)
		if err := rows.Scan(
			&p.Id,
			&p.SubscriptionId,
			&stripeSubscriptionId,
			&p.StripeInvoiceId,
			&paymentIntent,
			&p.AmountPaid,
			&p.Currency,
			&p.Status,
			&p.PaidAt,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning payment: %w", err)
		}
		p.StripeSubscriptionId = lo.FromPtr(stripeSubscriptionId)
		p.StripePaymentIntentId = lo.FromPtr(paymentIntent)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
