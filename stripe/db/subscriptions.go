package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/loquia/loquia-billing-sync/stripe/types"
)

const (
	selectSubscription = "SELECT id, tenant_id, stripe_subscription_id, stripe_customer_id, " +
		"stripe_product_id, stripe_price_id, customer_email, plan_name, billing_interval, status, " +
		"current_period_start, current_period_end, cancel_at, canceled_at, trial_start, trial_end, " +
		"metadata, created_at, updated_at FROM subscriptions"

	updateSubscriptionStatus = "UPDATE subscriptions SET status=?, updated_at=? " +
		"WHERE stripe_subscription_id=?"
	cancelSubscription = "UPDATE subscriptions SET status=?, canceled_at=?, updated_at=? " +
		"WHERE stripe_subscription_id=?"
	refreshSubscriptionPeriod = "UPDATE subscriptions SET status=?, current_period_start=?, " +
		"current_period_end=?, updated_at=? WHERE stripe_subscription_id=?"
)

var subscriptionColumns = []string{
	"id",
	"tenant_id",
	"stripe_subscription_id",
	"stripe_customer_id",
	"stripe_product_id",
	"stripe_price_id",
	"customer_email",
	"plan_name",
	"billing_interval",
	"status",
	"current_period_start",
	"current_period_end",
	"cancel_at",
	"canceled_at",
	"trial_start",
	"trial_end",
	"metadata",
	"created_at",
	"updated_at",
}

// Columns overwritten when the subscription already exists. The local id and
// creation time survive every upsert.
var subscriptionUpdateColumns = lo.Without(
	subscriptionColumns,
	"id",
	"stripe_subscription_id",
	"created_at",
)

// UpsertSubscription writes s keyed by its processor subscription id. The
// last write wins.
func (d *DB) UpsertSubscription(ctx context.Context, s types.SubscriptionRecord) error {
	if s.StripeSubscriptionId == "" {
		return errors.New("subscription without processor id")
	}
	if s.Id == "" {
		s.Id = uuid.NewString()
	}

	metadata, err := json.Marshal(lo.Ternary(s.Metadata == nil, map[string]string{}, s.Metadata))
	if err != nil {
		return fmt.Errorf("error encoding subscription metadata: %w", err)
	}

	now := d.now()
	query := insertStatement("subscriptions", subscriptionColumns) + " " +
		d.dialect.upsert("stripe_subscription_id", subscriptionUpdateColumns)
	if _, err := d.db.ExecContext(
		ctx,
		query,
		s.Id,
		s.TenantId,
		s.StripeSubscriptionId,
		s.StripeCustomerId,
		s.StripeProductId,
		s.StripePriceId,
		s.CustomerEmail,
		s.PlanName,
		s.BillingInterval,
		s.Status,
		utc(s.CurrentPeriodStart),
		utc(s.CurrentPeriodEnd),
		utc(s.CancelAt),
		utc(s.CanceledAt),
		utc(s.TrialStart),
		utc(s.TrialEnd),
		string(metadata),
		now,
		now,
	); err != nil {
		return fmt.Errorf("error upserting subscription %s: %w", s.StripeSubscriptionId, err)
	}

	return nil
}

func (d *DB) UpdateSubscriptionStatus(ctx context.Context, stripeSubscriptionId, status string) error {
	if _, err := d.db.ExecContext(
		ctx,
		updateSubscriptionStatus,
		status,
		d.now(),
		stripeSubscriptionId,
	); err != nil {
		return fmt.Errorf("error updating subscription %s status: %w", stripeSubscriptionId, err)
	}
	return nil
}

// CancelSubscription marks the subscription canceled. The row is kept.
func (d *DB) CancelSubscription(ctx context.Context, stripeSubscriptionId string, at time.Time) error {
	if _, err := d.db.ExecContext(
		ctx,
		cancelSubscription,
		types.StatusCanceled,
		at.UTC(),
		d.now(),
		stripeSubscriptionId,
	); err != nil {
		return fmt.Errorf("error canceling subscription %s: %w", stripeSubscriptionId, err)
	}
	return nil
}

func (d *DB) RefreshSubscriptionPeriod(
	ctx context.Context,
	stripeSubscriptionId,
	status string,
	start,
	end *time.Time,
) error {
	if _, err := d.db.ExecContext(
		ctx,
		refreshSubscriptionPeriod,
		status,
		utc(start),
		utc(end),
		d.now(),
		stripeSubscriptionId,
	); err != nil {
		return fmt.Errorf("error refreshing subscription %s: %w", stripeSubscriptionId, err)
	}
	return nil
}

func (d *DB) FindSubscriptionByStripeId(ctx context.Context, stripeSubscriptionId string) (*types.SubscriptionRecord, error) {
	row := d.db.QueryRowContext(ctx, selectSubscription+" WHERE stripe_subscription_id=?", stripeSubscriptionId)
	s, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subscription %s: %w", stripeSubscriptionId, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error finding subscription %s: %w", stripeSubscriptionId, err)
	}
	return s, nil
}

// FindSubscriptionByTenant returns the tenant's most recently updated
// subscription.
func (d *DB) FindSubscriptionByTenant(ctx context.Context, tenantId string) (*types.SubscriptionRecord, error) {
	row := d.db.QueryRowContext(
		ctx,
		selectSubscription+" WHERE tenant_id=? ORDER BY updated_at DESC LIMIT 1",
		tenantId,
	)
	s, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subscription for tenant %s: %w", tenantId, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error finding subscription for tenant %s: %w", tenantId, err)
	}
	return s, nil
}

// ListSubscriptions returns every subscription whose status is not one of
// the excluded ones.
func (d *DB) ListSubscriptions(ctx context.Context, excludeStatus ...string) ([]types.SubscriptionRecord, error) {
	rows, err := d.db.QueryContext(ctx, selectSubscription+" ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("error listing subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []types.SubscriptionRecord
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning subscription: %w", err)
		}
		if lo.Contains(excludeStatus, s.Status) {
			continue
		}
		subs = append(subs, *s)
	}
	return subs, rows.Err()
}

func (d *DB) CountSubscriptionsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM subscriptions GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("error counting subscriptions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("error scanning subscription count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func scanSubscription(s scanner) (*types.SubscriptionRecord, error) {
	var (
		r        types.SubscriptionRecord
		metadata *string
	)
	if err := s.Scan(
		&r.Id,
		&r.TenantId,
		&r.StripeSubscriptionId,
		&r.StripeCustomerId,
		&r.StripeProductId,
		&r.StripePriceId,
		&r.CustomerEmail,
		&r.PlanName,
		&r.BillingInterval,
		&r.Status,
		&r.CurrentPeriodStart,
		&r.CurrentPeriodEnd,
		&r.CancelAt,
		&r.CanceledAt,
		&r.TrialStart,
		&r.TrialEnd,
		&metadata,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if metadata != nil && *metadata != "" {
		if err := json.Unmarshal([]byte(*metadata), &r.Metadata); err != nil {
			return nil, fmt.Errorf("error decoding metadata of %s: %w", r.StripeSubscriptionId, err)
		}
	}
	return &r, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
