package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/loquia/loquia-billing-sync/stripe/types"
)

const (
	selectEvent = "SELECT stripe_event_id, event_type, payload, processed, error_message, " +
		"attempts, dead_lettered_at, created_at, updated_at FROM billing_events"

	markProcessed = "UPDATE billing_events SET processed=?, error_message=NULL, dead_lettered_at=NULL, updated_at=? " +
		"WHERE stripe_event_id=?"
	markFailed = "UPDATE billing_events SET processed=?, error_message=?, updated_at=? " +
		"WHERE stripe_event_id=?"
	incrementAttempts = "UPDATE billing_events SET attempts=attempts+1, updated_at=? " +
		"WHERE stripe_event_id=?"
	deadLetter = "UPDATE billing_events SET dead_lettered_at=?, error_message=?, updated_at=? " +
		"WHERE stripe_event_id=? AND processed=?"
)

var eventColumns = []string{
	"stripe_event_id", "event_type", "payload", "processed", "attempts", "created_at", "updated_at",
}

// EventCounts summarises the journal backlog.
type EventCounts struct {
	Total        int
	Processed    int
	Pending      int
	DeadLettered int
}

// RecordEvent journals a received event with processed=false. It returns
// false when the event id is already journaled, leaving that row untouched.
func (d *DB) RecordEvent(ctx context.Context, e types.Event) (bool, error) {
	now := d.now()
	payload := string(e.Data.Raw)
	if payload == "" {
		payload = "{}"
	}

	r, err := d.db.ExecContext(
		ctx,
		insertStatement("billing_events", eventColumns)+" "+d.dialect.ignore("stripe_event_id"),
		e.Id,
		e.Type,
		payload,
		false,
		0,
		now,
		now,
	)
	if err != nil {
		return false, fmt.Errorf("error journaling event %s: %w", e.Id, err)
	}

	n, err := r.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error journaling event %s: %w", e.Id, err)
	}
	return n > 0, nil
}

func (d *DB) MarkProcessed(ctx context.Context, eventId string) error {
	if _, err := d.db.ExecContext(ctx, markProcessed, true, d.now(), eventId); err != nil {
		return fmt.Errorf("error marking event %s processed: %w", eventId, err)
	}
	return nil
}

func (d *DB) MarkFailed(ctx context.Context, eventId, message string) error {
	if _, err := d.db.ExecContext(ctx, markFailed, false, message, d.now(), eventId); err != nil {
		return fmt.Errorf("error marking event %s failed: %w", eventId, err)
	}
	return nil
}

// IncrementAttempts bumps the replay counter and returns its new value.
func (d *DB) IncrementAttempts(ctx context.Context, eventId string) (int, error) {
	r, err := d.db.ExecContext(ctx, incrementAttempts, d.now(), eventId)
	if err != nil {
		return 0, fmt.Errorf("error counting attempt for event %s: %w", eventId, err)
	}
	if n, err := r.RowsAffected(); err == nil && n == 0 {
		return 0, fmt.Errorf("event %s: %w", eventId, ErrNotFound)
	}

	e, err := d.FindEvent(ctx, eventId)
	if err != nil {
		return 0, err
	}
	return e.Attempts, nil
}

// DeadLetter parks an unprocessed event so replay stops picking it up.
func (d *DB) DeadLetter(ctx context.Context, eventId, message string) error {
	now := d.now()
	if _, err := d.db.ExecContext(ctx, deadLetter, now, message, now, eventId, false); err != nil {
		return fmt.Errorf("error dead-lettering event %s: %w", eventId, err)
	}
	return nil
}

func (d *DB) FindEvent(ctx context.Context, eventId string) (*types.BillingEvent, error) {
	row := d.db.QueryRowContext(ctx, selectEvent+" WHERE stripe_event_id=?", eventId)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", eventId, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error finding event %s: %w", eventId, err)
	}
	return e, nil
}

// ListPendingEvents returns unprocessed, non dead-lettered events, oldest first.
func (d *DB) ListPendingEvents(ctx context.Context, limit int) ([]types.BillingEvent, error) {
	rows, err := d.db.QueryContext(
		ctx,
		selectEvent+" WHERE processed=? AND dead_lettered_at IS NULL ORDER BY created_at LIMIT ?",
		false,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("error listing pending events: %w", err)
	}
	defer rows.Close()

	var events []types.BillingEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (d *DB) CountEvents(ctx context.Context) (EventCounts, error) {
	var c EventCounts
	err := d.db.QueryRowContext(
		ctx,
		`SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN processed THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN NOT processed AND dead_lettered_at IS NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN dead_lettered_at IS NOT NULL THEN 1 ELSE 0 END), 0)
		FROM billing_events`,
	).Scan(&c.Total, &c.Processed, &c.Pending, &c.DeadLettered)
	if err != nil {
		return c, fmt.Errorf("error counting events: %w", err)
	}
	return c, nil
}

func scanEvent(s scanner) (*types.BillingEvent, error) {
	var (
		e       types.BillingEvent
		payload string
	)
	if err := s.Scan(
		&e.EventId,
		&e.Type,
		&payload,
		&e.Processed,
		&e.ErrorMessage,
		&e.Attempts,
		&e.DeadLetteredAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.Payload = []byte(payload)
	return &e, nil
}
