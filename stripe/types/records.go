package types

import (
	"encoding/json"
	"time"
)

const (
	StatusActive            = "active"
	StatusTrialing          = "trialing"
	StatusPastDue           = "past_due"
	StatusCanceled          = "canceled"
	StatusIncomplete        = "incomplete"
	StatusIncompleteExpired = "incomplete_expired"
	StatusUnpaid            = "unpaid"
	StatusPaused            = "paused"

	PaymentStatusPaid = "paid"

	IntervalMonth = "month"
	IntervalYear  = "year"

	DefaultPlanName = "basic"
)

// BillingEvent is one journal entry.
type BillingEvent struct {
	EventId        string
	Type           string
	Payload        json.RawMessage
	Processed      bool
	ErrorMessage   *string
	Attempts       int
	DeadLetteredAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Event rebuilds the envelope so a journaled entry can be dispatched again.
func (e BillingEvent) Event() Event {
	return Event{
		Id:   e.EventId,
		Type: e.Type,
		Data: EventData{Raw: e.Payload},
	}
}

// SubscriptionRecord is the local mirror of a processor subscription.
type SubscriptionRecord struct {
	Id                   string
	TenantId             string
	StripeSubscriptionId string
	StripeCustomerId     string
	StripeProductId      string
	StripePriceId        string
	CustomerEmail        string
	PlanName             string
	BillingInterval      string
	Status               string
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	CancelAt             *time.Time
	CanceledAt           *time.Time
	TrialStart           *time.Time
	TrialEnd             *time.Time
	Metadata             map[string]string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type PaymentRecord struct {
	Id                    string
	SubscriptionId        *string
	StripeSubscriptionId  string
	StripeInvoiceId       string
	StripePaymentIntentId string
	AmountPaid            int64
	Currency              string
	Status                string
	PaidAt                *time.Time
	CreatedAt             time.Time
}
