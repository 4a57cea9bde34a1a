package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	CheckoutSessionCompleted = "checkout.session.completed"
	SubscriptionCreated      = "customer.subscription.created"
	SubscriptionUpdated      = "customer.subscription.updated"
	SubscriptionDeleted      = "customer.subscription.deleted"
	InvoicePaymentSucceeded  = "invoice.payment_succeeded"
	InvoicePaymentFailed     = "invoice.payment_failed"
)

// Metadata keys written by the checkout flow on both the session and the
// subscription it creates.
const (
	MetadataTenantId        = "userId"
	MetadataPlanName        = "planName"
	MetadataBillingInterval = "billingInterval"
)

var ErrMalformedPayload = errors.New("malformed payload")

var validate = validator.New(validator.WithRequiredStructEnabled())

type Event struct {
	Id      string    `json:"id" validate:"required"`
	Type    string    `json:"type" validate:"required"`
	Created int64     `json:"created"`
	Data    EventData `json:"data"`
}

type EventData struct {
	Raw json.RawMessage `json:"object"`
}

// Ref is an object reference the processor sends either as a bare id or as
// an expanded object.
type Ref string

func (r *Ref) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}

	var id string
	if err := json.Unmarshal(b, &id); err == nil {
		*r = Ref(id)
		return nil
	}

	var obj struct {
		Id string `json:"id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("%w: bad object reference %s", ErrMalformedPayload, b)
	}
	*r = Ref(obj.Id)
	return nil
}

func (r Ref) String() string {
	return string(r)
}

type CheckoutSession struct {
	Id           string            `json:"id" validate:"required"`
	Mode         string            `json:"mode"`
	Customer     Ref               `json:"customer"`
	Subscription Ref               `json:"subscription"`
	Metadata     map[string]string `json:"metadata"`
}

type Customer struct {
	Id       string            `json:"id" validate:"required"`
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"metadata"`
}

type Recurring struct {
	Interval string `json:"interval"`
}

type Price struct {
	Id        string     `json:"id" validate:"required"`
	Product   Ref        `json:"product"`
	Recurring *Recurring `json:"recurring"`
}

type SubscriptionItem struct {
	Id                 string `json:"id"`
	Price              Price  `json:"price"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
}

type SubscriptionItemList struct {
	Data []SubscriptionItem `json:"data" validate:"dive"`
}

type Subscription struct {
	Id       string               `json:"id" validate:"required"`
	Customer Ref                  `json:"customer" validate:"required"`
	Status   string               `json:"status" validate:"required"`
	Items    SubscriptionItemList `json:"items"`

	// Period boundaries live on the subscription in older API versions and
	// on each item in newer ones.
	CurrentPeriodStart int64 `json:"current_period_start"`
	CurrentPeriodEnd   int64 `json:"current_period_end"`

	CancelAt   int64             `json:"cancel_at"`
	CanceledAt int64             `json:"canceled_at"`
	TrialStart int64             `json:"trial_start"`
	TrialEnd   int64             `json:"trial_end"`
	Metadata   map[string]string `json:"metadata"`
}

// Price returns the price of the first subscription item.
func (s *Subscription) Price() (Price, error) {
	if len(s.Items.Data) == 0 {
		return Price{}, fmt.Errorf("%w: subscription %s has no items", ErrMalformedPayload, s.Id)
	}
	return s.Items.Data[0].Price, nil
}

func (s *Subscription) PeriodStart() int64 {
	if s.CurrentPeriodStart != 0 || len(s.Items.Data) == 0 {
		return s.CurrentPeriodStart
	}
	return s.Items.Data[0].CurrentPeriodStart
}

func (s *Subscription) PeriodEnd() int64 {
	if s.CurrentPeriodEnd != 0 || len(s.Items.Data) == 0 {
		return s.CurrentPeriodEnd
	}
	return s.Items.Data[0].CurrentPeriodEnd
}

type StatusTransitions struct {
	PaidAt int64 `json:"paid_at"`
}

type SubscriptionDetails struct {
	Subscription Ref `json:"subscription"`
}

type InvoiceParent struct {
	SubscriptionDetails *SubscriptionDetails `json:"subscription_details"`
}

type InvoicePaymentDetails struct {
	Type          string `json:"type"`
	PaymentIntent Ref    `json:"payment_intent"`
}

type InvoicePayment struct {
	Payment InvoicePaymentDetails `json:"payment"`
}

type InvoicePaymentList struct {
	Data []InvoicePayment `json:"data"`
}

type Invoice struct {
	Id                string              `json:"id" validate:"required"`
	Customer          Ref                 `json:"customer"`
	AmountPaid        int64               `json:"amount_paid" validate:"gte=0"`
	Currency          string              `json:"currency" validate:"required"`
	StatusTransitions StatusTransitions   `json:"status_transitions"`
	Subscription      Ref                 `json:"subscription"`
	Parent            *InvoiceParent      `json:"parent"`
	PaymentIntent     Ref                 `json:"payment_intent"`
	Payments          *InvoicePaymentList `json:"payments"`
}

// SubscriptionId returns the subscription the invoice bills, if any.
func (i *Invoice) SubscriptionId() string {
	if i.Subscription != "" {
		return i.Subscription.String()
	}
	if i.Parent != nil && i.Parent.SubscriptionDetails != nil {
		return i.Parent.SubscriptionDetails.Subscription.String()
	}
	return ""
}

func (i *Invoice) PaymentIntentId() string {
	if i.PaymentIntent != "" {
		return i.PaymentIntent.String()
	}
	if i.Payments == nil {
		return ""
	}
	for _, p := range i.Payments.Data {
		if p.Payment.PaymentIntent != "" {
			return p.Payment.PaymentIntent.String()
		}
	}
	return ""
}

// Parse decodes and validates a processor payload.
func Parse[T any](raw []byte) (*T, error) {
	var r T
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	if err := validate.Struct(&r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	return &r, nil
}
