package processor

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/samber/lo"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"go.uber.org/zap"

	"github.com/loquia/loquia-billing-sync/stripe/types"
)

var ErrNotFound = errors.New("object not found at processor")

type Config struct {
	Key string
	// URL overrides the API base URL. Empty means the production API.
	URL        string
	MaxRetries int64
}

// Client reads subscriptions and customers straight from the processor.
type Client struct {
	api *client.API
}

func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	backendCfg := &stripe.BackendConfig{
		LeveledLogger:     logger.Named("stripe").Sugar(),
		MaxNetworkRetries: stripe.Int64(cfg.MaxRetries),
	}
	if cfg.URL != "" {
		backendCfg.URL = stripe.String(cfg.URL)
	}

	b := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)
	api := &client.API{}
	api.Init(cfg.Key, &stripe.Backends{API: b, Connect: b, Uploads: b})

	return &Client{api: api}
}

func (c *Client) GetSubscription(ctx context.Context, id string) (*types.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	s, err := c.api.Subscriptions.Get(id, params)
	if err != nil {
		return nil, wrap("subscription", id, err)
	}
	return subscription(s), nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*types.Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	cu, err := c.api.Customers.Get(id, params)
	if err != nil {
		return nil, wrap("customer", id, err)
	}
	return &types.Customer{
		Id:       cu.ID,
		Name:     cu.Name,
		Email:    cu.Email,
		Metadata: cu.Metadata,
	}, nil
}

func wrap(kind, id string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) &&
		(stripeErr.Code == stripe.ErrorCodeResourceMissing || stripeErr.HTTPStatusCode == http.StatusNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("error retrieving %s %s: %w", kind, id, err)
}

func subscription(s *stripe.Subscription) *types.Subscription {
	sub := &types.Subscription{
		Id:         s.ID,
		Status:     string(s.Status),
		CancelAt:   s.CancelAt,
		CanceledAt: s.CanceledAt,
		TrialStart: s.TrialStart,
		TrialEnd:   s.TrialEnd,
		Metadata:   s.Metadata,
	}
	if s.Customer != nil {
		sub.Customer = types.Ref(s.Customer.ID)
	}
	if s.Items != nil {
		sub.Items.Data = lo.Map(
			lo.Filter(s.Items.Data, func(i *stripe.SubscriptionItem, _ int) bool { return i != nil }),
			func(i *stripe.SubscriptionItem, _ int) types.SubscriptionItem { return subscriptionItem(i) },
		)
	}
	return sub
}

func subscriptionItem(i *stripe.SubscriptionItem) types.SubscriptionItem {
	item := types.SubscriptionItem{
		Id:                 i.ID,
		CurrentPeriodStart: i.CurrentPeriodStart,
		CurrentPeriodEnd:   i.CurrentPeriodEnd,
	}
	if p := i.Price; p != nil {
		item.Price.Id = p.ID
		if p.Product != nil {
			item.Price.Product = types.Ref(p.Product.ID)
		}
		if p.Recurring != nil {
			item.Price.Recurring = &types.Recurring{Interval: string(p.Recurring.Interval)}
		}
	}
	return item
}
