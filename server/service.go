package server

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/loquia/loquia-billing-sync/stripe/db"
	"github.com/loquia/loquia-billing-sync/stripe/types"
)

type store interface {
	FindSubscriptionByTenant(ctx context.Context, tenantId string) (*types.SubscriptionRecord, error)
	ListPaymentsBySubscription(ctx context.Context, subscriptionId string) ([]types.PaymentRecord, error)
}

// Service answers subscription queries for other backend services.
type Service struct {
	store  store
	logger *zap.Logger
}

var _ SubscriptionsServer = (*Service)(nil)

func NewService(s store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: s, logger: logger}
}

func (s *Service) GetSubscription(ctx context.Context, tenant *wrapperspb.StringValue) (*structpb.Struct, error) {
	sub, err := s.find(ctx, tenant)
	if err != nil {
		return nil, err
	}

	st, err := structpb.NewStruct(subscriptionFields(sub))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding subscription: %s", err)
	}
	return st, nil
}

func (s *Service) ListPayments(ctx context.Context, tenant *wrapperspb.StringValue) (*structpb.ListValue, error) {
	sub, err := s.find(ctx, tenant)
	if err != nil {
		return nil, err
	}

	payments, err := s.store.ListPaymentsBySubscription(ctx, sub.Id)
	if err != nil {
		s.logger.Error("Error listing payments", zap.String("subscription_id", sub.Id), zap.Error(err))
		return nil, status.Error(codes.Internal, "error listing payments")
	}

	lv, err := structpb.NewList(lo.Map(payments, func(p types.PaymentRecord, _ int) any {
		return paymentFields(p)
	}))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding payments: %s", err)
	}
	return lv, nil
}

func (s *Service) find(ctx context.Context, tenant *wrapperspb.StringValue) (*types.SubscriptionRecord, error) {
	tenantId := tenant.GetValue()
	if tenantId == "" {
		return nil, status.Error(codes.InvalidArgument, "tenant id is required")
	}

	sub, err := s.store.FindSubscriptionByTenant(ctx, tenantId)
	if errors.Is(err, db.ErrNotFound) {
		return nil, status.Errorf(codes.NotFound, "no subscription for tenant %s", tenantId)
	}
	if err != nil {
		s.logger.Error("Error finding subscription", zap.String("tenant_id", tenantId), zap.Error(err))
		return nil, status.Error(codes.Internal, "error finding subscription")
	}
	return sub, nil
}

func subscriptionFields(s *types.SubscriptionRecord) map[string]any {
	return map[string]any{
		"id":                     s.Id,
		"tenant_id":              s.TenantId,
		"stripe_subscription_id": s.StripeSubscriptionId,
		"stripe_customer_id":     s.StripeCustomerId,
		"stripe_product_id":      s.StripeProductId,
		"stripe_price_id":        s.StripePriceId,
		"customer_email":         s.CustomerEmail,
		"plan_name":              s.PlanName,
		"billing_interval":       s.BillingInterval,
		"status":                 s.Status,
		"current_period_start":   timeValue(s.CurrentPeriodStart),
		"current_period_end":     timeValue(s.CurrentPeriodEnd),
		"cancel_at":              timeValue(s.CancelAt),
		"canceled_at":            timeValue(s.CanceledAt),
		"trial_start":            timeValue(s.TrialStart),
		"trial_end":              timeValue(s.TrialEnd),
		"metadata":               lo.MapValues(s.Metadata, func(v string, _ string) any { return v }),
		"created_at":             s.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":             s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func paymentFields(p types.PaymentRecord) map[string]any {
	return map[string]any{
		"id":                       p.Id,
		"stripe_invoice_id":        p.StripeInvoiceId,
		"stripe_payment_intent_id": p.StripePaymentIntentId,
		"amount_paid":              p.AmountPaid,
		"currency":                 p.Currency,
		"status":                   p.Status,
		"paid_at":                  timeValue(p.PaidAt),
		"created_at":               p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func timeValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// LogRequests logs every unary call with its outcome.
func LogRequests(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info(
			"Request served",
			zap.String("method", info.FullMethod),
			zap.Stringer("code", status.Code(err)),
			zap.Duration("elapsed", time.Since(start)),
		)
		return resp, err
	}
}
