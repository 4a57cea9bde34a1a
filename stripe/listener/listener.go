package listener

//go:generate mockgen -source=listener.go -destination=mocks_test.go -package=listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"

	stripeprocessor "github.com/loquia/loquia-billing-sync/stripe/processor"
	"github.com/loquia/loquia-billing-sync/stripe/types"
)

const (
	maxBodyBytes          = int64(65536)
	stripeSignatureHeader = "Stripe-Signature"
	shutdownTimeout       = 10 * time.Second
	DefaultEndpoint       = "/api/webhooks/stripe"
)

var (
	ErrSignatureInvalid      = errors.New("invalid webhook signature")
	ErrMissingTenantMetadata = errors.New("tenant id missing from metadata")
)

type billingDb interface {
	Ping(ctx context.Context) error

	RecordEvent(ctx context.Context, e types.Event) (bool, error)
	FindEvent(ctx context.Context, eventId string) (*types.BillingEvent, error)
	MarkProcessed(ctx context.Context, eventId string) error
	MarkFailed(ctx context.Context, eventId, message string) error

	UpsertSubscription(ctx context.Context, s types.SubscriptionRecord) error
	FindSubscriptionByStripeId(ctx context.Context, stripeSubscriptionId string) (*types.SubscriptionRecord, error)
	UpdateSubscriptionStatus(ctx context.Context, stripeSubscriptionId, status string) error
	CancelSubscription(ctx context.Context, stripeSubscriptionId string, at time.Time) error
	RefreshSubscriptionPeriod(ctx context.Context, stripeSubscriptionId, status string, start, end *time.Time) error

	InsertPayment(ctx context.Context, p types.PaymentRecord) (bool, error)
	LinkPayments(ctx context.Context, stripeSubscriptionId, subscriptionId string) (int64, error)
}

// processor fetches authoritative objects from the billing processor.
type processor interface {
	GetSubscription(ctx context.Context, id string) (*types.Subscription, error)
	GetCustomer(ctx context.Context, id string) (*types.Customer, error)
}

type Config struct {
	Secret     string
	ListenAddr string
	Endpoint   string
	Tolerance  time.Duration
}

type handlerFunc func(ctx context.Context, raw json.RawMessage) error

type Listener struct {
	cfg       Config
	db        billingDb
	processor processor
	logger    *zap.Logger
	now       func() time.Time
	handlers  map[string]handlerFunc
}

func New(cfg Config, d billingDb, p processor, logger *zap.Logger) *Listener {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = webhook.DefaultTolerance
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Listener{
		cfg:       cfg,
		db:        d,
		processor: p,
		logger:    logger,
		now:       time.Now,
	}
	l.handlers = map[string]handlerFunc{
		types.CheckoutSessionCompleted: l.handleCheckoutCompleted,
		types.SubscriptionCreated:      l.handleSubscriptionChange,
		types.SubscriptionUpdated:      l.handleSubscriptionChange,
		types.SubscriptionDeleted:      l.handleSubscriptionDeleted,
		types.InvoicePaymentSucceeded:  l.handlePaymentSucceeded,
		types.InvoicePaymentFailed:     l.handlePaymentFailed,
	}
	return l
}

func (l *Listener) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(fmt.Sprintf("POST %s", l.cfg.Endpoint), l.webhookHandler)
	mux.HandleFunc("GET /healthz", l.healthHandler)
	return mux
}

// Start does not return until the listener exits or ctx is canceled.
func (l *Listener) Start(ctx context.Context) error {
	s := &http.Server{
		Addr:              l.cfg.ListenAddr,
		Handler:           l.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			l.logger.Error("Error shutting down listener", zap.Error(err))
		}
	}()

	l.logger.Info("Listening", zap.String("address", l.cfg.ListenAddr), zap.String("endpoint", l.cfg.Endpoint))
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (l *Listener) webhookHandler(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
	payload, err := io.ReadAll(req.Body)
	if err != nil {
		l.logger.Warn("Error reading request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}

	event, err := l.receive(payload, req.Header.Get(stripeSignatureHeader))
	if err != nil {
		l.logger.Warn("Rejected webhook", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	log := l.logger.With(zap.String("event_id", event.Id), zap.String("type", event.Type))
	log.Info("Webhook event received", zap.Time("created", types.EpochTime(event.Created)))

	if l.alreadyProcessed(ctx, *event, log) {
		writeJSON(w, http.StatusOK, map[string]any{"received": true, "duplicate": true})
		return
	}

	if err := l.Dispatch(ctx, *event); err != nil {
		log.Error("Error processing webhook", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"received": true})
}

// receive authenticates the payload and decodes the event envelope.
func (l *Listener) receive(payload []byte, signature string) (*types.Event, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, fmt.Errorf("%w: missing %s header", ErrSignatureInvalid, stripeSignatureHeader)
	}

	if err := webhook.ValidatePayloadWithTolerance(payload, signature, l.cfg.Secret, l.cfg.Tolerance); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	}

	return types.Parse[types.Event](payload)
}

// alreadyProcessed journals the event and reports whether an earlier
// delivery of it was processed successfully. Journal failures are logged
// and never block processing.
func (l *Listener) alreadyProcessed(ctx context.Context, e types.Event, log *zap.Logger) bool {
	inserted, err := l.db.RecordEvent(ctx, e)
	if err != nil {
		log.Warn("Error journaling event", zap.Error(err))
		return false
	}
	if inserted {
		return false
	}

	existing, err := l.db.FindEvent(ctx, e.Id)
	if err != nil {
		log.Warn("Error reading journaled event", zap.Error(err))
		return false
	}
	if existing.Processed {
		log.Info("Duplicate delivery of processed event")
		return true
	}
	return false
}

// Dispatch routes e to its reconciliation handler and records the outcome
// on the journal. Unhandled event types succeed without doing anything.
func (l *Listener) Dispatch(ctx context.Context, e types.Event) error {
	return l.dispatch(ctx, e, nil)
}

// Replay re-runs a journaled event. Its payload is a snapshot that newer
// events may have overtaken, so the subscription it names is read from the
// processor first and mirrored over the local row once the handler is done.
func (l *Listener) Replay(ctx context.Context, e types.Event) error {
	subId := snapshotSubscription(e)
	if subId == "" {
		return l.dispatch(ctx, e, nil)
	}

	remote, err := l.processor.GetSubscription(ctx, subId)
	switch {
	case errors.Is(err, stripeprocessor.ErrNotFound):
		remote = nil
	case err != nil:
		return l.fail(ctx, e, fmt.Errorf("error retrieving subscription %s: %w", subId, err))
	}

	return l.dispatch(ctx, e, func(ctx context.Context) error {
		return l.mirror(ctx, subId, remote)
	})
}

func (l *Listener) dispatch(ctx context.Context, e types.Event, after func(context.Context) error) error {
	log := l.logger.With(zap.String("event_id", e.Id), zap.String("type", e.Type))

	h, ok := l.handlers[e.Type]
	if !ok {
		log.Info("Unhandled event type")
	} else if err := h(ctx, e.Data.Raw); err != nil {
		return l.fail(ctx, e, err)
	}

	if after != nil {
		if err := after(ctx); err != nil {
			return l.fail(ctx, e, err)
		}
	}

	if err := l.db.MarkProcessed(ctx, e.Id); err != nil {
		log.Warn("Error marking event processed", zap.Error(err))
	}
	return nil
}

func (l *Listener) fail(ctx context.Context, e types.Event, err error) error {
	if jErr := l.db.MarkFailed(ctx, e.Id, err.Error()); jErr != nil {
		l.logger.Warn("Error recording event failure", zap.String("event_id", e.Id), zap.Error(jErr))
	}
	return fmt.Errorf("error handling %s event %s: %w", e.Type, e.Id, err)
}

// Handles reports whether eventType has a reconciliation handler.
func (l *Listener) Handles(eventType string) bool {
	_, ok := l.handlers[eventType]
	return ok
}

func (l *Listener) healthHandler(w http.ResponseWriter, req *http.Request) {
	if err := l.db.Ping(req.Context()); err != nil {
		l.logger.Warn("Health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
