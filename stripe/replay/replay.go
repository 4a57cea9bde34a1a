package replay

//go:generate mockgen -source=replay.go -destination=mocks_test.go -package=replay

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/loquia/loquia-billing-sync/stripe/listener"
	"github.com/loquia/loquia-billing-sync/stripe/types"
)

const (
	defaultBatchSize       = 100
	defaultMaxAttempts     = 5
	defaultRetries         = 3
	defaultInitialInterval = 500 * time.Millisecond
	defaultMaxElapsed      = 30 * time.Second
	defaultInterval        = 5 * time.Minute
)

type journal interface {
	ListPendingEvents(ctx context.Context, limit int) ([]types.BillingEvent, error)
	IncrementAttempts(ctx context.Context, eventId string) (int, error)
	DeadLetter(ctx context.Context, eventId, message string) error
}

type dispatcher interface {
	Replay(ctx context.Context, e types.Event) error
}

type Config struct {
	BatchSize int
	// MaxAttempts is the number of sweeps an event may fail before it is
	// dead-lettered.
	MaxAttempts int
	// Retries bounds the backoff retries within a single sweep.
	Retries         int
	InitialInterval time.Duration
	MaxElapsed      time.Duration
	Interval        time.Duration
}

type Result struct {
	Replayed     int
	Failed       int
	DeadLettered int
}

type Replayer struct {
	cfg        Config
	journal    journal
	dispatcher dispatcher
	logger     *zap.Logger
}

func New(cfg Config, j journal, d dispatcher, logger *zap.Logger) *Replayer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Retries <= 0 {
		cfg.Retries = defaultRetries
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = defaultInitialInterval
	}
	if cfg.MaxElapsed <= 0 {
		cfg.MaxElapsed = defaultMaxElapsed
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Replayer{cfg: cfg, journal: j, dispatcher: d, logger: logger}
}

// Permanent reports whether err can never succeed on a later attempt.
func Permanent(err error) bool {
	return errors.Is(err, listener.ErrMissingTenantMetadata) ||
		errors.Is(err, types.ErrMalformedPayload)
}

// Sweep replays every pending event once, oldest first.
func (r *Replayer) Sweep(ctx context.Context) (Result, error) {
	var res Result

	events, err := r.journal.ListPendingEvents(ctx, r.cfg.BatchSize)
	if err != nil {
		return res, err
	}

	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		log := r.logger.With(zap.String("event_id", e.EventId), zap.String("type", e.Type))

		attempts, err := r.journal.IncrementAttempts(ctx, e.EventId)
		if err != nil {
			return res, err
		}

		err = backoff.Retry(func() error {
			err := r.dispatcher.Replay(ctx, e.Event())
			if Permanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}, backoff.WithContext(r.newBackOff(), ctx))

		if err == nil {
			log.Info("Event replayed", zap.Int("attempts", attempts))
			res.Replayed++
			continue
		}

		if !Permanent(err) && attempts < r.cfg.MaxAttempts {
			log.Warn("Event replay failed", zap.Int("attempts", attempts), zap.Error(err))
			res.Failed++
			continue
		}

		if err := r.journal.DeadLetter(ctx, e.EventId, err.Error()); err != nil {
			return res, err
		}
		log.Error("Event dead-lettered", zap.Int("attempts", attempts), zap.Error(err))
		res.DeadLettered++
	}

	return res, nil
}

// Run sweeps on every interval until ctx is canceled.
func (r *Replayer) Run(ctx context.Context) error {
	t := time.NewTicker(r.cfg.Interval)
	defer t.Stop()

	for {
		res, err := r.Sweep(ctx)
		if err != nil && ctx.Err() == nil {
			r.logger.Error("Replay sweep failed", zap.Error(err))
		} else if err == nil {
			r.logger.Info(
				"Replay sweep done",
				zap.Int("replayed", res.Replayed),
				zap.Int("failed", res.Failed),
				zap.Int("dead_lettered", res.DeadLettered),
			)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

func (r *Replayer) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.InitialInterval
	b.MaxElapsedTime = r.cfg.MaxElapsed
	return backoff.WithMaxRetries(b, uint64(r.cfg.Retries))
}
