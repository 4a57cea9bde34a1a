package sync

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/loquia/loquia-billing-sync/stripe/processor"
	"github.com/loquia/loquia-billing-sync/stripe/types"
)

type store interface {
	ListSubscriptions(ctx context.Context, excludeStatus ...string) ([]types.SubscriptionRecord, error)
}

type remote interface {
	GetSubscription(ctx context.Context, id string) (*types.Subscription, error)
}

type updater interface {
	Resync(ctx context.Context, local types.SubscriptionRecord, remote *types.Subscription) error
	Cancel(ctx context.Context, stripeSubscriptionId string) error
}

type Result struct {
	Checked  int
	Resynced int
	Canceled int
}

// Run compares every live local subscription with the processor and heals
// the ones that drifted.
func Run(ctx context.Context, s store, r remote, u updater, logger *zap.Logger) (Result, error) {
	local, err := s.ListSubscriptions(ctx, types.StatusCanceled)
	if err != nil {
		return Result{}, err
	}
	return Reconcile(ctx, local, r, u, logger)
}

func Reconcile(
	ctx context.Context,
	localRecords []types.SubscriptionRecord,
	r remote,
	u updater,
	logger *zap.Logger,
) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		err error
		res = Result{Checked: len(localRecords)}
	)

	records := make(map[string]types.SubscriptionRecord, len(localRecords))
	remoteSubs := make(map[string]*types.Subscription, len(localRecords))
	local := NewStateSet()
	fetched := NewStateSet()
	var missing []string

	for _, rec := range localRecords {
		records[rec.StripeSubscriptionId] = rec
		local.Add(LocalState(rec))

		sub, fErr := r.GetSubscription(ctx, rec.StripeSubscriptionId)
		switch {
		case fErr == nil:
			remoteSubs[sub.Id] = sub
			fetched.Add(RemoteState(sub))
		case errors.Is(fErr, processor.ErrNotFound):
			missing = append(missing, rec.StripeSubscriptionId)
		default:
			// Left alone: a failed fetch is not drift.
			logger.Warn("Error fetching subscription", zap.String("subscription_id", rec.StripeSubscriptionId), zap.Error(fErr))
			fetched.Add(LocalState(rec))
			err = fErr
		}
	}

	for _, id := range missing {
		logger.Info("Subscription gone from processor", zap.String("subscription_id", id))
		if cErr := u.Cancel(ctx, id); cErr != nil {
			logger.Error("Error canceling subscription", zap.String("subscription_id", id), zap.Error(cErr))
			err = cErr
			continue
		}
		res.Canceled++
	}

	drift := fetched.Difference(local)
	if drift.IsEmpty() {
		logger.Debug("Nothing to resync")
		return res, err
	}

	for s := range drift.Iter() {
		logger.Info(
			"Subscription drifted",
			zap.String("subscription_id", s.SubscriptionId),
			zap.String("status", s.Status),
		)
		if uErr := u.Resync(ctx, records[s.SubscriptionId], remoteSubs[s.SubscriptionId]); uErr != nil {
			logger.Error("Error resyncing subscription", zap.String("subscription_id", s.SubscriptionId), zap.Error(uErr))
			err = uErr
			continue
		}
		res.Resynced++
	}

	return res, err
}
