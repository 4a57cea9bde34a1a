package sync

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/loquia/loquia-billing-sync/stripe/types"
)

type (
	StateSet = mapset.Set[State]

	// State is the part of a subscription whose drift triggers a resync.
	State struct {
		SubscriptionId string
		Status         string
		PriceId        string
		PeriodEnd      int64
	}
)

func NewStateSet(vals ...State) StateSet {
	return mapset.NewSet(vals...)
}

func LocalState(r types.SubscriptionRecord) State {
	s := State{
		SubscriptionId: r.StripeSubscriptionId,
		Status:         r.Status,
		PriceId:        r.StripePriceId,
	}
	if r.CurrentPeriodEnd != nil {
		s.PeriodEnd = types.Epoch(*r.CurrentPeriodEnd)
	}
	return s
}

func RemoteState(s *types.Subscription) State {
	state := State{
		SubscriptionId: s.Id,
		Status:         s.Status,
		PeriodEnd:      s.PeriodEnd(),
	}
	if p, err := s.Price(); err == nil {
		state.PriceId = p.Id
	}
	return state
}
