package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/repository"
	"github.com/hemshop/hemshop-api/internal/service"
)

// PayoutWorker drives unsent payouts (withdrawals and refunds) through
// the settlement gateway periodically.
type PayoutWorker struct {
	store       repository.Store
	transfer    service.Transferrer
	interval    time.Duration
	maxAttempts int
}

// NewPayoutWorker constructs a PayoutWorker.
func NewPayoutWorker(
	store repository.Store,
	transfer service.Transferrer,
	interval time.Duration,
	maxAttempts int,
) *PayoutWorker {
	return &PayoutWorker{
		store:       store,
		transfer:    transfer,
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

// Start begins the periodic payout loop until context is canceled.
func (w *PayoutWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting payout worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Payout worker stopped")
			return
		}
	}
}

func (w *PayoutWorker) run(ctx context.Context) {
	payouts, err := w.store.Payouts().ListUnsent(ctx, w.maxAttempts)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get unsent payouts")
		return
	}
	if len(payouts) == 0 {
		return
	}
	log.Info().Int("count", len(payouts)).Msg("Processing unsent payouts")

	for i := range payouts {
		// Respect cancellation between items
		select {
		case <-ctx.Done():
			return
		default:
			w.processPayout(ctx, &payouts[i])
		}
	}
}

func (w *PayoutWorker) processPayout(ctx context.Context, payout *models.Payout) {
	log.Info().
		Int64("payout_id", payout.ID).
		Str("kind", string(payout.Kind)).
		Int("attempts", payout.Attempts).
		Msg("Sending payout")

	if err := w.transfer.Transfer(ctx, payout.Address, payout.Amount, payout.Reference); err != nil {
		log.Error().Err(err).Int64("payout_id", payout.ID).Msg("Payout transfer failed")
		if mErr := w.store.Payouts().MarkFailed(ctx, payout.ID, err.Error()); mErr != nil {
			log.Error().Err(mErr).Int64("payout_id", payout.ID).Msg("Failed to record payout failure")
		}
		return
	}
	if err := w.store.Payouts().MarkSent(ctx, payout.ID); err != nil {
		log.Error().Err(err).Int64("payout_id", payout.ID).Msg("Failed to record payout success")
	}
}
