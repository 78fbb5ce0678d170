// Package jobs holds background loops started from main.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/fxledger/fxledger/internal/ledger"
)

// RunRateRefresher re-fetches exchange rates on the given interval until the
// context is cancelled. Fetch failures are logged by the service and retried
// on the next tick; the cached table keeps serving reads in between.
func RunRateRefresher(ctx context.Context, svc *ledger.Service, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("rate refresher started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("rate refresher stopped")
			return
		case <-ticker.C:
			_ = svc.RefreshRates(ctx)
		}
	}
}
