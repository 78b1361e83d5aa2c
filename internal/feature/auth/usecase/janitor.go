package usecase

import (
	"context"
	"log/slog"
	"time"
)

// ExpiredTokenPurger removes tokens past their expiry.
type ExpiredTokenPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// RunTokenJanitor purges expired tokens every interval until ctx is done.
// Redemption already rejects expired tokens; this only bounds table growth.
func RunTokenJanitor(ctx context.Context, purger ExpiredTokenPurger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := purger.DeleteExpired(ctx)
			if err != nil {
				slog.Error("failed to purge expired tokens", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged expired tokens", "count", n)
			}
		}
	}
}
