// Package service contains long running helpers started next to the router
package service

import (
	"bitwise74/forms-api/internal/metrics"
	"context"
	"time"

	"go.uber.org/zap"
)

type SessionPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionCleanup periodically removes sessions whose tokens have expired.
// Such tokens are already rejected by signature checks, this only keeps the
// table small. The loop exits when ctx is cancelled.
func SessionCleanup(ctx context.Context, every, ttl time.Duration, sessions SessionPruner) {
	ticker := time.NewTicker(every)

	zap.L().Debug("Session cleanup attached", zap.Duration("tick_every", every))

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pruneSessions(ctx, ttl, sessions)
			}
		}
	}()
}

func pruneSessions(ctx context.Context, ttl time.Duration, sessions SessionPruner) int64 {
	n, err := sessions.DeleteOlderThan(ctx, time.Now().Add(-ttl))
	if err != nil {
		zap.L().Error("Failed to cleanup expired sessions", zap.Error(err))
		return 0
	}

	if n > 0 {
		metrics.SessionsPruned.Add(float64(n))
		zap.L().Debug("Cleaned up expired sessions", zap.Int64("count", n))
	}

	return n
}
