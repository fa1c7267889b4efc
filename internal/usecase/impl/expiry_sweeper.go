package impl

import (
	"context"
	"log/slog"
	"time"

	"rutopia/internal/domain/lifecycle"
	"rutopia/internal/domain/repository"
	"rutopia/internal/usecase"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

const sweepKey = "deactivate-expired"

// expirySweeper implements the ExpirySweeper interface. Concurrent callers share
// one in-flight pass instead of each issuing the same bulk update.
type expirySweeper struct {
	alertRepo repository.AlertRepository
	logger    *slog.Logger
	now       func() time.Time
	group     singleflight.Group
}

// NewExpirySweeper is the constructor for expirySweeper.
func NewExpirySweeper(alertRepo repository.AlertRepository, logger *slog.Logger) usecase.ExpirySweeper {
	return &expirySweeper{
		alertRepo: alertRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Sweep deactivates every active alert whose expiry has passed.
func (s *expirySweeper) Sweep(ctx context.Context) (int64, error) {
	result, err, _ := s.group.Do(sweepKey, func() (any, error) {
		// Outlives the caller that started it; other readers share this pass.
		sweepCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lifecycle.DefaultTimeout)
		defer cancel()

		return s.alertRepo.DeactivateExpired(sweepCtx, s.now().UTC())
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to deactivate expired alerts")
	}

	changed, _ := result.(int64)
	if changed > 0 {
		s.logger.Info("Expired alerts deactivated", slog.Int64("count", changed))
	}

	return changed, nil
}
