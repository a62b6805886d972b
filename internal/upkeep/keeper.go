package upkeep

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"raffle/internal/logger"
	"raffle/internal/raffle"
)

// Keeper polls the raffle and starts a draw as soon as it becomes eligible.
// Any party may perform upkeep; a lost race surfaces as UpkeepNotNeededError
// and is not an error for the keeper.
type Keeper struct {
	engine     *raffle.Engine
	poll       time.Duration
	stuckAfter time.Duration

	drawStartedAt time.Time
	warnedStuck   bool
}

func NewKeeper(engine *raffle.Engine, poll time.Duration) *Keeper {
	return &Keeper{
		engine: engine,
		poll:   poll,
		// No cancel path exists for an outstanding request; past this point
		// the keeper can only complain.
		stuckAfter: 3 * engine.Interval(),
	}
}

// Run polls until the context is cancelled.
func (k *Keeper) Run(ctx context.Context) {
	ticker := time.NewTicker(k.poll)
	defer ticker.Stop()

	logger.Info("upkeep keeper started", zap.Duration("poll", k.poll))

	for {
		select {
		case <-ctx.Done():
			logger.Info("upkeep keeper stopped")
			return
		case <-ticker.C:
			k.tick(ctx)
		}
	}
}

func (k *Keeper) tick(ctx context.Context) {
	if k.engine.CurrentState() == raffle.StateCalculating {
		k.checkStuck()
		return
	}

	if !k.engine.CheckEligibility() {
		return
	}

	requestID, err := k.engine.StartDraw(ctx)
	if err != nil {
		var notNeeded *raffle.UpkeepNotNeededError
		if errors.As(err, &notNeeded) {
			logger.Debug("lost upkeep race", zap.String("reason", notNeeded.Error()))
			return
		}
		logger.Error("draw start failed", zap.Error(err))
		return
	}

	k.drawStartedAt = time.Now()
	k.warnedStuck = false
	logger.Info("upkeep performed", zap.Uint64("requestId", requestID))
}

func (k *Keeper) checkStuck() {
	if k.drawStartedAt.IsZero() || k.warnedStuck {
		return
	}
	if time.Since(k.drawStartedAt) < k.stuckAfter {
		return
	}

	k.warnedStuck = true
	logger.Warn("randomness request outstanding for too long, funds remain locked",
		zap.Duration("outstanding", time.Since(k.drawStartedAt)))
}
