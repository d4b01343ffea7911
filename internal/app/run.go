package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"coin-tracker/internal/scheduler"
)

// Run executes the long-running price recorder: every interval, record a
// snapshot for each tracked coin. An advisory lock keeps concurrent
// instances from double-sampling.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Recorder.Interval,
		AlignToStart: a.Config.Recorder.AlignToInterval,
		StartupDelay: a.Config.Recorder.StartupDelay,
	}, a.Logger)

	trk := a.newTracker(store)
	lockKey := a.Config.Recorder.AdvisoryLockKey

	a.Logger.Info().Dur("interval", a.Config.Recorder.Interval).Msg("starting price recorder")

	err = sched.Run(ctx, func(ctx context.Context, tick time.Time) error {
		if lockKey != 0 {
			unlock, acquired, lockErr := store.TryAdvisoryLock(ctx, lockKey)
			if lockErr != nil {
				return fmt.Errorf("acquire advisory lock: %w", lockErr)
			}
			if !acquired {
				a.Logger.Debug().Time("tick", tick).Msg("skip tick because advisory lock held elsewhere")
				return nil
			}
			defer unlock()
		}

		_, recordErr := trk.RecordAll(ctx)
		return recordErr
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("recorder terminated with error")
		return err
	}

	a.Logger.Info().Msg("price recorder stopped")
	return nil
}
