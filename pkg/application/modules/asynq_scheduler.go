package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"
)

type AsynqPeriodicTask struct {
	Cronspec string // e.g. "@every 4m"
	Pattern  string
}

// AsynqScheduler enqueues periodic tasks into Redis. Handlers for the
// enqueued patterns are registered on the AsynqServer side.
type AsynqScheduler struct {
	RedisUsername string
	RedisPassword string
	RedisAddress  string
	RedisDB       int
}

func (s AsynqScheduler) Run(
	ctx context.Context,
	g *errgroup.Group,
	tasks ...AsynqPeriodicTask,
) {
	g.Go(func() error {
		scheduler := asynq.NewScheduler(
			asynq.RedisClientOpt{
				Addr:     s.RedisAddress,
				Username: s.RedisUsername,
				Password: s.RedisPassword,
				DB:       s.RedisDB,
			},
			nil,
		)

		for _, task := range tasks {
			if _, err := scheduler.Register(task.Cronspec, asynq.NewTask(task.Pattern, nil)); err != nil {
				return fmt.Errorf("scheduler.Register %s: %w", task.Pattern, err)
			}
		}

		go func() {
			<-ctx.Done()
			scheduler.Shutdown()
		}()

		logger(ctx).Info("asynq scheduler started", slog.String("redis-address", s.RedisAddress), slog.Int("tasks", len(tasks)))

		if err := scheduler.Run(); err != nil {
			return fmt.Errorf("scheduler.Run: %w", err)
		}

		logger(ctx).Info("asynq scheduler stopped", slog.String("redis-address", s.RedisAddress))

		return nil
	})
}
