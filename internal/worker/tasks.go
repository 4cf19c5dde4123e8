package worker

import (
	"context"

	"github.com/hibiken/asynq"
)

// TaskRefreshDeals is the asynq task pattern for the periodic forced
// refresh. The asynq scheduler enqueues it on the refresh cronspec when
// Redis is configured; otherwise RunScheduled covers the same duty
// in-process.
const TaskRefreshDeals = "deals:refresh"

func (r *Refresher) HandleRefreshTask(ctx context.Context, _ *asynq.Task) error {
	return r.refreshAndPublish(ctx)
}
