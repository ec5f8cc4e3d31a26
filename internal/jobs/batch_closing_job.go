package jobs

import (
	"context"
	"errors"
	"log/slog"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// DefaultBatchClosingSchedule closes the open batch every evening at 18:00.
const DefaultBatchClosingSchedule = "0 0 18 * * *"

// BatchCloser is satisfied by *commands.CloseBatchCommandHandler.
type BatchCloser interface {
	Handle(ctx context.Context, cmd commands.CloseBatchCommand) (kernel.UUID, error)
}

// BatchClosingJob closes the currently open batch on a cron schedule.
// Closing a batch triggers route building through the BatchClosed event.
type BatchClosingJob struct {
	closer   BatchCloser
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewBatchClosingJob creates the job. schedule is a six-field cron expression
// (seconds first); an empty schedule means DefaultBatchClosingSchedule.
func NewBatchClosingJob(closer BatchCloser, schedule string, logger *slog.Logger) *BatchClosingJob {
	if schedule == "" {
		schedule = DefaultBatchClosingSchedule
	}

	return &BatchClosingJob{
		closer:   closer,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "batch_closing_job"),
	}
}

// Start registers the schedule and starts the cron runner.
func (j *BatchClosingJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_ = j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Batch closing job started", "schedule", j.schedule)
	return nil
}

// Run closes the open batch once. Having no open batch is not a failure.
func (j *BatchClosingJob) Run(ctx context.Context) error {
	closedID, err := j.closer.Handle(ctx, commands.NewCloseBatchCommand())
	if errors.Is(err, errs.ErrObjectNotFound) {
		j.logger.DebugContext(ctx, "No open batch to close")
		return nil
	}
	if err != nil {
		j.logger.ErrorContext(ctx, "Batch closing job failed", "error", err)
		return err
	}

	j.logger.InfoContext(ctx, "Batch closed", "batch_id", closedID.String())
	return nil
}

// Stop stops the scheduler and waits for a running close to finish.
func (j *BatchClosingJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Batch closing job stopped")
}
