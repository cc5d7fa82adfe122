package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"bookingsystem/internal/app/schedule"
)

const defaultJobTimeout = time.Minute

// Cron runs scheduled jobs. Overlapping runs of the same job are skipped.
type Cron struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewCron(logger *slog.Logger) *Cron {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Cron{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
		logger:  logger,
		timeout: defaultJobTimeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (c *Cron) Schedule(spec string, job schedule.Job) error {
	if _, err := c.cron.AddFunc(spec, func() { c.run(job) }); err != nil {
		return fmt.Errorf("jobs: schedule %s at %q: %w", job.Name(), spec, err)
	}
	c.logger.Info("job scheduled", "job", job.Name(), "spec", spec)
	return nil
}

func (c *Cron) run(job schedule.Job) {
	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()
	start := time.Now()
	if err := job.Run(ctx); err != nil {
		c.logger.Warn("job failed", "job", job.Name(), "error", err)
		return
	}
	c.logger.Debug("job finished", "job", job.Name(), "took", time.Since(start))
}

func (c *Cron) Start() { c.cron.Start() }

// Stop cancels running jobs and waits for them to return or ctx to end.
func (c *Cron) Stop(ctx context.Context) {
	c.cancel()
	done := c.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

var _ schedule.Scheduler = (*Cron)(nil)

type Entry struct {
	Spec string
	Job  schedule.Job
}

// InitCronJobs registers the background jobs and starts the scheduler.
func InitCronJobs(c *Cron, entries ...Entry) error {
	for _, e := range entries {
		if e.Job == nil {
			continue
		}
		if err := c.Schedule(e.Spec, e.Job); err != nil {
			return err
		}
	}
	c.Start()
	return nil
}
