package schedule

import "context"

// Job is a unit of background work run on a schedule.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler registers jobs against a cron expression such as "@every 1h".
type Scheduler interface {
	Schedule(spec string, job Job) error
}
