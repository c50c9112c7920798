// Package scheduler runs periodic maintenance jobs such as registry reloads.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"

	"git.home.luguber.info/inful/docnav/internal/logfields"
)

// ErrEmptySchedule indicates a job was registered without a schedule.
var ErrEmptySchedule = errors.New("empty schedule")

// Scheduler wraps a gocron scheduler.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// New creates a stopped scheduler.
func New() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins running registered jobs.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler", logfields.Count(len(s.scheduler.Jobs())))
	s.scheduler.Start()
}

// Stop waits for running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// Schedule registers fn under name. The schedule is either a Go duration
// ("15m") for a fixed interval or a five-field cron expression. A run that is
// still in progress when the next one is due causes that run to be skipped.
// It returns the job ID.
func (s *Scheduler) Schedule(ctx context.Context, name, schedule string, fn func(ctx context.Context)) (string, error) {
	def, err := definition(schedule)
	if err != nil {
		return "", fmt.Errorf("job %s: %w", name, err)
	}
	job, err := s.scheduler.NewJob(
		def,
		gocron.NewTask(func() {
			slog.Debug("Running scheduled job", logfields.Job(name))
			fn(ctx)
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create job %s: %w", name, err)
	}
	slog.Info("Scheduled job", logfields.Job(name), slog.String("schedule", schedule))
	return job.ID().String(), nil
}

// JobNames lists the registered job names.
func (s *Scheduler) JobNames() []string {
	jobs := s.scheduler.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	return names
}

func definition(schedule string) (gocron.JobDefinition, error) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		return nil, ErrEmptySchedule
	}
	if d, err := time.ParseDuration(schedule); err == nil {
		if d <= 0 {
			return nil, fmt.Errorf("interval must be positive: %s", schedule)
		}
		return gocron.DurationJob(d), nil
	}
	return gocron.CronJob(schedule, false), nil
}

// Validate reports whether schedule is accepted by Schedule without creating a job.
func Validate(schedule string) error {
	if _, err := definition(schedule); err != nil {
		return err
	}
	if _, err := time.ParseDuration(strings.TrimSpace(schedule)); err == nil {
		return nil
	}
	if _, err := cron.ParseStandard(strings.TrimSpace(schedule)); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}
