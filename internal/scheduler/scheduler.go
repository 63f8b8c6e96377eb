package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher re-submits the last searched city.
type Refresher interface {
	Refresh(ctx context.Context) (requestID string, ok bool, err error)
}

// Scheduler periodically refreshes the weather for the last searched city.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
}

// New creates a new Scheduler. An interval <= 0 disables it.
func New(interval time.Duration, refresher Refresher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: refresh interval not set; nothing to schedule")
		return nil
	}

	// The first run waits a full interval; the user's own search comes first.
	_, err := s.scheduler.Every(s.interval).WaitForSchedule().SingletonMode().Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, ok, err := s.refresher.Refresh(ctx)
	switch {
	case err != nil:
		log.Printf("scheduler: refresh failed: %v", err)
	case !ok:
		log.Println("scheduler: no last searched city; skipping refresh")
	default:
		log.Printf("scheduler: refresh submitted as %s", id)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
