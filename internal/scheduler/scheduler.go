package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"weather-mqtt-bridge/internal/forecast"
)

// Scheduler drives the forecast cycle on a fixed period. Cycles run one at
// a time; a failed cycle is logged and the next tick fires regardless.
type Scheduler struct {
	scheduler *gocron.Scheduler
	cycle     *forecast.Cycle
	interval  time.Duration
	timeout   time.Duration
}

// New creates a Scheduler. timeout bounds the fetch-and-derive work of a
// single cycle.
func New(cycle *forecast.Cycle, interval, timeout time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		cycle:     cycle,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the periodic cycle and runs the first one immediately.
func (s *Scheduler) Start() error {
	seconds := int(s.interval.Seconds())
	if seconds <= 0 {
		seconds = 600
	}

	_, err := s.scheduler.Every(seconds).Seconds().SingletonMode().StartImmediately().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		outcome := s.cycle.Run(ctx)
		if outcome.Failed() {
			log.Printf("ERROR: cycle failed (%s): %v", outcome.Kind, outcome.Err)
			return
		}
		log.Printf("INFO: cycle published %d readings", len(outcome.Published))
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
