// Package scheduler runs the background jobs the mobile client relied on
// the backend for: nightly prediction regeneration, bill reminders and
// linked-balance refreshes.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/tmaly1980/banked/internal/service"
)

const jobTimeout = 5 * time.Minute

// Scheduler owns the cron runner.
type Scheduler struct {
	cron *cron.Cron
	svc  *service.Service
	log  *logrus.Logger
}

// New creates a scheduler around the service.
func New(svc *service.Service, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		svc:  svc,
		log:  log,
	}
}

// Start registers the jobs and launches the cron loop.
func (s *Scheduler) Start() error {
	jobs := []struct {
		spec string
		name string
		run  func(context.Context) error
	}{
		{"30 0 * * *", "regenerate predictions", s.svc.RegenerateAllPredictions},
		{"0 5 * * *", "refresh linked balances", s.svc.RefreshLinkedBalances},
		{"0 7 * * *", "send reminders", s.svc.SendReminders},
	}
	for _, job := range jobs {
		job := job
		_, err := s.cron.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			s.log.Infof("Running job: %s", job.name)
			if err := job.run(ctx); err != nil {
				s.log.Errorf("Job %q failed: %v", job.name, err)
			}
		})
		if err != nil {
			return err
		}
	}
	s.cron.Start()
	s.log.Infof("Scheduler started with %d jobs", len(jobs))
	return nil
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
