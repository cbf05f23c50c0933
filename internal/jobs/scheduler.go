package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"filedrop/internal/service"
)

// Scheduler drives the expired-content purge on a cron schedule, making the
// maintenance cost and trigger explicit instead of hiding cleanup in request
// handlers.
type Scheduler struct {
	cron     *cron.Cron
	content  *service.ContentService
	schedule string
	log      zerolog.Logger
}

func NewScheduler(content *service.ContentService, schedule string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		content:  content,
		schedule: schedule,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.purge); err != nil {
		return err
	}
	s.cron.Start()

	// One pass at startup clears anything that expired while the process
	// was down.
	go s.purge()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.content.PurgeExpired(ctx); err != nil {
		s.log.Error().Err(err).Msg("purge expired content failed")
	}
}
