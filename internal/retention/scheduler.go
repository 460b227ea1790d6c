// Package retention runs the background jobs: the periodic retention
// sweep over stored submissions and the expired-session sweep.
package retention

import (
	"context"
	"surveyd/internal/models"
	"surveyd/internal/providers"
	"surveyd/internal/retention/interfaces"
	"surveyd/internal/services"
	"surveyd/internal/structures"
	"sync"

	"github.com/roylee0704/gron"
)

type Scheduler struct {
	config    *structures.Config
	logger    providers.Logger
	retention services.RetentionServiceInterface
	sessions  providers.SessionProviderInterface
	cron      *gron.Cron
	opsMu     sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Retention.SweepInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.SweepNow(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Scheduled retention sweep failed: %s", err)
		}
	})

	s.cron.AddFunc(gron.Every(s.config.Auth.SweepInterval), func() {
		if removed := s.sessions.SweepExpired(); removed > 0 {
			s.logger.Debugf(providers.TypeApp, "Removed %d expired sessions", removed)
		}
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// SweepNow runs one retention pass against the configured horizon.
func (s *Scheduler) SweepNow() error {
	_, err := s.retention.Sweep(context.Background(), s.config.Retention.HorizonDays, models.EventRetentionCleanup, "system")
	return err
}

func NewScheduler(config *structures.Config, logger providers.Logger, retention services.RetentionServiceInterface, sessions providers.SessionProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:    config,
		logger:    logger,
		retention: retention,
		sessions:  sessions,
	}
}
