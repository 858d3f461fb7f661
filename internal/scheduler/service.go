package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/feedback-insights/dashboard/internal/config"
	"github.com/feedback-insights/dashboard/internal/digest"
)

// Service handles scheduling of digest runs
type Service struct {
	config        *config.Config
	digestService *digest.Service
	cron          *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, digestService *digest.Service) *Service {
	return &Service{
		config:        cfg,
		digestService: digestService,
		cron:          cron.New(cron.WithSeconds()),
	}
}

// Start begins the scheduled digest runs
func (s *Service) Start() error {
	var cronExpression string

	switch s.config.DigestSchedule {
	case config.ScheduleDaily:
		// Run daily at 9 AM UTC
		cronExpression = "0 0 9 * * *"
	case config.ScheduleWeekly:
		// Run weekly on Monday at 9 AM UTC
		cronExpression = "0 0 9 * * MON"
	default:
		logrus.Info("Digest schedule is off, scheduler idle")
		return nil
	}

	_, err := s.cron.AddFunc(cronExpression, func() {
		logrus.Info("Starting scheduled digest run")
		if err := s.digestService.Run(); err != nil {
			logrus.Errorf("Scheduled digest run failed: %v", err)
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s digest schedule", s.config.DigestSchedule)
	return nil
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}
