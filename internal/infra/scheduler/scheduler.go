package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/asysc2020/relationship-manager-project/internal/app"
)

// ReminderScheduler drives the daily reminder dispatch through a cron job.
type ReminderScheduler struct {
	cronEngine       *cron.Cron
	reminderService  app.ReminderService
	logger           *logrus.Entry
	cronSpecDispatch string
}

func NewReminderScheduler(
	rs app.ReminderService,
	logger *logrus.Entry,
	cronSpecDispatch string, // e.g., "0 9 * * *" (9 AM daily)
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:       cron.New(cron.WithLocation(time.Local)), // Reminder days follow the server's local time
		reminderService:  rs,
		logger:           logger,
		cronSpecDispatch: cronSpecDispatch,
	}
}

func (s *ReminderScheduler) Start() {
	s.logger.Info("starting reminder scheduler")

	_, err := s.cronEngine.AddFunc(s.cronSpecDispatch, func() {
		s.logger.Info("cron job triggered for reminder dispatch")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.reminderService.ProcessDueReminders(ctx, time.Now()); err != nil {
			s.logger.Errorf("error during reminder dispatch: %v", err)
		}
	})
	if err != nil {
		s.logger.Fatalf("could not add reminder dispatch cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Infof("reminder scheduler started, dispatch spec %q", s.cronSpecDispatch)
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("stopping reminder scheduler")
	ctx := s.cronEngine.Stop() // Stops new job starts, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("reminder scheduler gracefully stopped")
}
