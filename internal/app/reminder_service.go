package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/asysc2020/relationship-manager-project/internal/domain/notify"
	"github.com/asysc2020/relationship-manager-project/internal/domain/outreach"
	"github.com/asysc2020/relationship-manager-project/internal/infra/metrics"
)

// ReminderService defines the reminder dispatch operation the scheduler
// drives once a day.
type ReminderService interface {
	// ProcessDueReminders delivers every event due by the end of now's day
	// that has not been dispatched yet.
	ProcessDueReminders(ctx context.Context, now time.Time) error
}

// ReminderServiceImpl implements ReminderService on top of the event store
// and a delivery channel.
type ReminderServiceImpl struct {
	eventRepo outreach.Repository
	notifier  notify.Notifier
	metrics   *metrics.Metrics
	logger    *logrus.Entry
}

func NewReminderServiceImpl(er outreach.Repository, n notify.Notifier, m *metrics.Metrics, logger *logrus.Entry) *ReminderServiceImpl {
	return &ReminderServiceImpl{
		eventRepo: er,
		notifier:  n,
		metrics:   m,
		logger:    logger,
	}
}

// ProcessDueReminders sends one reminder per due event. Delivered and
// skipped events are stamped notified; failed deliveries keep their stamp
// clear and are retried on the next run.
func (s *ReminderServiceImpl) ProcessDueReminders(ctx context.Context, now time.Time) error {
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)

	due, err := s.eventRepo.ListDue(ctx, endOfDay)
	if err != nil {
		s.logger.Errorf("failed to list due reminders: %v", err)
		return fmt.Errorf("failed to list due reminders: %w", err)
	}
	if len(due) == 0 {
		s.logger.Debug("no reminders due")
		return nil
	}
	s.logger.Infof("dispatching %d due reminders", len(due))

	for _, dr := range due {
		text := fmt.Sprintf("Reach out to %s %s today: %s", dr.ContactFirstName, dr.ContactLastName, dr.Method)

		var chatID int64
		if dr.TelegramChatID.Valid {
			chatID = dr.TelegramChatID.Int64
		}

		err := s.notifier.Send(chatID, text)
		switch {
		case err == nil:
			s.metrics.IncRemindersSent()
		case err == notify.ErrNoRecipient:
			// No channel counts as handled, not as a delivery failure.
			s.metrics.IncRemindersSkipped()
			s.logger.Debugf("event %d: user %d has no reminder channel", dr.ID, dr.UserID)
		default:
			s.metrics.IncRemindersFailed()
			s.logger.Errorf("event %d: reminder delivery failed: %v", dr.ID, err)
			continue
		}

		if err := s.eventRepo.MarkNotified(ctx, dr.ID, now); err != nil {
			s.logger.Errorf("event %d: failed to stamp notified_at: %v", dr.ID, err)
		}
	}

	return nil
}
