package notify

import (
	"github.com/sirupsen/logrus"
)

// LogNotifier writes reminders to the application log. It stands in for a
// real delivery channel when no Telegram token is configured, so dispatch
// runs keep draining the due queue in development.
type LogNotifier struct {
	logger *logrus.Entry
}

func NewLogNotifier(logger *logrus.Entry) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send records the reminder text at info level and always succeeds.
func (ln *LogNotifier) Send(recipientChatID int64, text string) error {
	ln.logger.WithField("chat_id", recipientChatID).Info(text)
	return nil
}
