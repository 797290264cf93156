package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks schedule generation, reminder dispatch and login activity.
// All record methods are safe to call on a nil receiver, so services can run
// without a recorder in tests.
type Metrics struct {
	registry *prometheus.Registry

	eventsGenerated  prometheus.Counter
	schedulesCreated prometheus.Counter
	remindersSent    prometheus.Counter
	remindersSkipped prometheus.Counter
	remindersFailed  prometheus.Counter
	loginFailures    prometheus.Counter
}

// New builds a Metrics recorder backed by its own registry, keeping the
// /metrics endpoint free of collectors registered elsewhere in the process.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		eventsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "relmgr",
			Subsystem: "outreach",
			Name:      "events_generated_total",
			Help:      "Number of outreach events produced by schedule generation",
		}),
		schedulesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "relmgr",
			Subsystem: "outreach",
			Name:      "schedules_created_total",
			Help:      "Number of relationships that received a schedule",
		}),
		remindersSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "relmgr",
			Subsystem: "reminder",
			Name:      "sent_total",
			Help:      "Number of reminders delivered to a recipient channel",
		}),
		remindersSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "relmgr",
			Subsystem: "reminder",
			Name:      "skipped_total",
			Help:      "Number of due reminders with no recipient channel configured",
		}),
		remindersFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "relmgr",
			Subsystem: "reminder",
			Name:      "failed_total",
			Help:      "Number of reminder deliveries that failed and will be retried",
		}),
		loginFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "relmgr",
			Subsystem: "auth",
			Name:      "login_failures_total",
			Help:      "Number of rejected login attempts",
		}),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// AddEventsGenerated records how many events one generation run produced.
func (m *Metrics) AddEventsGenerated(n int) {
	if m == nil || m.eventsGenerated == nil {
		return
	}
	m.eventsGenerated.Add(float64(n))
}

// IncSchedulesCreated records a finalized schedule.
func (m *Metrics) IncSchedulesCreated() {
	if m == nil || m.schedulesCreated == nil {
		return
	}
	m.schedulesCreated.Inc()
}

// IncRemindersSent records a delivered reminder.
func (m *Metrics) IncRemindersSent() {
	if m == nil || m.remindersSent == nil {
		return
	}
	m.remindersSent.Inc()
}

// IncRemindersSkipped records a reminder dropped for lack of a recipient.
func (m *Metrics) IncRemindersSkipped() {
	if m == nil || m.remindersSkipped == nil {
		return
	}
	m.remindersSkipped.Inc()
}

// IncRemindersFailed records a delivery failure.
func (m *Metrics) IncRemindersFailed() {
	if m == nil || m.remindersFailed == nil {
		return
	}
	m.remindersFailed.Inc()
}

// IncLoginFailures records a rejected login attempt.
func (m *Metrics) IncLoginFailures() {
	if m == nil || m.loginFailures == nil {
		return
	}
	m.loginFailures.Inc()
}
