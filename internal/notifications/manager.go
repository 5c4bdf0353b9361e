// Package notifications sends desktop notifications: the daily pre-workout
// reminder and low-readiness alerts.
package notifications

import (
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/mrcode/diabefit/internal/engine"
	"github.com/mrcode/diabefit/internal/models"
)

// Manager decides when a notification is due and sends it. A reminder fires
// at most once per calendar day; danger alerts repeat no more often than the
// configured suppression window.
type Manager struct {
	mu              sync.Mutex
	reminderHour    int
	reminderMinute  int
	repeatAfter     time.Duration
	lastReminderDay string
	lastAlert       time.Time
	send            func(title, message string) error
}

// NewManager creates a manager firing the daily reminder at the given
// clock time.
func NewManager(reminderHour, reminderMinute int, repeatAfter time.Duration) *Manager {
	return &Manager{
		reminderHour:   reminderHour,
		reminderMinute: reminderMinute,
		repeatAfter:    repeatAfter,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// CheckReminder fires the training reminder when the configured clock time
// is reached on a day with a planned workout. Rest days never remind.
func (m *Manager) CheckReminder(now time.Time, today models.DaySchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if today.IsRest() {
		return nil
	}
	if now.Hour() != m.reminderHour || now.Minute() != m.reminderMinute {
		return nil
	}
	day := now.Format("2006-01-02")
	if m.lastReminderDay == day {
		return nil
	}

	err := m.send(
		"DiabeFit training reminder",
		fmt.Sprintf("Coming up: %s. Don't forget to measure your blood sugar!", today.Title),
	)
	if err != nil {
		return err
	}
	m.lastReminderDay = day
	return nil
}

// CheckReadiness alerts when the readiness score drops into the danger tier,
// suppressing repeats inside the configured window.
func (m *Manager) CheckReadiness(now time.Time, score engine.Score) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if score.Tier != engine.TierDanger {
		return nil
	}
	if !m.lastAlert.IsZero() && now.Sub(m.lastAlert) < m.repeatAfter {
		return nil
	}

	message := score.Advisory
	if message == "" {
		message = "Training readiness is low right now."
	}
	if err := m.send("DiabeFit safety alert", message); err != nil {
		return err
	}
	m.lastAlert = now
	return nil
}

// SendTest sends a test notification.
func (m *Manager) SendTest() error {
	return m.send("DiabeFit", "Test notification - alerts are working!")
}
