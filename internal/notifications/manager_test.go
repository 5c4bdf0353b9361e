package notifications

import (
	"testing"
	"time"

	"github.com/mrcode/diabefit/internal/engine"
	"github.com/mrcode/diabefit/internal/models"
)

type sentNote struct {
	title   string
	message string
}

func newTestManager(repeatAfter time.Duration) (*Manager, *[]sentNote) {
	var sent []sentNote
	m := NewManager(19, 45, repeatAfter)
	m.send = func(title, message string) error {
		sent = append(sent, sentNote{title, message})
		return nil
	}
	return m, &sent
}

func trainingDay() models.DaySchedule {
	return models.WeeklySchedule[1]
}

func restDay() models.DaySchedule {
	return models.WeeklySchedule[0]
}

func TestCheckReminder_FiresAtConfiguredTime(t *testing.T) {
	m, sent := newTestManager(30 * time.Minute)
	at := time.Date(2026, 8, 3, 19, 45, 0, 0, time.UTC)

	if err := m.CheckReminder(at, trainingDay()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(*sent))
	}
}

func TestCheckReminder_OncePerDay(t *testing.T) {
	m, sent := newTestManager(30 * time.Minute)
	at := time.Date(2026, 8, 3, 19, 45, 0, 0, time.UTC)

	m.CheckReminder(at, trainingDay())
	m.CheckReminder(at.Add(30*time.Second), trainingDay())
	if len(*sent) != 1 {
		t.Errorf("sent %d notifications, want 1", len(*sent))
	}

	// The next day it fires again.
	m.CheckReminder(at.AddDate(0, 0, 1), trainingDay())
	if len(*sent) != 2 {
		t.Errorf("sent %d notifications, want 2", len(*sent))
	}
}

func TestCheckReminder_SkipsRestDays(t *testing.T) {
	m, sent := newTestManager(30 * time.Minute)
	at := time.Date(2026, 8, 2, 19, 45, 0, 0, time.UTC)

	m.CheckReminder(at, restDay())
	if len(*sent) != 0 {
		t.Errorf("rest day sent %d notifications", len(*sent))
	}
}

func TestCheckReminder_SkipsWrongTime(t *testing.T) {
	m, sent := newTestManager(30 * time.Minute)
	at := time.Date(2026, 8, 3, 18, 45, 0, 0, time.UTC)

	m.CheckReminder(at, trainingDay())
	if len(*sent) != 0 {
		t.Errorf("wrong clock time sent %d notifications", len(*sent))
	}
}

func TestCheckReadiness_DangerOnly(t *testing.T) {
	m, sent := newTestManager(30 * time.Minute)
	now := time.Now()

	m.CheckReadiness(now, engine.Score{Value: 60, Tier: engine.TierWarning})
	m.CheckReadiness(now, engine.Score{Value: 100, Tier: engine.TierSuccess})
	if len(*sent) != 0 {
		t.Fatalf("non-danger tiers sent %d notifications", len(*sent))
	}

	m.CheckReadiness(now, engine.Score{Value: 0, Tier: engine.TierDanger, Advisory: "do not train"})
	if len(*sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(*sent))
	}
	if (*sent)[0].message != "do not train" {
		t.Errorf("message = %q, want the advisory", (*sent)[0].message)
	}
}

func TestCheckReadiness_SuppressionWindow(t *testing.T) {
	m, sent := newTestManager(30 * time.Minute)
	now := time.Now()
	danger := engine.Score{Value: 0, Tier: engine.TierDanger, Advisory: "do not train"}

	m.CheckReadiness(now, danger)
	m.CheckReadiness(now.Add(10*time.Minute), danger)
	if len(*sent) != 1 {
		t.Errorf("alert repeated inside the suppression window: %d sent", len(*sent))
	}

	m.CheckReadiness(now.Add(31*time.Minute), danger)
	if len(*sent) != 2 {
		t.Errorf("alert did not repeat after the window: %d sent", len(*sent))
	}
}
