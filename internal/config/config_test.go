package config

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		value   string
		hour    int
		minute  int
		wantErr bool
	}{
		{"19:45", 19, 45, false},
		{"0:00", 0, 0, false},
		{"23:59", 23, 59, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"noon", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			hour, minute, err := parseClock(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseClock(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err == nil && (hour != tt.hour || minute != tt.minute) {
				t.Errorf("parseClock(%q) = %d:%d, want %d:%d", tt.value, hour, minute, tt.hour, tt.minute)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:8723" {
		t.Errorf("ListenAddr = %s", cfg.ListenAddr)
	}
	if cfg.PollInterval != 5*time.Minute {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.HistoryDays != 21 {
		t.Errorf("HistoryDays = %d", cfg.HistoryDays)
	}
	if cfg.IsMonitorConfigured() {
		t.Error("monitor should not be configured by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MONITOR_URL", "https://cgm.example.com")
	t.Setenv("POLL_INTERVAL", "2m")
	t.Setenv("REMINDER_TIME", "07:30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsMonitorConfigured() {
		t.Error("monitor should be configured")
	}
	if cfg.PollInterval != 2*time.Minute {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.ReminderHour != 7 || cfg.ReminderMinute != 30 {
		t.Errorf("reminder = %d:%d, want 7:30", cfg.ReminderHour, cfg.ReminderMinute)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid duration")
	}
}
