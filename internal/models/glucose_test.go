package models

import "testing"

func TestMapTrend(t *testing.T) {
	tests := []struct {
		direction string
		expected  Trend
		ok        bool
	}{
		{"DoubleUp", TrendRising, true},
		{"SingleUp", TrendRising, true},
		{"FortyFiveUp", TrendRising, true},
		{"Flat", TrendStable, true},
		{"FortyFiveDown", TrendFalling, true},
		{"SingleDown", TrendFalling, true},
		{"DoubleDown", TrendFalling, true},
		{"NOT COMPUTABLE", "", false},
		{"RATE OUT OF RANGE", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.direction, func(t *testing.T) {
			trend, ok := MapTrend(tt.direction)
			if ok != tt.ok {
				t.Fatalf("MapTrend(%q) ok = %v, want %v", tt.direction, ok, tt.ok)
			}
			if ok && trend != tt.expected {
				t.Errorf("MapTrend(%q) = %s, want %s", tt.direction, trend, tt.expected)
			}
		})
	}
}

func TestMgdlToMmol(t *testing.T) {
	tests := []struct {
		mgdl     int
		expected float64
	}{
		{180, 10.0},
		{90, 5.0},
		{100, 5.6},
		{54, 3.0},
		{72, 4.0},
		{0, 0.0},
	}

	for _, tt := range tests {
		if got := MgdlToMmol(tt.mgdl); got != tt.expected {
			t.Errorf("MgdlToMmol(%d) = %.1f, want %.1f", tt.mgdl, got, tt.expected)
		}
	}
}
