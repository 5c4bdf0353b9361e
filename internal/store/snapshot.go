package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mrcode/diabefit/internal/models"
)

// SchemaVersion is the current snapshot schema. Migrations are additive
// only: new fields get defaults, existing fields are never reinterpreted.
const SchemaVersion = 1

// activeWorkout is an in-progress session, persisted so a restart does not
// lose it. The WorkoutRecord is only created when the session ends.
type activeWorkout struct {
	Type       string    `json:"type"`
	StartedAt  time.Time `json:"startedAt"`
	GlucosePre float64   `json:"glucosePre"`
}

// snapshot is the single wholesale-persisted state record. It is written in
// full on every mutation and loaded in full at startup.
type snapshot struct {
	Version      int                     `json:"schemaVersion"`
	Settings     models.Settings         `json:"settings"`
	Events       []models.Event          `json:"events"`
	Workouts     []models.WorkoutRecord  `json:"workouts"`
	Wellbeing    []models.WellbeingEntry `json:"wellbeing"`
	Achievements []models.Achievement    `json:"achievements"`
	Rescheduled  map[int]int             `json:"rescheduledTrainings"`
	Active       *activeWorkout          `json:"activeWorkout,omitempty"`
}

func defaultSnapshot() snapshot {
	return snapshot{
		Version:     SchemaVersion,
		Settings:    models.DefaultSettings(),
		Rescheduled: map[int]int{},
	}
}

// loadSnapshot reads the snapshot file, shallow-merging it over defaults so
// fields introduced after the file was written keep their default values.
// A missing or malformed file yields defaults; malformed state is discarded
// wholesale, never partially applied.
func loadSnapshot(path string) (snapshot, error) {
	snap := defaultSnapshot()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return snap, nil
		}
		return snap, err
	}

	if err := json.Unmarshal(data, &snap); err != nil {
		return defaultSnapshot(), fmt.Errorf("discarding malformed snapshot: %w", err)
	}
	if snap.Rescheduled == nil {
		snap.Rescheduled = map[int]int{}
	}
	snap.Version = SchemaVersion
	return snap, nil
}

// writeSnapshot persists the snapshot atomically (temp file + rename) so a
// crash mid-write never leaves a partial state file behind.
func writeSnapshot(path string, snap snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "state-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
