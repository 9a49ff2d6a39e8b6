package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the milestone an Event represents.
type Stage string

// Supported progress stages.
const (
	StageRunStart     Stage = "RUN_START"
	StageStep         Stage = "STEP"
	StageRunDone      Stage = "RUN_DONE"
	StageRunCancelled Stage = "RUN_CANCELLED"
	StageRunRejected  Stage = "RUN_REJECTED"
)

// Terminal reports whether the stage ends a run.
func (s Stage) Terminal() bool {
	switch s {
	case StageRunDone, StageRunCancelled, StageRunRejected:
		return true
	default:
		return false
	}
}

// Event captures a single narration milestone.
type Event struct {
	// RunID identifies one narration run using the 16-byte UUID form.
	RunID [16]byte `json:"-"`
	// TS is the UTC timestamp recorded by the emitter.
	TS    time.Time `json:"ts"`
	Stage Stage     `json:"stage"`
	// Locale is the tag of the selected locale, empty for rejected runs.
	Locale    string `json:"locale,omitempty"`
	StepIndex int    `json:"step_index"`
	StepKind  string `json:"step_kind,omitempty"`
	// Distance is the raw distance of the narrated step.
	Distance int    `json:"distance"`
	NextKind string `json:"next_kind,omitempty"`
	Percent  int    `json:"percent"`
	// Dur is the elapsed run time on terminal stages.
	Dur  time.Duration `json:"dur"`
	Note string        `json:"note,omitempty"`
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == [16]byte{} {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone, StageRunCancelled:
		if e.Locale == "" {
			return fmt.Errorf("%s requires locale", e.Stage)
		}
	case StageRunRejected:
	case StageStep:
		if e.StepKind == "" {
			return errors.New("step requires step kind")
		}
		if e.StepIndex < 0 {
			return errors.New("step index must be >= 0")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Percent < 0 || e.Percent > 100 {
		return fmt.Errorf("percent %d out of range", e.Percent)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

// RunUUID converts the binary run ID to uuid.UUID.
func (e Event) RunUUID() uuid.UUID {
	return uuid.UUID(e.RunID)
}

// UUIDToBytes encodes a uuid.UUID into the Event form.
func UUIDToBytes(id uuid.UUID) [16]byte {
	var dest [16]byte
	copy(dest[:], id[:])
	return dest
}
