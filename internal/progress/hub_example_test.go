package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExampleHub_Emit demonstrates emitting step events and flushing via Close.
func ExampleHub_Emit() {
	distance := 0
	sink := SinkFunc(func(_ context.Context, batch []Event) error {
		for _, evt := range batch {
			distance += evt.Distance
		}
		return nil
	})
	hub := NewHub(Config{MaxBatchEvents: 1, MaxBatchWait: time.Second}, sink)

	runID := UUIDToBytes(uuid.MustParse("00000000-0000-0000-0000-000000000001"))
	for i, d := range []int{100, 150} {
		hub.Emit(Event{
			RunID:     runID,
			TS:        time.Unix(0, 0),
			Stage:     StageStep,
			Locale:    "tr",
			StepIndex: i,
			StepKind:  "straight",
			Distance:  d,
		})
	}
	if err := hub.Close(context.Background()); err != nil {
		panic(err)
	}

	fmt.Printf("distance narrated: %d\n", distance)
	// Output:
	// distance narrated: 250
}
