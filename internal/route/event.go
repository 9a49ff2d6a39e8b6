package route

// Event is one unit of route progress: the current step, the step that
// follows it (nil for the last step) and the percentage of the total
// distance covered once the current step is included.
type Event struct {
	// Index is the zero-based position of Step within the route.
	Index int
	Step  Step
	Next  *Step
	// Percent is floor(100 * cumulative / total), 100 when total is zero.
	Percent int
}

// Last reports whether the event describes the final step.
func (e Event) Last() bool {
	return e.Next == nil
}

// Percent computes the completion percentage for a cumulative distance.
// A zero total reports 100 so that routes made only of markers complete.
func Percent(cumulative, total int) int {
	if total == 0 {
		return 100
	}
	return int(int64(cumulative) * 100 / int64(total))
}
