package route

import (
	"errors"
	"fmt"
)

// ErrEmptyRoute is returned when a route without steps is narrated.
var ErrEmptyRoute = errors.New("route has no steps")

// Route is an ordered, immutable-by-convention sequence of steps.
type Route []Step

// Default returns the built-in demo journey.
func Default() Route {
	return Route{
		Started(),
		Straight(100),
		Straight(150),
		Left(200),
		Left(250),
		Right(150),
		Straight(120),
		Straight(100),
		Finish(),
	}
}

// Parse builds a Route from textual step descriptions.
func Parse(raw []string) (Route, error) {
	r := make(Route, 0, len(raw))
	for i, item := range raw {
		step, err := ParseStep(item)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		r = append(r, step)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the only structural requirement: at least one step.
// Marker placement is deliberately not enforced.
func (r Route) Validate() error {
	if len(r) == 0 {
		return ErrEmptyRoute
	}
	return nil
}

// TotalDistance sums the distance of every step.
func (r Route) TotalDistance() int {
	total := 0
	for _, step := range r {
		total += step.Distance
	}
	return total
}

// Strings renders each step with Step.String.
func (r Route) Strings() []string {
	out := make([]string, len(r))
	for i, step := range r {
		out[i] = step.String()
	}
	return out
}
