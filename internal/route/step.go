package route

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind denotes which leg variant a Step represents.
type Kind string

// Supported step kinds.
const (
	KindStarted  Kind = "started"
	KindStraight Kind = "straight"
	KindLeft     Kind = "left"
	KindRight    Kind = "right"
	KindFinish   Kind = "finish"
)

// ErrInvalidStep reports a step description that cannot be parsed.
var ErrInvalidStep = errors.New("invalid step")

// Step is one leg of a route: a direction with a distance, or a start/finish
// marker. Markers always carry a zero distance.
type Step struct {
	Kind     Kind
	Distance int
}

// Started marks the beginning of a route.
func Started() Step { return Step{Kind: KindStarted} }

// Finish marks the end of a route.
func Finish() Step { return Step{Kind: KindFinish} }

// Straight continues ahead for distance.
func Straight(distance int) Step { return Step{Kind: KindStraight, Distance: distance} }

// Left turns left and continues for distance.
func Left(distance int) Step { return Step{Kind: KindLeft, Distance: distance} }

// Right turns right and continues for distance.
func Right(distance int) Step { return Step{Kind: KindRight, Distance: distance} }

// Directional reports whether the step is a straight/left/right leg.
func (s Step) Directional() bool {
	switch s.Kind {
	case KindStraight, KindLeft, KindRight:
		return true
	default:
		return false
	}
}

// String renders the step in the form accepted by ParseStep.
func (s Step) String() string {
	if s.Directional() {
		return fmt.Sprintf("%s:%d", s.Kind, s.Distance)
	}
	return string(s.Kind)
}

// ParseStep reads "started", "finish" or "<straight|left|right>:<distance>".
// Distances must be non-negative integers.
func ParseStep(raw string) (Step, error) {
	text := strings.ToLower(strings.TrimSpace(raw))
	name, value, hasValue := strings.Cut(text, ":")
	kind := Kind(strings.TrimSpace(name))
	switch kind {
	case KindStarted, KindFinish:
		if hasValue {
			return Step{}, fmt.Errorf("%w %q: %s takes no distance", ErrInvalidStep, raw, kind)
		}
		return Step{Kind: kind}, nil
	case KindStraight, KindLeft, KindRight:
		if !hasValue {
			return Step{}, fmt.Errorf("%w %q: missing distance", ErrInvalidStep, raw)
		}
		distance, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return Step{}, fmt.Errorf("%w %q: %w", ErrInvalidStep, raw, err)
		}
		if distance < 0 {
			return Step{}, fmt.Errorf("%w %q: distance must be >= 0", ErrInvalidStep, raw)
		}
		return Step{Kind: kind, Distance: distance}, nil
	default:
		return Step{}, fmt.Errorf("%w %q: unknown kind", ErrInvalidStep, raw)
	}
}
