package route_test

import (
	"context"
	"fmt"
	"time"

	"github.com/JakeFAU/route-narrator/internal/route"
)

type instantClock struct{}

func (instantClock) Now() time.Time { return time.Unix(0, 0) }

func (instantClock) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

// ExampleProducer_Events ranges over a short route.
func ExampleProducer_Events() {
	p := route.NewProducer(route.Config{Clock: instantClock{}})
	r := route.Route{route.Started(), route.Straight(100), route.Finish()}
	for evt, err := range p.Events(context.Background(), r) {
		if err != nil {
			panic(err)
		}
		next := "-"
		if evt.Next != nil {
			next = evt.Next.String()
		}
		fmt.Printf("%s next=%s %d%%\n", evt.Step, next, evt.Percent)
	}
	// Output:
	// started next=straight:100 0%
	// straight:100 next=finish 100%
	// finish next=- 100%
}
