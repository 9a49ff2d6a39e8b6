package route

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu     sync.Mutex
	sleeps []time.Duration
	// onSleep runs before each sleep returns, with the 1-based sleep count.
	onSleep func(n int)
}

func (c *fakeClock) Now() time.Time {
	return time.Unix(0, 0).UTC()
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	n := len(c.sleeps)
	hook := c.onSleep
	c.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return ctx.Err()
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

func newTestProducer(clk Clock) *Producer {
	return NewProducer(Config{Interval: 250 * time.Millisecond, Clock: clk})
}

func stepPtr(s Step) *Step {
	return &s
}

// TestEventsStartStraightFinish walks the three-step scenario end to end.
func TestEventsStartStraightFinish(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	events, err := newTestProducer(clk).Collect(context.Background(), Route{Started(), Straight(100), Finish()})
	require.NoError(t, err)
	require.Equal(t, []Event{
		{Index: 0, Step: Started(), Next: stepPtr(Straight(100)), Percent: 0},
		{Index: 1, Step: Straight(100), Next: stepPtr(Finish()), Percent: 100},
		{Index: 2, Step: Finish(), Next: nil, Percent: 100},
	}, events)
	require.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond}, clk.Sleeps())
}

// TestEventsSingleStep covers a one-element route.
func TestEventsSingleStep(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	events, err := newTestProducer(clk).Collect(context.Background(), Route{Straight(50)})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, Straight(50), events[0].Step)
	require.True(t, events[0].Last())
	require.Equal(t, 100, events[0].Percent)
	require.Empty(t, clk.Sleeps())
}

// TestEventsProperties checks ordering, lookahead and monotonic progress on the demo route.
func TestEventsProperties(t *testing.T) {
	t.Parallel()

	r := Default()
	events, err := newTestProducer(&fakeClock{}).Collect(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, events, len(r))

	prev := 0
	for i, evt := range events {
		require.Equal(t, i, evt.Index)
		require.Equal(t, r[i], evt.Step)
		if i+1 < len(r) {
			require.NotNil(t, evt.Next)
			require.Equal(t, r[i+1], *evt.Next)
		} else {
			require.Nil(t, evt.Next)
		}
		require.GreaterOrEqual(t, evt.Percent, prev)
		prev = evt.Percent
	}
	require.Equal(t, 100, events[len(events)-1].Percent)
}

// TestEventsPercentFloors verifies percentages are truncated, not rounded.
func TestEventsPercentFloors(t *testing.T) {
	t.Parallel()

	events, err := newTestProducer(&fakeClock{}).Collect(context.Background(), Route{Left(1), Right(1), Straight(1)})
	require.NoError(t, err)
	require.Equal(t, []int{33, 66, 100}, []int{events[0].Percent, events[1].Percent, events[2].Percent})
}

// TestEventsZeroDistance reports full completion when there is nothing to travel.
func TestEventsZeroDistance(t *testing.T) {
	t.Parallel()

	events, err := newTestProducer(&fakeClock{}).Collect(context.Background(), Route{Started(), Finish()})
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, evt := range events {
		require.Equal(t, 100, evt.Percent)
	}
}

// TestEventsEmptyRoute surfaces the precondition failure as an error.
func TestEventsEmptyRoute(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	events, err := newTestProducer(clk).Collect(context.Background(), Route{})
	require.ErrorIs(t, err, ErrEmptyRoute)
	require.Empty(t, events)
	require.Empty(t, clk.Sleeps())
}

// TestEventsTrailingDelay pauses after the final event only when asked to.
func TestEventsTrailingDelay(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	p := NewProducer(Config{Interval: time.Second, TrailingDelay: true, Clock: clk})
	events, err := p.Collect(context.Background(), Route{Started(), Straight(10), Finish()})
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Len(t, clk.Sleeps(), 3)
}

// TestEventsIsLazy ensures nothing runs before the sequence is ranged over.
func TestEventsIsLazy(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	seq := newTestProducer(clk).Events(context.Background(), Default())
	require.Empty(t, clk.Sleeps())

	for evt, err := range seq {
		require.NoError(t, err)
		require.Equal(t, Started(), evt.Step)
		break
	}
	require.Empty(t, clk.Sleeps(), "breaking after the first event must skip its pause")
}

// TestEventsCancelDuringPause stops the stream and reports the context error.
func TestEventsCancelDuringPause(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clk := &fakeClock{onSleep: func(n int) {
		if n == 2 {
			cancel()
		}
	}}

	var got []Event
	var gotErr error
	for evt, err := range newTestProducer(clk).Events(ctx, Default()) {
		if err != nil {
			gotErr = err
			break
		}
		got = append(got, evt)
	}
	require.ErrorIs(t, gotErr, context.Canceled)
	require.Len(t, got, 2)
}

// TestEventsCanceledBeforeStart yields only the context error.
func TestEventsCanceledBeforeStart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	events, err := newTestProducer(&fakeClock{}).Collect(ctx, Default())
	require.True(t, errors.Is(err, context.Canceled))
	require.Empty(t, events)
}

// TestEventsIndependentRuns produces identical sequences for repeated and concurrent runs.
func TestEventsIndependentRuns(t *testing.T) {
	t.Parallel()

	p := newTestProducer(&fakeClock{})
	r := Default()
	first, err := p.Collect(context.Background(), r)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]Event, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			events, err := p.Collect(context.Background(), r)
			if err == nil {
				results[i] = events
			}
		}(i)
	}
	wg.Wait()
	for _, events := range results {
		require.Equal(t, first, events)
	}
	require.Equal(t, Default(), r, "route must not be mutated")
}

// TestEventsNextIsCopy guards the route against writes through the lookahead pointer.
func TestEventsNextIsCopy(t *testing.T) {
	t.Parallel()

	r := Route{Straight(1), Left(2)}
	for evt, err := range newTestProducer(&fakeClock{}).Events(context.Background(), r) {
		require.NoError(t, err)
		if evt.Next != nil {
			evt.Next.Distance = 99
		}
	}
	require.Equal(t, Left(2), r[1])
}

func TestNewProducerDefaults(t *testing.T) {
	t.Parallel()

	p := NewProducer(Config{})
	require.Equal(t, DefaultInterval, p.Interval())
	require.NotNil(t, p.clock)
	require.NotNil(t, p.logger)
}

func TestPercent(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, Percent(0, 100))
	require.Equal(t, 49, Percent(499, 1000))
	require.Equal(t, 100, Percent(1000, 1000))
	require.Equal(t, 100, Percent(0, 0))
}
