package narration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/route-narrator/internal/locale"
	"github.com/JakeFAU/route-narrator/internal/route"
)

func next(s route.Step) *route.Step {
	return &s
}

func TestRendererLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		loc  locale.Locale
		evt  route.Event
		want string
	}{
		{
			name: "tr started",
			loc:  locale.TR,
			evt:  route.Event{Step: route.Started(), Next: next(route.Straight(100))},
			want: "Başladı",
		},
		{
			name: "en finish",
			loc:  locale.EN,
			evt:  route.Event{Step: route.Finish(), Percent: 100},
			want: "Finished",
		},
		{
			name: "tr straight with directional lookahead",
			loc:  locale.TR,
			evt:  route.Event{Step: route.Straight(100), Next: next(route.Left(250)), Percent: 9},
			want: "yol %9 tamamlandı. 0.1 kilometre düz bir sonraki adım 0.25 kilometre sol",
		},
		{
			name: "en right with finish lookahead",
			loc:  locale.EN,
			evt:  route.Event{Step: route.Right(1000), Next: next(route.Finish()), Percent: 100},
			want: "Road %100 completed. 0.621 mile right next step Finished",
		},
		{
			name: "en left without lookahead",
			loc:  locale.EN,
			evt:  route.Event{Step: route.Left(2000), Percent: 100},
			want: "Road %100 completed. 1.243 mile left",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := NewRenderer(tt.loc, DefaultPrecision)
			require.Equal(t, tt.want, r.Line(tt.evt))
		})
	}
}

func TestRendererDistance(t *testing.T) {
	t.Parallel()

	tr := NewRenderer(locale.TR, -1)
	require.Equal(t, "0", tr.Distance(0))
	require.Equal(t, "1", tr.Distance(1000))
	require.Equal(t, "0.12", tr.Distance(120))

	en := NewRenderer(locale.EN, 1)
	require.Equal(t, "0.1", en.Distance(150))
	require.Equal(t, "0", en.Distance(10))
	require.Equal(t, locale.EN.Tag, en.Locale().Tag)
}
