package route

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    Step
		wantErr bool
	}{
		{raw: "started", want: Started()},
		{raw: " Finish ", want: Finish()},
		{raw: "straight:100", want: Straight(100)},
		{raw: "LEFT: 250", want: Left(250)},
		{raw: "right:0", want: Right(0)},
		{raw: "started:5", wantErr: true},
		{raw: "left", wantErr: true},
		{raw: "right:-1", wantErr: true},
		{raw: "right:far", wantErr: true},
		{raw: "u-turn:10", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, err := ParseStep(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidStep)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestStepStringRoundTrip(t *testing.T) {
	t.Parallel()

	for _, step := range Default() {
		parsed, err := ParseStep(step.String())
		require.NoError(t, err)
		require.Equal(t, step, parsed)
	}
}

func TestStepDirectional(t *testing.T) {
	t.Parallel()

	require.False(t, Started().Directional())
	require.False(t, Finish().Directional())
	require.True(t, Straight(1).Directional())
	require.True(t, Left(1).Directional())
	require.True(t, Right(1).Directional())
	require.Zero(t, Started().Distance)
	require.Zero(t, Finish().Distance)
}

func TestRouteParseAndTotals(t *testing.T) {
	t.Parallel()

	r, err := Parse(Default().Strings())
	require.NoError(t, err)
	require.Equal(t, Default(), r)
	require.Equal(t, 1070, r.TotalDistance())

	_, err = Parse(nil)
	require.ErrorIs(t, err, ErrEmptyRoute)

	_, err = Parse([]string{"started", "sideways:3"})
	require.ErrorIs(t, err, ErrInvalidStep)
	require.Contains(t, err.Error(), "step 1")
}
