package fop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	sessionColumns = map[string]string{
		"capacity":  "capacity",
		"startTime": "start_time",
		"eventId":   "event_id",
	}
	sessionNumeric = map[string]bool{"capacity": true}
)

func TestAggregateSpecEmpty(t *testing.T) {
	require.True(t, AggregateSpec{}.Empty())
	require.False(t, AggregateSpec{Count: true}.Empty())
	require.False(t, AggregateSpec{Max: []string{"capacity"}}.Empty())
}

func TestAggregateSpecResolve(t *testing.T) {
	spec := AggregateSpec{
		Count: true,
		Min:   []string{"startTime"},
		Max:   []string{"startTime", "capacity"},
		Avg:   []string{"capacity"},
		Sum:   []string{"capacity"},
	}

	got, err := spec.Resolve(sessionColumns, sessionNumeric)
	require.NoError(t, err)
	require.Equal(t, AggregateSpec{
		Count: true,
		Min:   []string{"start_time"},
		Max:   []string{"start_time", "capacity"},
		Avg:   []string{"capacity"},
		Sum:   []string{"capacity"},
	}, got)
}

func TestAggregateSpecResolveErrors(t *testing.T) {
	_, err := AggregateSpec{Min: []string{"password"}}.Resolve(sessionColumns, sessionNumeric)
	require.ErrorIs(t, err, ErrUnknownAggregateField)
	require.ErrorContains(t, err, "_min")

	_, err = AggregateSpec{Avg: []string{"startTime"}}.Resolve(sessionColumns, sessionNumeric)
	require.ErrorIs(t, err, ErrUnknownAggregateField)
	require.ErrorContains(t, err, "not numeric")
}

func TestResolveGroupBy(t *testing.T) {
	cols, err := ResolveGroupBy([]string{"eventId", "capacity"}, sessionColumns)
	require.NoError(t, err)
	require.Equal(t, []string{"event_id", "capacity"}, cols)

	_, err = ResolveGroupBy(nil, sessionColumns)
	require.ErrorIs(t, err, ErrUnknownAggregateField)

	_, err = ResolveGroupBy([]string{"nope"}, sessionColumns)
	require.ErrorIs(t, err, ErrUnknownAggregateField)
}
