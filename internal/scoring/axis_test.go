package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailedAxis_ToggleRecomputes(t *testing.T) {
	e := axisEngine(t)
	axis := NewDetailedAxis("sales", "ops")

	axis, err := e.ToggleArea(axis, "sales", 2, KindActual)
	require.NoError(t, err)
	axis, err = e.ToggleArea(axis, "sales", 4, KindActual)
	require.NoError(t, err)
	axis, err = e.ToggleArea(axis, "ops", 1, KindActual)
	require.NoError(t, err)
	axis, err = e.ToggleArea(axis, "ops", 5, KindTarget)
	require.NoError(t, err)

	assert.Equal(t, AreaScorePair{Actual: 0b1010}, axis.Pair("sales"))
	assert.Equal(t, Level(2), axis.Actual)
	assert.Equal(t, Level(1), axis.Target)
}

func TestDetailedAxis_InputNotMutated(t *testing.T) {
	e := axisEngine(t)
	orig := NewDetailedAxis("a")

	next, err := e.ToggleArea(orig, "a", 3, KindTarget)
	require.NoError(t, err)

	assert.Equal(t, AreaScorePair{}, orig.Pair("a"))
	assert.False(t, orig.Target.IsSet())
	assert.Equal(t, Level(1), next.Target)
}

func TestDetailedAxis_OpensUnknownArea(t *testing.T) {
	e := axisEngine(t)
	axis, err := e.ToggleArea(DetailedAxis{}, "new", 1, KindActual)
	require.NoError(t, err)
	assert.Contains(t, axis.Areas, "new")

	opened := DetailedAxis{}.Open("x")
	assert.Equal(t, AreaScorePair{}, opened.Areas["x"])
}

func TestDetailedAxis_ClearAndSuggest(t *testing.T) {
	e := axisEngine(t)
	axis := NewDetailedAxis("a")

	axis, err := e.SuggestArea(axis, "a", 3, KindActual)
	require.NoError(t, err)
	assert.Equal(t, Level(1), axis.Actual)

	axis, err = e.ClearArea(axis, "a", 3)
	require.NoError(t, err)
	assert.False(t, axis.Actual.IsSet())

	_, err = e.ClearArea(axis, "", 3)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDetailedAxis_ErrorKeepsAxis(t *testing.T) {
	e := axisEngine(t)
	axis := NewDetailedAxis("a")
	got, err := e.ToggleArea(axis, "a", 9, KindActual)
	require.Error(t, err)
	assert.Equal(t, axis, got)
}

func TestRecompute(t *testing.T) {
	e := axisEngine(t)

	stale := DetailedAxis{
		Areas:  map[string]AreaScorePair{"a": {Actual: 0b111, Target: 0b1000}},
		Actual: 6,
	}
	got, err := e.Recompute(stale)
	require.NoError(t, err)
	assert.Equal(t, Aggregate{Actual: 3, Target: 1}, got.Scores())
	assert.Equal(t, Level(6), stale.Actual, "input axis is unchanged")

	simple := SimpleAxis{Actual: 2, Target: 5}
	got, err = e.Recompute(simple)
	require.NoError(t, err)
	assert.Equal(t, simple, got)
}

func TestSetSimple(t *testing.T) {
	e := axisEngine(t)

	a, err := e.SetSimple(SimpleAxis{}, 3, KindActual)
	require.NoError(t, err)
	a, err = e.SetSimple(a, 6, KindTarget)
	require.NoError(t, err)
	assert.Equal(t, SimpleAxis{Actual: 3, Target: 6}, a)

	a, err = e.SetSimple(a, Unset, KindActual)
	require.NoError(t, err)
	assert.False(t, a.Actual.IsSet())

	_, err = e.SetSimple(a, 8, KindTarget)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
