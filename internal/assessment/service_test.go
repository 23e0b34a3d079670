package assessment

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/drdscore/internal/drd"
	"github.com/abhisek/drdscore/internal/scoring"
	"github.com/abhisek/drdscore/internal/store"
	"github.com/abhisek/drdscore/internal/suggest"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	store *store.Store
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.OpenMemory(name)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cat, err := drd.Default()
	require.NoError(t, err)

	svc, err := NewService(cat, st.AssessmentRepo(), st.EventRepo(), Options{
		Now: func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return &fixture{svc: svc, store: st, ctx: context.Background()}
}

func (f *fixture) create(t *testing.T, simple ...int) *Assessment {
	t.Helper()
	a, err := f.svc.Create(f.ctx, "Acme Logistics", simple...)
	require.NoError(t, err)
	return a
}

func detailed(t *testing.T, a *Assessment, axisID int) scoring.DetailedAxis {
	t.Helper()
	d, ok := a.Axes[axisID].(scoring.DetailedAxis)
	require.True(t, ok, "axis %d is %T", axisID, a.Axes[axisID])
	return d
}

func TestNewService_Validation(t *testing.T) {
	cat, err := drd.Default()
	require.NoError(t, err)

	_, err = NewService(nil, nil, nil, Options{})
	assert.Error(t, err)
	_, err = NewService(cat, nil, nil, Options{})
	assert.Error(t, err)
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)

	assert.Len(t, a.ID, 36)
	assert.Equal(t, "Acme Logistics", a.Name)
	assert.Equal(t, testNow, a.CreatedAt)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, a.AxisIDs())
	assert.Equal(t, scoring.SimpleAxis{}, a.Axes[3])
	assert.Equal(t, scoring.NewDetailedAxis("1A", "1B", "1C"), a.Axes[1])

	got, err := f.svc.Get(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Axes, got.Axes)
	assert.Equal(t, a.Name, got.Name)
}

func TestCreate_SimpleOverride(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, 1, 4)

	assert.Equal(t, scoring.SimpleAxis{}, a.Axes[1])
	assert.Equal(t, scoring.SimpleAxis{}, a.Axes[4])
	assert.IsType(t, scoring.DetailedAxis{}, a.Axes[2])

	got, err := f.svc.Get(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, scoring.SimpleAxis{}, got.Axes[1])
}

func TestCreate_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, "  ")
	assert.Error(t, err)

	_, err = f.svc.Create(f.ctx, "Acme", 9)
	assert.ErrorIs(t, err, ErrUnknownAxis)
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Get(f.ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggle_DetailedAggregates(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)

	steps := []struct {
		area  string
		level scoring.Level
		kind  scoring.Kind
	}{
		{"1A", 1, scoring.KindActual},
		{"1A", 2, scoring.KindActual},
		{"1A", 3, scoring.KindActual},
		{"1B", 1, scoring.KindActual},
		{"1A", 4, scoring.KindTarget},
		{"1A", 5, scoring.KindTarget},
	}
	var err error
	for _, st := range steps {
		a, err = f.svc.Toggle(f.ctx, a.ID, 1, st.area, st.level, st.kind)
		require.NoError(t, err)
	}

	d := detailed(t, a, 1)
	assert.Equal(t, scoring.AreaScorePair{Actual: 0b00111, Target: 0b11000}, d.Pair("1A"))
	assert.Equal(t, scoring.AreaScorePair{Actual: 0b1}, d.Pair("1B"))
	assert.Equal(t, scoring.AreaScorePair{}, d.Pair("1C"))
	// (3 + 1) / 2 actual flags; the empty 1C is left out.
	assert.Equal(t, scoring.Level(2), d.Actual)
	assert.Equal(t, scoring.Level(2), d.Target)

	got, err := f.svc.Get(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Axes[1], got.Axes[1])
	assert.Equal(t, testNow, got.UpdatedAt)
}

func TestToggle_TargetTakesOverActualBit(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)

	a, err := f.svc.Toggle(f.ctx, a.ID, 2, "2A", 3, scoring.KindActual)
	require.NoError(t, err)
	a, err = f.svc.Toggle(f.ctx, a.ID, 2, "2A", 3, scoring.KindTarget)
	require.NoError(t, err)

	d := detailed(t, a, 2)
	assert.Equal(t, scoring.AreaScorePair{Target: 0b100}, d.Pair("2A"))
	assert.Equal(t, scoring.Unset, d.Actual)
	assert.Equal(t, scoring.Level(1), d.Target)
}

func TestToggle_AreaIDIgnoresCase(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)

	a, err := f.svc.Toggle(f.ctx, a.ID, 4, "4b", 2, scoring.KindActual)
	require.NoError(t, err)

	d := detailed(t, a, 4)
	assert.Equal(t, scoring.AreaScorePair{Actual: 0b10}, d.Pair("4B"))
	assert.NotContains(t, d.Areas, "4b")
}

func TestToggle_Simple(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)

	a, err := f.svc.Toggle(f.ctx, a.ID, 3, "", 4, scoring.KindActual)
	require.NoError(t, err)
	assert.Equal(t, scoring.SimpleAxis{Actual: 4}, a.Axes[3])

	a, err = f.svc.Toggle(f.ctx, a.ID, 3, "", 6, scoring.KindTarget)
	require.NoError(t, err)
	assert.Equal(t, scoring.SimpleAxis{Actual: 4, Target: 6}, a.Axes[3])

	a, err = f.svc.Toggle(f.ctx, a.ID, 3, "", 4, scoring.KindActual)
	require.NoError(t, err)
	assert.Equal(t, scoring.SimpleAxis{Target: 6}, a.Axes[3])
}

func TestToggle_Errors(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)

	tests := []struct {
		name   string
		axis   int
		area   string
		level  scoring.Level
		kind   scoring.Kind
		target error
	}{
		{"unknown axis", 9, "9A", 1, scoring.KindActual, ErrUnknownAxis},
		{"unknown area", 1, "1Z", 1, scoring.KindActual, ErrUnknownArea},
		{"area on simple axis", 3, "3A", 1, scoring.KindActual, ErrModeMismatch},
		{"missing area on detailed axis", 1, "", 1, scoring.KindActual, ErrModeMismatch},
		{"level above axis scale", 1, "1A", 8, scoring.KindActual, scoring.ErrInvalidArgument},
		{"level zero", 1, "1A", 0, scoring.KindActual, scoring.ErrInvalidArgument},
		{"level above area scale", 7, "7A", 6, scoring.KindActual, scoring.ErrInvalidArgument},
		{"bad kind", 1, "1A", 2, "maybe", scoring.ErrInvalidArgument},
		{"bad kind on simple axis", 3, "", 2, "maybe", scoring.ErrInvalidArgument},
		{"simple level zero", 3, "", 0, scoring.KindActual, scoring.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Toggle(f.ctx, a.ID, tt.axis, tt.area, tt.level, tt.kind)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	_, err := f.svc.Toggle(f.ctx, "missing", 1, "1A", 1, scoring.KindActual)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.svc.Get(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Axes, got.Axes, "failed toggles must not change state")
}

func TestToggle_AreaOwnScale(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)

	a, err := f.svc.Toggle(f.ctx, a.ID, 7, "7A", 5, scoring.KindTarget)
	require.NoError(t, err)
	assert.Equal(t, scoring.AreaScorePair{Target: 0b10000}, detailed(t, a, 7).Pair("7A"))

	a, err = f.svc.Toggle(f.ctx, a.ID, 7, "7B", 7, scoring.KindTarget)
	require.NoError(t, err)
	assert.Equal(t, scoring.AreaScorePair{Target: 0b1000000}, detailed(t, a, 7).Pair("7B"))
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)

	a, err := f.svc.Toggle(f.ctx, a.ID, 5, "5A", 2, scoring.KindActual)
	require.NoError(t, err)
	a, err = f.svc.Toggle(f.ctx, a.ID, 5, "5A", 3, scoring.KindTarget)
	require.NoError(t, err)

	a, err = f.svc.Clear(f.ctx, a.ID, 5, "5A", 2)
	require.NoError(t, err)
	assert.Equal(t, scoring.AreaScorePair{Target: 0b100}, detailed(t, a, 5).Pair("5A"))
	assert.Equal(t, scoring.Unset, detailed(t, a, 5).Actual)

	again, err := f.svc.Clear(f.ctx, a.ID, 5, "5A", 2)
	require.NoError(t, err)
	assert.Equal(t, a.Axes[5], again.Axes[5])

	_, err = f.svc.Clear(f.ctx, a.ID, 3, "", 2)
	assert.ErrorIs(t, err, ErrModeMismatch)
}

func TestSetSimple(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)

	a, err := f.svc.SetSimple(f.ctx, a.ID, 3, 5, scoring.KindTarget)
	require.NoError(t, err)
	assert.Equal(t, scoring.SimpleAxis{Target: 5}, a.Axes[3])

	a, err = f.svc.SetSimple(f.ctx, a.ID, 3, scoring.Unset, scoring.KindTarget)
	require.NoError(t, err)
	assert.Equal(t, scoring.SimpleAxis{}, a.Axes[3])

	_, err = f.svc.SetSimple(f.ctx, a.ID, 1, 2, scoring.KindActual)
	assert.ErrorIs(t, err, ErrModeMismatch)

	_, err = f.svc.SetSimple(f.ctx, a.ID, 3, 9, scoring.KindActual)
	assert.ErrorIs(t, err, scoring.ErrInvalidArgument)
}

func TestApplySuggestion(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)

	a, err := f.svc.Toggle(f.ctx, a.ID, 6, "6A", 2, scoring.KindActual)
	require.NoError(t, err)

	a, err = f.svc.ApplySuggestion(f.ctx, a.ID, suggest.Suggestion{
		AxisID: 6, AreaID: "6a", Kind: scoring.KindActual, Level: 4,
	})
	require.NoError(t, err)
	// Suggestions add to the mask rather than replacing it.
	assert.Equal(t, scoring.AreaScorePair{Actual: 0b1010}, detailed(t, a, 6).Pair("6A"))
	assert.Equal(t, scoring.Level(2), detailed(t, a, 6).Actual)

	a, err = f.svc.ApplySuggestion(f.ctx, a.ID, suggest.Suggestion{
		AxisID: 3, Kind: scoring.KindTarget, Level: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, scoring.SimpleAxis{Target: 5}, a.Axes[3])

	_, err = f.svc.ApplySuggestion(f.ctx, a.ID, suggest.Suggestion{
		AxisID: 3, AreaID: "3A", Kind: scoring.KindTarget, Level: 5,
	})
	assert.ErrorIs(t, err, ErrModeMismatch)
}

func TestSetRationale(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)

	_, err := f.svc.SetRationale(f.ctx, a.ID, 4, "  Data is the backbone of the new service line. ")
	require.NoError(t, err)

	got, err := f.svc.Get(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{4: "Data is the backbone of the new service line."}, got.Rationale)

	got, err = f.svc.SetRationale(f.ctx, a.ID, 4, "")
	require.NoError(t, err)
	assert.Empty(t, got.Rationale)

	_, err = f.svc.SetRationale(f.ctx, a.ID, 12, "nope")
	assert.ErrorIs(t, err, ErrUnknownAxis)
}

func TestEvents(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)

	_, err := f.svc.Toggle(f.ctx, a.ID, 1, "1C", 2, scoring.KindActual)
	require.NoError(t, err)
	_, err = f.svc.Clear(f.ctx, a.ID, 1, "1C", 2)
	require.NoError(t, err)
	_, err = f.svc.SetSimple(f.ctx, a.ID, 3, 3, scoring.KindActual)
	require.NoError(t, err)

	evs, err := f.svc.Events(f.ctx, a.ID, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, evs, 3)

	assert.Equal(t, OpToggle, evs[0].Operation)
	assert.Equal(t, "1C", evs[0].AreaID)
	assert.Equal(t, "actual", evs[0].Kind)
	assert.Equal(t, uint32(0b10), evs[0].ActualMask)
	assert.Equal(t, 1, evs[0].AxisActual)

	assert.Equal(t, OpClear, evs[1].Operation)
	assert.Equal(t, uint32(0), evs[1].ActualMask)
	assert.Equal(t, 0, evs[1].AxisActual)

	assert.Equal(t, OpSet, evs[2].Operation)
	assert.Equal(t, 3, evs[2].AxisID)
	assert.Equal(t, 3, evs[2].AxisActual)

	assert.Less(t, evs[0].Sequence, evs[1].Sequence)
	assert.Less(t, evs[1].Sequence, evs[2].Sequence)
}

func TestGet_RepairsStaleScalars(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)

	a, err := f.svc.Toggle(f.ctx, a.ID, 1, "1A", 1, scoring.KindActual)
	require.NoError(t, err)
	a, err = f.svc.Toggle(f.ctx, a.ID, 1, "1A", 2, scoring.KindActual)
	require.NoError(t, err)

	// Store a snapshot whose axis scalar disagrees with its areas.
	stale := *a
	stale.Axes = map[int]scoring.AxisScore{}
	for id, ax := range a.Axes {
		stale.Axes[id] = ax
	}
	d := detailed(t, a, 1)
	d.Actual = 6
	stale.Axes[1] = d
	data, err := encodeSnapshot(&stale)
	require.NoError(t, err)
	_, err = f.store.AssessmentRepo().Save(f.ctx, store.AssessmentRecord{ID: a.ID, Name: a.Name}, data)
	require.NoError(t, err)

	got, err := f.svc.Get(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, scoring.Level(2), got.Scores(1).Actual)

	evs, err := f.svc.Events(f.ctx, a.ID, store.QueryOpts{})
	require.NoError(t, err)
	last := evs[len(evs)-1]
	assert.Equal(t, OpRepair, last.Operation)
	assert.Equal(t, 1, last.AxisID)
	assert.Equal(t, 2, last.AxisActual)

	// The repair is persisted, so a second load is clean.
	_, err = f.svc.Get(f.ctx, a.ID)
	require.NoError(t, err)
	evs2, err := f.svc.Events(f.ctx, a.ID, store.QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, evs2, len(evs))
}

func TestGet_RejectsOutOfScaleSimpleScalars(t *testing.T) {
	tests := []struct {
		name   string
		stored scoring.SimpleAxis
	}{
		{"actual above scale", scoring.SimpleAxis{Actual: 9}},
		{"target above scale", scoring.SimpleAxis{Actual: 2, Target: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			a := f.create(t, 3)

			bad := *a
			bad.Axes = map[int]scoring.AxisScore{}
			for id, ax := range a.Axes {
				bad.Axes[id] = ax
			}
			bad.Axes[3] = tt.stored
			data, err := encodeSnapshot(&bad)
			require.NoError(t, err)
			_, err = f.store.AssessmentRepo().Save(f.ctx, store.AssessmentRecord{ID: a.ID, Name: a.Name}, data)
			require.NoError(t, err)

			_, err = f.svc.Get(f.ctx, a.ID)
			assert.ErrorIs(t, err, scoring.ErrInvalidArgument)
		})
	}
}

func TestGet_AcceptsUnsetSimpleScalars(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, 3)

	a, err := f.svc.SetSimple(f.ctx, a.ID, 3, 7, scoring.KindTarget)
	require.NoError(t, err)

	got, err := f.svc.Get(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, scoring.SimpleAxis{Target: 7}, got.Axes[3])
}

func TestGet_OpensNewCatalogAreas(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)

	trimmed := *a
	trimmed.Axes = map[int]scoring.AxisScore{1: scoring.NewDetailedAxis("1A")}
	data, err := encodeSnapshot(&trimmed)
	require.NoError(t, err)
	_, err = f.store.AssessmentRepo().Save(f.ctx, store.AssessmentRecord{ID: a.ID, Name: a.Name}, data)
	require.NoError(t, err)

	got, err := f.svc.Get(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, got.AxisIDs())
	assert.Len(t, detailed(t, got, 1).Areas, 3)
}

func TestDeleteAndList(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)
	b, err := f.svc.Create(f.ctx, "Beta Foods")
	require.NoError(t, err)

	recs, err := f.svc.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	require.NoError(t, f.svc.Delete(f.ctx, a.ID))
	_, err = f.svc.Get(f.ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(f.ctx, a.ID), ErrNotFound)

	recs, err = f.svc.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, b.ID, recs[0].ID)
}

func TestSuggestInput(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)

	a, err := f.svc.Toggle(f.ctx, a.ID, 2, "2B", 3, scoring.KindActual)
	require.NoError(t, err)

	in, err := f.svc.SuggestInput(f.ctx, a.ID, 2, "2b", scoring.KindTarget, "notes")
	require.NoError(t, err)
	assert.Equal(t, 2, in.Axis.ID)
	require.NotNil(t, in.Area)
	assert.Equal(t, "2B", in.Area.ID)
	assert.Equal(t, scoring.AreaScorePair{Actual: 0b100}, in.Current)
	assert.Equal(t, "notes", in.Notes)

	_, err = f.svc.SetSimple(f.ctx, a.ID, 3, 2, scoring.KindActual)
	require.NoError(t, err)
	in, err = f.svc.SuggestInput(f.ctx, a.ID, 3, "", scoring.KindTarget, "")
	require.NoError(t, err)
	assert.Nil(t, in.Area)
	assert.Equal(t, scoring.Aggregate{Actual: 2}, in.CurrentAxis)

	_, err = f.svc.SuggestInput(f.ctx, a.ID, 2, "", scoring.KindTarget, "")
	assert.ErrorIs(t, err, ErrModeMismatch)
	_, err = f.svc.SuggestInput(f.ctx, a.ID, 2, "2Q", scoring.KindTarget, "")
	assert.ErrorIs(t, err, ErrUnknownArea)
}

func TestSnapshotJSON(t *testing.T) {
	a := &Assessment{
		ID:   "x",
		Name: "Acme",
		Axes: map[int]scoring.AxisScore{
			3: scoring.SimpleAxis{Actual: 2},
			1: scoring.DetailedAxis{
				Areas:  map[string]scoring.AreaScorePair{"1A": {Actual: 3, Target: 4}},
				Actual: 2,
			},
		},
		Rationale: map[int]string{3: "why"},
	}

	raw, err := encodeSnapshot(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"version": 1,
		"axes": [
			{"id": 1, "mode": "detailed", "areas": {"1A": [3, 4]}, "actual": 2, "target": null},
			{"id": 3, "mode": "simple", "actual": 2, "target": null, "rationale": "why"}
		]
	}`, string(raw))

	back, err := decodeSnapshot(&store.AssessmentRecord{ID: "x", Name: "Acme"}, raw)
	require.NoError(t, err)
	assert.Equal(t, a.Axes, back.Axes)
	assert.Equal(t, a.Rationale, back.Rationale)
}

func TestDecodeSnapshot_Rejects(t *testing.T) {
	rec := &store.AssessmentRecord{ID: "x"}
	for name, raw := range map[string]string{
		"bad json":      `{`,
		"version":       `{"version": 2, "axes": []}`,
		"mode":          `{"version": 1, "axes": [{"id": 1, "mode": "fancy"}]}`,
		"duplicate":     `{"version": 1, "axes": [{"id": 1, "mode": "simple"}, {"id": 1, "mode": "simple"}]}`,
		"negative mask": `{"version": 1, "axes": [{"id": 1, "mode": "detailed", "areas": {"1A": [-1, 0]}}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := decodeSnapshot(rec, json.RawMessage(raw))
			assert.Error(t, err)
		})
	}
}
