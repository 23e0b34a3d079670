package assessment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/drdscore/internal/drd"
	"github.com/abhisek/drdscore/internal/scoring"
	"github.com/abhisek/drdscore/internal/store"
	"github.com/abhisek/drdscore/internal/suggest"
)

// Score event operations.
const (
	OpToggle  = "toggle"
	OpClear   = "clear"
	OpSuggest = "suggest"
	OpSet     = "set"
	OpRepair  = "repair"
)

// Options tunes a Service. The zero value is usable.
type Options struct {
	Logger *slog.Logger

	// KeepSnapshots bounds the snapshot history per assessment after each
	// save. Zero keeps everything.
	KeepSnapshots int

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Service applies score mutations to stored assessments. Mutations are
// serialized and every result is persisted as a new snapshot.
type Service struct {
	mu        sync.Mutex
	catalog   *drd.Catalog
	engines   map[int]*scoring.Engine // by scale
	repo      store.AssessmentRepo
	eventRepo store.EventRepo
	logger    *slog.Logger
	keep      int
	now       func() time.Time
}

// NewService creates a service scoring against cat. eventRepo may be nil.
func NewService(cat *drd.Catalog, repo store.AssessmentRepo, eventRepo store.EventRepo, opts Options) (*Service, error) {
	if cat == nil {
		return nil, fmt.Errorf("assessment service: nil catalog")
	}
	if repo == nil {
		return nil, fmt.Errorf("assessment service: nil assessment repo")
	}

	s := &Service{
		catalog:   cat,
		engines:   make(map[int]*scoring.Engine),
		repo:      repo,
		eventRepo: eventRepo,
		logger:    opts.Logger,
		keep:      opts.KeepSnapshots,
		now:       opts.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}

	for _, ax := range cat.Axes {
		scales := []int{ax.Scale}
		for _, ar := range ax.Areas {
			scales = append(scales, ax.AreaScale(&ar))
		}
		for _, sc := range scales {
			if _, ok := s.engines[sc]; ok {
				continue
			}
			eng, err := scoring.NewEngine(sc)
			if err != nil {
				return nil, fmt.Errorf("axis %d: %w", ax.ID, err)
			}
			s.engines[sc] = eng
		}
	}
	return s, nil
}

// Catalog returns the catalog the service scores against.
func (s *Service) Catalog() *drd.Catalog {
	return s.catalog
}

// Create starts an assessment with every catalog axis unscored. Axes listed
// in simpleAxes are scored directly even when the catalog defines areas.
func (s *Service) Create(ctx context.Context, name string, simpleAxes ...int) (*Assessment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create assessment: name is required")
	}

	simple := make(map[int]bool, len(simpleAxes))
	for _, id := range simpleAxes {
		if _, err := s.catalog.Axis(id); err != nil {
			return nil, fmt.Errorf("%w: %d", ErrUnknownAxis, id)
		}
		simple[id] = true
	}

	now := s.now().UTC()
	a := &Assessment{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Axes:      make(map[int]scoring.AxisScore, len(s.catalog.Axes)),
		Rationale: make(map[int]string),
	}
	for _, ax := range s.catalog.Axes {
		if ax.IsSimple() || simple[ax.ID] {
			a.Axes[ax.ID] = scoring.SimpleAxis{}
		} else {
			a.Axes[ax.ID] = scoring.NewDetailedAxis(ax.AreaIDs()...)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx, a); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "assessment created", "assessment", a.ID, "name", a.Name)
	return a, nil
}

// Get loads an assessment. Stored axis scalars that disagree with their
// areas are recomputed, persisted and logged as repairs.
func (s *Service) Get(ctx context.Context, id string) (*Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, repairs, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(repairs) > 0 {
		if err := s.save(ctx, a); err != nil {
			return nil, err
		}
		for _, ev := range repairs {
			s.recordEvent(ctx, ev)
		}
	}
	return a, nil
}

// List returns stored assessments, most recently updated first.
func (s *Service) List(ctx context.Context) ([]store.AssessmentRecord, error) {
	recs, err := s.repo.List(ctx, store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return recs, nil
}

// Delete removes an assessment and its snapshots. Score events are kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get assessment: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete assessment: %w", err)
	}
	s.logger.InfoContext(ctx, "assessment deleted", "assessment", id)
	return nil
}

// Toggle flips level for kind. areaID selects the area of a detailed axis
// and must be empty for a simple axis, where toggling the current scalar
// unsets it.
func (s *Service) Toggle(ctx context.Context, id string, axisID int, areaID string, level scoring.Level, kind scoring.Kind) (*Assessment, error) {
	return s.mutate(ctx, id, axisID, func(t *target) error {
		ev := store.ScoreEventData{Operation: OpToggle, Kind: string(kind), Level: int(level)}
		switch cur := t.score.(type) {
		case scoring.DetailedAxis:
			ar, err := t.area(areaID, level)
			if err != nil {
				return err
			}
			next, err := t.eng.ToggleArea(cur, ar, level, kind)
			if err != nil {
				return err
			}
			return t.commit(next, ar, ev)
		case scoring.SimpleAxis:
			if areaID != "" {
				return t.simpleMismatch()
			}
			if _, err := scoring.ParseKind(string(kind)); err != nil {
				return err
			}
			if err := t.eng.CheckLevel(level); err != nil {
				return err
			}
			set := level
			if scalar(cur, kind) == level {
				set = scoring.Unset
			}
			next, err := t.eng.SetSimple(cur, set, kind)
			if err != nil {
				return err
			}
			return t.commit(next, "", ev)
		}
		return fmt.Errorf("axis %d: unknown score variant %T", axisID, t.score)
	})
}

// Clear marks level not applicable in one area of a detailed axis.
func (s *Service) Clear(ctx context.Context, id string, axisID int, areaID string, level scoring.Level) (*Assessment, error) {
	return s.mutate(ctx, id, axisID, func(t *target) error {
		cur, ok := t.score.(scoring.DetailedAxis)
		if !ok {
			return t.simpleMismatch()
		}
		ar, err := t.area(areaID, level)
		if err != nil {
			return err
		}
		next, err := t.eng.ClearArea(cur, ar, level)
		if err != nil {
			return err
		}
		return t.commit(next, ar, store.ScoreEventData{Operation: OpClear, Level: int(level)})
	})
}

// SetSimple sets a simple axis scalar. Level 0 unsets it.
func (s *Service) SetSimple(ctx context.Context, id string, axisID int, level scoring.Level, kind scoring.Kind) (*Assessment, error) {
	return s.mutate(ctx, id, axisID, func(t *target) error {
		cur, ok := t.score.(scoring.SimpleAxis)
		if !ok {
			return t.detailedMismatch()
		}
		next, err := t.eng.SetSimple(cur, level, kind)
		if err != nil {
			return err
		}
		return t.commit(next, "", store.ScoreEventData{Operation: OpSet, Kind: string(kind), Level: int(level)})
	})
}

// ApplySuggestion folds an accepted suggestion into the assessment. Area
// suggestions add their level to the area's mask; axis suggestions set the
// simple scalar.
func (s *Service) ApplySuggestion(ctx context.Context, id string, sug suggest.Suggestion) (*Assessment, error) {
	return s.mutate(ctx, id, sug.AxisID, func(t *target) error {
		ev := store.ScoreEventData{Operation: OpSuggest, Kind: string(sug.Kind), Level: int(sug.Level)}
		switch cur := t.score.(type) {
		case scoring.DetailedAxis:
			ar, err := t.area(sug.AreaID, sug.Level)
			if err != nil {
				return err
			}
			next, err := t.eng.SuggestArea(cur, ar, sug.Level, sug.Kind)
			if err != nil {
				return err
			}
			return t.commit(next, ar, ev)
		case scoring.SimpleAxis:
			if sug.AreaID != "" {
				return t.simpleMismatch()
			}
			next, err := t.eng.SetSimple(cur, sug.Level, sug.Kind)
			if err != nil {
				return err
			}
			return t.commit(next, "", ev)
		}
		return fmt.Errorf("axis %d: unknown score variant %T", sug.AxisID, t.score)
	})
}

// SetRationale stores the strategic rationale of one axis. Empty text
// removes it.
func (s *Service) SetRationale(ctx context.Context, id string, axisID int, text string) (*Assessment, error) {
	return s.mutate(ctx, id, axisID, func(t *target) error {
		text = strings.TrimSpace(text)
		if text == "" {
			delete(t.a.Rationale, axisID)
		} else {
			t.a.Rationale[axisID] = text
		}
		return nil
	})
}

// SuggestInput describes one axis or area of an assessment for the
// suggester.
func (s *Service) SuggestInput(ctx context.Context, id string, axisID int, areaID string, kind scoring.Kind, notes string) (suggest.Input, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return suggest.Input{}, err
	}
	axis, score, err := s.axis(a, axisID)
	if err != nil {
		return suggest.Input{}, err
	}

	in := suggest.Input{Axis: axis, Kind: kind, Notes: notes}
	switch cur := score.(type) {
	case scoring.DetailedAxis:
		if areaID == "" {
			return suggest.Input{}, fmt.Errorf("%w: axis %d is scored per area", ErrModeMismatch, axisID)
		}
		ar, err := axis.Area(areaID)
		if err != nil {
			return suggest.Input{}, fmt.Errorf("%w: %s in axis %d", ErrUnknownArea, areaID, axisID)
		}
		in.Area = ar
		in.Current = cur.Pair(ar.ID)
	case scoring.SimpleAxis:
		if areaID != "" {
			return suggest.Input{}, fmt.Errorf("%w: axis %d is scored without areas", ErrModeMismatch, axisID)
		}
		in.CurrentAxis = cur.Scores()
	}
	return in, nil
}

// Events returns the score events of an assessment in order.
func (s *Service) Events(ctx context.Context, id string, opts store.QueryOpts) ([]store.ScoreEventRecord, error) {
	if s.eventRepo == nil {
		return nil, nil
	}
	evs, err := s.eventRepo.QueryScoreEvents(ctx, id, opts)
	if err != nil {
		return nil, fmt.Errorf("query score events: %w", err)
	}
	return evs, nil
}

// target is the axis a mutation works on.
type target struct {
	a     *Assessment
	axis  *drd.Axis
	score scoring.AxisScore
	eng   *scoring.Engine
	s     *Service

	event *store.ScoreEventData
}

// area resolves areaID to its catalog spelling and checks level against
// the area's own scale.
func (t *target) area(areaID string, level scoring.Level) (string, error) {
	if areaID == "" {
		return "", fmt.Errorf("%w: axis %d is scored per area", ErrModeMismatch, t.axis.ID)
	}
	ar, err := t.axis.Area(areaID)
	if err != nil {
		return "", fmt.Errorf("%w: %s in axis %d", ErrUnknownArea, areaID, t.axis.ID)
	}
	if err := t.s.engines[t.axis.AreaScale(ar)].CheckLevel(level); err != nil {
		return "", err
	}
	return ar.ID, nil
}

func (t *target) simpleMismatch() error {
	return fmt.Errorf("%w: axis %d is scored without areas", ErrModeMismatch, t.axis.ID)
}

func (t *target) detailedMismatch() error {
	return fmt.Errorf("%w: axis %d is scored per area", ErrModeMismatch, t.axis.ID)
}

// commit stores next on the assessment and prepares its score event.
func (t *target) commit(next scoring.AxisScore, areaID string, ev store.ScoreEventData) error {
	t.a.Axes[t.axis.ID] = next
	ev.AssessmentID = t.a.ID
	ev.AxisID = t.axis.ID
	ev.AreaID = areaID
	if d, ok := next.(scoring.DetailedAxis); ok {
		p := d.Pair(areaID)
		ev.ActualMask, ev.TargetMask = uint32(p.Actual), uint32(p.Target)
	}
	sc := next.Scores()
	ev.AxisActual, ev.AxisTarget = int(sc.Actual), int(sc.Target)
	t.event = &ev
	return nil
}

// mutate loads an assessment, applies fn to one axis and persists the
// result. The stored state is untouched when fn fails.
func (s *Service) mutate(ctx context.Context, id string, axisID int, fn func(*target) error) (*Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, repairs, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	axis, score, err := s.axis(a, axisID)
	if err != nil {
		return nil, err
	}

	t := &target{a: a, axis: axis, score: score, eng: s.engines[axis.Scale], s: s}
	if err := fn(t); err != nil {
		return nil, err
	}

	t.a.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, t.a); err != nil {
		return nil, err
	}

	for _, ev := range repairs {
		s.recordEvent(ctx, ev)
	}
	if t.event != nil {
		s.recordEvent(ctx, *t.event)
		s.logger.DebugContext(ctx, "score updated",
			"assessment", id,
			"axis", axisID,
			"area", t.event.AreaID,
			"op", t.event.Operation,
			"level", t.event.Level,
			"actual", t.event.AxisActual,
			"target", t.event.AxisTarget,
		)
	}
	return t.a, nil
}

// axis resolves a catalog axis and its score on a.
func (s *Service) axis(a *Assessment, axisID int) (*drd.Axis, scoring.AxisScore, error) {
	axis, err := s.catalog.Axis(axisID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownAxis, axisID)
	}
	score, ok := a.Axes[axisID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d not scored in assessment %s", ErrUnknownAxis, axisID, a.ID)
	}
	return axis, score, nil
}

// checkSimple rejects stored simple scalars outside the axis scale.
// Unset scalars are valid.
func checkSimple(eng *scoring.Engine, score scoring.AxisScore) error {
	simple, ok := score.(scoring.SimpleAxis)
	if !ok {
		return nil
	}
	for _, l := range []scoring.Level{simple.Actual, simple.Target} {
		if l == scoring.Unset {
			continue
		}
		if err := eng.CheckLevel(l); err != nil {
			return err
		}
	}
	return nil
}

// load reads the latest snapshot, adds axes the catalog gained since it
// was written and recomputes derived scalars. Each recomputation that
// changed a stored scalar is returned as a repair event.
func (s *Service) load(ctx context.Context, id string) (*Assessment, []store.ScoreEventData, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get assessment: %w", err)
	}
	if rec == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	snap, err := s.repo.Latest(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("latest snapshot: %w", err)
	}
	if snap == nil {
		return nil, nil, fmt.Errorf("%w: %s has no snapshot", ErrNotFound, id)
	}
	a, err := decodeSnapshot(rec, snap.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("assessment %s: %w", id, err)
	}

	var repairs []store.ScoreEventData
	for _, ax := range s.catalog.Axes {
		cur, ok := a.Axes[ax.ID]
		if !ok {
			if ax.IsSimple() {
				a.Axes[ax.ID] = scoring.SimpleAxis{}
			} else {
				a.Axes[ax.ID] = scoring.NewDetailedAxis(ax.AreaIDs()...)
			}
			continue
		}
		d, ok := cur.(scoring.DetailedAxis)
		if !ok {
			if err := checkSimple(s.engines[ax.Scale], cur); err != nil {
				return nil, nil, fmt.Errorf("assessment %s axis %d: %w", id, ax.ID, err)
			}
			continue
		}
		for _, areaID := range ax.AreaIDs() {
			d = d.Open(areaID)
		}
		next, err := s.engines[ax.Scale].Recompute(d)
		if err != nil {
			return nil, nil, fmt.Errorf("assessment %s axis %d: %w", id, ax.ID, err)
		}
		a.Axes[ax.ID] = next
		if got, want := d.Scores(), next.Scores(); got != want {
			s.logger.WarnContext(ctx, "repaired axis scores",
				"assessment", id,
				"axis", ax.ID,
				"stored_actual", int(got.Actual),
				"stored_target", int(got.Target),
				"actual", int(want.Actual),
				"target", int(want.Target),
			)
			repairs = append(repairs, store.ScoreEventData{
				AssessmentID: id,
				AxisID:       ax.ID,
				Operation:    OpRepair,
				AxisActual:   int(want.Actual),
				AxisTarget:   int(want.Target),
			})
		}
	}
	return a, repairs, nil
}

func (s *Service) save(ctx context.Context, a *Assessment) error {
	data, err := encodeSnapshot(a)
	if err != nil {
		return fmt.Errorf("encode assessment %s: %w", a.ID, err)
	}
	rec := store.AssessmentRecord{ID: a.ID, Name: a.Name, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt}
	if _, err := s.repo.Save(ctx, rec, data); err != nil {
		return fmt.Errorf("save assessment %s: %w", a.ID, err)
	}
	if s.keep > 0 {
		if err := s.repo.Prune(ctx, a.ID, s.keep); err != nil {
			s.logger.WarnContext(ctx, "failed to prune snapshots", "assessment", a.ID, "error", err)
		}
	}
	return nil
}

// recordEvent appends a score event. Failures are logged, not returned,
// since the snapshot is already stored.
func (s *Service) recordEvent(ctx context.Context, ev store.ScoreEventData) {
	if s.eventRepo == nil {
		return
	}
	if err := s.eventRepo.AppendScoreEvent(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "failed to record score event", "assessment", ev.AssessmentID, "error", err)
	}
}

func scalar(a scoring.SimpleAxis, kind scoring.Kind) scoring.Level {
	if kind == scoring.KindTarget {
		return a.Target
	}
	return a.Actual
}
