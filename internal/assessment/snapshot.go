package assessment

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/drdscore/internal/scoring"
	"github.com/abhisek/drdscore/internal/store"
)

const snapshotVersion = 1

const (
	modeSimple   = "simple"
	modeDetailed = "detailed"
)

// snapshotData is the persisted JSON form of an assessment's scores.
type snapshotData struct {
	Version int        `json:"version"`
	Axes    []axisData `json:"axes"`
}

type axisData struct {
	ID        int                              `json:"id"`
	Mode      string                           `json:"mode"`
	Areas     map[string]scoring.AreaScorePair `json:"areas,omitempty"`
	Actual    scoring.Level                    `json:"actual"`
	Target    scoring.Level                    `json:"target"`
	Rationale string                           `json:"rationale,omitempty"`
}

// encodeSnapshot serializes the scored axes in axis order.
func encodeSnapshot(a *Assessment) (json.RawMessage, error) {
	data := snapshotData{Version: snapshotVersion}
	for _, id := range a.AxisIDs() {
		ad := axisData{ID: id, Rationale: a.Rationale[id]}
		switch ax := a.Axes[id].(type) {
		case scoring.SimpleAxis:
			ad.Mode = modeSimple
			ad.Actual, ad.Target = ax.Actual, ax.Target
		case scoring.DetailedAxis:
			ad.Mode = modeDetailed
			ad.Areas = ax.Areas
			ad.Actual, ad.Target = ax.Actual, ax.Target
		default:
			return nil, fmt.Errorf("axis %d: unknown score variant %T", id, ax)
		}
		data.Axes = append(data.Axes, ad)
	}
	return json.Marshal(data)
}

// decodeSnapshot rebuilds an assessment from its index row and snapshot.
// Derived scalars are taken as stored; callers recompute them.
func decodeSnapshot(rec *store.AssessmentRecord, raw json.RawMessage) (*Assessment, error) {
	var data snapshotData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if data.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", data.Version)
	}

	a := &Assessment{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		Axes:      make(map[int]scoring.AxisScore, len(data.Axes)),
		Rationale: make(map[int]string),
	}
	for _, ad := range data.Axes {
		if _, dup := a.Axes[ad.ID]; dup {
			return nil, fmt.Errorf("decode snapshot: axis %d listed twice", ad.ID)
		}
		switch ad.Mode {
		case modeSimple:
			a.Axes[ad.ID] = scoring.SimpleAxis{Actual: ad.Actual, Target: ad.Target}
		case modeDetailed:
			areas := ad.Areas
			if areas == nil {
				areas = make(map[string]scoring.AreaScorePair)
			}
			a.Axes[ad.ID] = scoring.DetailedAxis{Areas: areas, Actual: ad.Actual, Target: ad.Target}
		default:
			return nil, fmt.Errorf("decode snapshot: axis %d has unknown mode %q", ad.ID, ad.Mode)
		}
		if ad.Rationale != "" {
			a.Rationale[ad.ID] = ad.Rationale
		}
	}
	return a, nil
}
