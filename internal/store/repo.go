package store

import (
	"context"
	"encoding/json"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// Purpose restricts LLM event queries to one purpose label.
	Purpose string
}

// predicates translates the sequence and time filters into SQL predicates.
func (o QueryOpts) predicates() []*entsql.Predicate {
	var ps []*entsql.Predicate
	if o.After > 0 {
		ps = append(ps, entsql.GT("sequence", o.After))
	}
	if o.Before > 0 {
		ps = append(ps, entsql.LT("sequence", o.Before))
	}
	if !o.From.IsZero() {
		ps = append(ps, entsql.GTE("timestamp", o.From))
	}
	if !o.To.IsZero() {
		ps = append(ps, entsql.LTE("timestamp", o.To))
	}
	return ps
}

// AssessmentRecord is the index entry of a stored assessment.
type AssessmentRecord struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AssessmentSnapshot is the full scored state of an assessment at one save.
// Data is owned by the assessment package; the store keeps it verbatim.
type AssessmentSnapshot struct {
	ID           int
	AssessmentID string
	Sequence     int64
	Timestamp    time.Time
	Data         json.RawMessage
}

// AssessmentRepo persists assessments as an index row plus snapshots.
type AssessmentRepo interface {
	// Save upserts the index row and appends a snapshot holding data.
	Save(ctx context.Context, rec AssessmentRecord, data json.RawMessage) (*AssessmentSnapshot, error)

	// Get returns the index row, or nil if the assessment does not exist.
	Get(ctx context.Context, id string) (*AssessmentRecord, error)

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context, id string) (*AssessmentSnapshot, error)

	// List returns assessments, most recently updated first.
	List(ctx context.Context, opts QueryOpts) ([]AssessmentRecord, error)

	// Prune deletes all but the N most recent snapshots of an assessment.
	Prune(ctx context.Context, id string, keep int) error

	// Delete removes an assessment with all its snapshots.
	Delete(ctx context.Context, id string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates recorded LLM calls for one purpose.
type LLMUsage struct {
	Purpose      string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ScoreEventData captures one scoring mutation and its result.
type ScoreEventData struct {
	AssessmentID string
	AxisID       int
	AreaID       string // empty for simple axes
	Operation    string // "toggle", "clear", "suggest", "set", "repair"
	Kind         string
	Level        int
	ActualMask   uint32
	TargetMask   uint32
	AxisActual   int // 0 when unset
	AxisTarget   int // 0 when unset
}

// ScoreEventRecord is a stored score event.
type ScoreEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ScoreEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose sums calls and tokens per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// AppendScoreEvent records a scoring mutation.
	AppendScoreEvent(ctx context.Context, data ScoreEventData) error

	// QueryScoreEvents returns an assessment's score events in sequence order.
	QueryScoreEvents(ctx context.Context, assessmentID string, opts QueryOpts) ([]ScoreEventRecord, error)
}
