package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// AssessmentsColumns holds one row per assessment.
	AssessmentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "name", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	AssessmentsTable = &schema.Table{
		Name:       "assessments",
		Columns:    AssessmentsColumns,
		PrimaryKey: []*schema.Column{AssessmentsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "assessment_updated_at", Columns: []*schema.Column{AssessmentsColumns[3]}},
		},
	}

	// AssessmentSnapshotsColumns holds the full scored state after each save.
	AssessmentSnapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "assessment_id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "data", Type: field.TypeJSON},
	}
	AssessmentSnapshotsTable = &schema.Table{
		Name:       "assessment_snapshots",
		Columns:    AssessmentSnapshotsColumns,
		PrimaryKey: []*schema.Column{AssessmentSnapshotsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "assessmentsnapshot_assessment_id_sequence", Columns: []*schema.Column{AssessmentSnapshotsColumns[1], AssessmentSnapshotsColumns[2]}},
		},
	}

	// ScoreEventsColumns records every scoring mutation.
	ScoreEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "assessment_id", Type: field.TypeString},
		{Name: "axis_id", Type: field.TypeInt},
		{Name: "area_id", Type: field.TypeString, Default: ""},
		{Name: "operation", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString, Default: ""},
		{Name: "level", Type: field.TypeInt},
		{Name: "actual_mask", Type: field.TypeInt64},
		{Name: "target_mask", Type: field.TypeInt64},
		{Name: "axis_actual", Type: field.TypeInt},
		{Name: "axis_target", Type: field.TypeInt},
	}
	ScoreEventsTable = &schema.Table{
		Name:       "score_events",
		Columns:    ScoreEventsColumns,
		PrimaryKey: []*schema.Column{ScoreEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "scoreevent_assessment_id_sequence", Columns: []*schema.Column{ScoreEventsColumns[3], ScoreEventsColumns[1]}},
		},
	}

	// LlmRequestEventsColumns records every LLM call.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LlmRequestEventsColumns[5]}},
		},
	}

	// GlobalSequenceColumns holds the single row backing the shared
	// event sequence.
	GlobalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	GlobalSequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    GlobalSequenceColumns,
		PrimaryKey: []*schema.Column{GlobalSequenceColumns[0]},
	}

	// Tables holds all the tables managed by auto-migration.
	Tables = []*schema.Table{
		AssessmentsTable,
		AssessmentSnapshotsTable,
		ScoreEventsTable,
		LlmRequestEventsTable,
		GlobalSequenceTable,
	}
)
