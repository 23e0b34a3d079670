package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := OpenMemory(name)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"assessments", "assessment_snapshots", "score_events", "llm_request_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestAssessmentSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.AssessmentRepo()
	ctx := context.Background()

	// No snapshot yet.
	snap, err := repo.Latest(ctx, "a1")
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	created := time.Now().UTC().Truncate(time.Second)
	saved, err := repo.Save(ctx, AssessmentRecord{
		ID:        "a1",
		Name:      "Acme",
		CreatedAt: created,
		UpdatedAt: created,
	}, json.RawMessage(`{"version":1}`))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Sequence < 1 {
		t.Errorf("sequence = %d, want >= 1", saved.Sequence)
	}

	snap, err = repo.Latest(ctx, "a1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil {
		t.Fatal("expected non-nil snapshot")
	}
	if snap.Sequence != saved.Sequence {
		t.Errorf("sequence = %d, want %d", snap.Sequence, saved.Sequence)
	}
	var data map[string]int
	if err := json.Unmarshal(snap.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if data["version"] != 1 {
		t.Errorf("data.version = %d, want 1", data["version"])
	}

	rec, err := repo.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec == nil || rec.Name != "Acme" {
		t.Fatalf("get = %+v, want Acme", rec)
	}
	if !rec.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", rec.CreatedAt, created)
	}
}

func TestAssessmentSaveKeepsCreatedAt(t *testing.T) {
	s := openTestStore(t)
	repo := s.AssessmentRepo()
	ctx := context.Background()

	created := time.Now().UTC().Truncate(time.Second)
	rec := AssessmentRecord{ID: "a1", Name: "First", CreatedAt: created, UpdatedAt: created}
	if _, err := repo.Save(ctx, rec, json.RawMessage(`{}`)); err != nil {
		t.Fatalf("save: %v", err)
	}

	rec.Name = "Renamed"
	rec.CreatedAt = created.Add(time.Hour)
	rec.UpdatedAt = created.Add(time.Hour)
	if _, err := repo.Save(ctx, rec, json.RawMessage(`{}`)); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := repo.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Renamed" {
		t.Errorf("name = %q, want Renamed", got.Name)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want original %v", got.CreatedAt, created)
	}
	if !got.UpdatedAt.Equal(created.Add(time.Hour)) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, created.Add(time.Hour))
	}
}

func TestAssessmentLatestReturnsNewest(t *testing.T) {
	s := openTestStore(t)
	repo := s.AssessmentRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		data := json.RawMessage(fmt.Sprintf(`{"version":%d}`, i+1))
		if _, err := repo.Save(ctx, AssessmentRecord{ID: "a1", Name: "Acme"}, data); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	snap, err := repo.Latest(ctx, "a1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if string(snap.Data) != `{"version":3}` {
		t.Errorf("data = %s, want version 3", snap.Data)
	}
}

func countSnapshots(t *testing.T, s *Store, id string) int {
	t.Helper()
	var n int
	err := s.DB().QueryRow("SELECT COUNT(*) FROM assessment_snapshots WHERE assessment_id = ?", id).Scan(&n)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestAssessmentPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.AssessmentRepo()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if _, err := repo.Save(ctx, AssessmentRecord{ID: "a1"}, json.RawMessage(fmt.Sprintf(`{"n":%d}`, i))); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if _, err := repo.Save(ctx, AssessmentRecord{ID: "other"}, json.RawMessage(`{}`)); err != nil {
		t.Fatalf("save other: %v", err)
	}

	if err := repo.Prune(ctx, "a1", 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	if n := countSnapshots(t, s, "a1"); n != 5 {
		t.Errorf("remaining snapshots = %d, want 5", n)
	}
	if n := countSnapshots(t, s, "other"); n != 1 {
		t.Errorf("other assessment snapshots = %d, want 1", n)
	}

	snap, err := repo.Latest(ctx, "a1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if string(snap.Data) != `{"n":6}` {
		t.Errorf("latest data = %s, want n=6", snap.Data)
	}
}

func TestAssessmentPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.AssessmentRepo()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := repo.Save(ctx, AssessmentRecord{ID: "a1"}, json.RawMessage(`{}`)); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	if err := repo.Prune(ctx, "a1", 5); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n := countSnapshots(t, s, "a1"); n != 2 {
		t.Errorf("remaining snapshots = %d, want 2", n)
	}
}

func TestAssessmentListAndDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.AssessmentRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"old", "mid", "new"} {
		ts := base.Add(time.Duration(i) * time.Minute)
		rec := AssessmentRecord{ID: id, Name: id, CreatedAt: ts, UpdatedAt: ts}
		if _, err := repo.Save(ctx, rec, json.RawMessage(`{}`)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	list, err := repo.List(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].ID != "new" || list[2].ID != "old" {
		t.Fatalf("list order = %+v, want new, mid, old", list)
	}

	limited, err := repo.List(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("list limit: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited list len = %d, want 1", len(limited))
	}

	if err := repo.Delete(ctx, "mid"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rec, err := repo.Get(ctx, "mid")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Error("expected deleted assessment to be gone")
	}
	if n := countSnapshots(t, s, "mid"); n != 0 {
		t.Errorf("snapshots of deleted assessment = %d, want 0", n)
	}
}

func TestScoreEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []ScoreEventData{
		{AssessmentID: "a1", AxisID: 1, AreaID: "1A", Operation: "toggle", Kind: "actual", Level: 2, ActualMask: 0b10, AxisActual: 1},
		{AssessmentID: "a1", AxisID: 1, AreaID: "1A", Operation: "toggle", Kind: "actual", Level: 4, ActualMask: 0b1010, AxisActual: 2},
		{AssessmentID: "a2", AxisID: 3, Operation: "set", Kind: "target", Level: 5, AxisTarget: 5},
		{AssessmentID: "a1", AxisID: 1, AreaID: "1A", Operation: "clear", Level: 2, ActualMask: 0b1000, AxisActual: 1},
	}
	for _, e := range events {
		if err := repo.AppendScoreEvent(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryScoreEvents(ctx, "a1", QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("events = %d, want 3", len(got))
	}
	if got[1].ActualMask != 0b1010 || got[1].Level != 4 {
		t.Errorf("second event = %+v", got[1].ScoreEventData)
	}
	if got[2].Operation != "clear" {
		t.Errorf("last operation = %q, want clear", got[2].Operation)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Sequence <= got[i-1].Sequence {
			t.Errorf("events not in sequence order: %d then %d", got[i-1].Sequence, got[i].Sequence)
		}
	}

	after, err := repo.QueryScoreEvents(ctx, "a1", QueryOpts{After: got[0].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("events after first = %d, want 2", len(after))
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, ok := range []bool{true, false} {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "mock",
			Model:        "mock",
			Purpose:      "level-suggestion",
			InputTokens:  10 * (i + 1),
			OutputTokens: 5,
			LatencyMs:    42,
			Success:      ok,
			RequestBody:  "[user]\nsuggest",
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("events = %d, want 2", len(got))
	}
	// Newest first.
	if got[0].Success || got[0].InputTokens != 20 {
		t.Errorf("newest event = %+v", got[0].LLMRequestEventData)
	}
	if got[1].RequestBody != "[user]\nsuggest" {
		t.Errorf("request body = %q", got[1].RequestBody)
	}
}

func TestLLMEventLookupAndUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Model: "a", Purpose: "level-suggestion", InputTokens: 100, OutputTokens: 10, LatencyMs: 200, Success: true},
		{Model: "a", Purpose: "level-suggestion", InputTokens: 50, OutputTokens: 20, LatencyMs: 400, Success: false},
		{Model: "b", Purpose: "other", InputTokens: 7, OutputTokens: 3, LatencyMs: 10, Success: true},
	}
	for i, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "level-suggestion"})
	if err != nil {
		t.Fatalf("query by purpose: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("level-suggestion events = %d, want 2", len(filtered))
	}

	got, err := repo.GetLLMEvent(ctx, all[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Purpose != "other" {
		t.Fatalf("get newest = %+v", got)
	}
	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Fatalf("get missing = %+v, %v", missing, err)
	}

	usage, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	want := []LLMUsage{
		{Purpose: "level-suggestion", Calls: 2, Failures: 1, InputTokens: 150, OutputTokens: 30, AvgLatencyMs: 300},
		{Purpose: "other", Calls: 1, InputTokens: 7, OutputTokens: 3, AvgLatencyMs: 10},
	}
	if len(usage) != len(want) {
		t.Fatalf("usage rows = %d, want %d", len(usage), len(want))
	}
	for i := range want {
		if usage[i] != want[i] {
			t.Errorf("usage[%d] = %+v, want %+v", i, usage[i], want[i])
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}
