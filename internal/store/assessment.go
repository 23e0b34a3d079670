package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// assessmentRepo implements AssessmentRepo with the SQLite dialect builder.
type assessmentRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *assessmentRepo) Save(ctx context.Context, rec AssessmentRecord, data json.RawMessage) (*AssessmentSnapshot, error) {
	if rec.ID == "" {
		return nil, fmt.Errorf("save assessment: empty ID")
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("next sequence: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	query, args := builder().Insert(AssessmentsTable.Name).
		Columns("id", "name", "created_at", "updated_at").
		Values(rec.ID, rec.Name, rec.CreatedAt, rec.UpdatedAt).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("name")
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("upsert assessment: %w", err)
	}

	query, args = builder().Insert(AssessmentSnapshotsTable.Name).
		Columns("assessment_id", "sequence", "timestamp", "data").
		Values(rec.ID, seqNum, rec.UpdatedAt, string(data)).
		Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("snapshot id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &AssessmentSnapshot{
		ID:           int(id),
		AssessmentID: rec.ID,
		Sequence:     seqNum,
		Timestamp:    rec.UpdatedAt,
		Data:         data,
	}, nil
}

func (r *assessmentRepo) Get(ctx context.Context, id string) (*AssessmentRecord, error) {
	query, args := builder().Select("id", "name", "created_at", "updated_at").
		From(entsql.Table(AssessmentsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	var rec AssessmentRecord
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&rec.ID, &rec.Name, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query assessment: %w", err)
	}
	return &rec, nil
}

func (r *assessmentRepo) Latest(ctx context.Context, id string) (*AssessmentSnapshot, error) {
	query, args := builder().Select("id", "assessment_id", "sequence", "timestamp", "data").
		From(entsql.Table(AssessmentSnapshotsTable.Name)).
		Where(entsql.EQ("assessment_id", id)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()

	var (
		snap AssessmentSnapshot
		data []byte
	)
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&snap.ID, &snap.AssessmentID, &snap.Sequence, &snap.Timestamp, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	snap.Data = json.RawMessage(data)
	return &snap, nil
}

func (r *assessmentRepo) List(ctx context.Context, opts QueryOpts) ([]AssessmentRecord, error) {
	sel := builder().Select("id", "name", "created_at", "updated_at").
		From(entsql.Table(AssessmentsTable.Name)).
		OrderBy(entsql.Desc("updated_at"))
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("updated_at", opts.From))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("updated_at", opts.To))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var out []AssessmentRecord
	for rows.Next() {
		var rec AssessmentRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *assessmentRepo) Prune(ctx context.Context, id string, keep int) error {
	// Find the ID threshold: the (keep+1)th most recent snapshot.
	query, args := builder().Select("id").
		From(entsql.Table(AssessmentSnapshotsTable.Name)).
		Where(entsql.EQ("assessment_id", id)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Offset(keep).
		Query()

	var threshold int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil // fewer than keep snapshots exist
		}
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	query, args = builder().Delete(AssessmentSnapshotsTable.Name).
		Where(entsql.And(
			entsql.EQ("assessment_id", id),
			entsql.LTE("id", threshold),
		)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func (r *assessmentRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	query, args := builder().Delete(AssessmentSnapshotsTable.Name).
		Where(entsql.EQ("assessment_id", id)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}

	query, args = builder().Delete(AssessmentsTable.Name).
		Where(entsql.EQ("id", id)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete assessment: %w", err)
	}
	return tx.Commit()
}
