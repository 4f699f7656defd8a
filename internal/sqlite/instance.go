package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/closing-timeline/internal/domain/contingency"
	"github.com/rpggio/closing-timeline/internal/domain/instance"
	"github.com/rpggio/closing-timeline/internal/repository"
)

// InstanceRepository implements instance.Repository for SQLite
type InstanceRepository struct {
	db *DB
}

var _ instance.Repository = (*InstanceRepository)(nil)

// NewInstanceRepository creates a new InstanceRepository
func NewInstanceRepository(db *DB) *InstanceRepository {
	return &InstanceRepository{db: db}
}

// Create inserts a timeline and its contingencies
func (r *InstanceRepository) Create(ctx context.Context, inst *instance.Instance) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO timelines (id, name, mutual_date, closing_date, archived, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		inst.ID,
		inst.Name,
		inst.MutualDate,
		inst.ClosingDate,
		boolToInt(inst.Archived),
		inst.CreatedAt,
		inst.ModifiedAt,
	)
	if err != nil {
		return constraintError(err, "create timeline %s", inst.ID)
	}

	if err := insertContingencies(ctx, tx, inst.ID, inst.Contingencies); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get retrieves a timeline and its contingencies by ID
func (r *InstanceRepository) Get(ctx context.Context, id string) (*instance.Instance, error) {
	query := `
		SELECT id, name, mutual_date, closing_date, archived, created_at, modified_at
		FROM timelines
		WHERE id = ?
	`

	var inst instance.Instance
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&inst.ID,
		&inst.Name,
		&inst.MutualDate,
		&inst.ClosingDate,
		&inst.Archived,
		&inst.CreatedAt,
		&inst.ModifiedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get timeline: %w", err)
	}

	inst.Contingencies, err = r.listContingencies(ctx, id)
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// Update replaces a timeline row and its whole contingency list
func (r *InstanceRepository) Update(ctx context.Context, inst *instance.Instance) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE timelines
		SET name = ?, mutual_date = ?, closing_date = ?, archived = ?, modified_at = ?
		WHERE id = ?
	`
	result, err := tx.ExecContext(ctx, query,
		inst.Name,
		inst.MutualDate,
		inst.ClosingDate,
		boolToInt(inst.Archived),
		inst.ModifiedAt,
		inst.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update timeline: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM contingencies WHERE timeline_id = ?`, inst.ID); err != nil {
		return fmt.Errorf("failed to clear contingencies: %w", err)
	}
	if err := insertContingencies(ctx, tx, inst.ID, inst.Contingencies); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes a timeline; its contingencies cascade
func (r *InstanceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM timelines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete timeline: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns timeline summaries, most recently modified first
func (r *InstanceRepository) List(ctx context.Context, opts instance.ListOptions) ([]instance.Summary, error) {
	query := `
		SELECT
			t.id,
			t.name,
			t.mutual_date,
			t.closing_date,
			t.archived,
			t.created_at,
			t.modified_at,
			COUNT(c.id) AS contingency_count,
			COUNT(CASE WHEN c.status = 'completed' THEN 1 END) AS completed_count
		FROM timelines t
		LEFT JOIN contingencies c ON c.timeline_id = t.id
	`
	args := []interface{}{}
	if opts.Archived != nil {
		query += " WHERE t.archived = ?"
		args = append(args, boolToInt(*opts.Archived))
	}
	query += `
		GROUP BY t.id, t.name, t.mutual_date, t.closing_date, t.archived, t.created_at, t.modified_at
		ORDER BY t.modified_at DESC, t.id
	`
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list timelines: %w", err)
	}
	defer rows.Close()

	var summaries []instance.Summary
	for rows.Next() {
		var s instance.Summary
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.MutualDate,
			&s.ClosingDate,
			&s.Archived,
			&s.CreatedAt,
			&s.ModifiedAt,
			&s.ContingencyCount,
			&s.CompletedCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan timeline summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeline rows: %w", err)
	}
	return summaries, nil
}

// Count returns the number of stored timelines, archived included
func (r *InstanceRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM timelines`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count timelines: %w", err)
	}
	return count, nil
}

func (r *InstanceRepository) listContingencies(ctx context.Context, timelineID string) ([]contingency.Contingency, error) {
	query := `
		SELECT
			id, name, description, type, days, fixed_date, start_date, end_date,
			is_possession_date, status, completed_date, sort_order
		FROM contingencies
		WHERE timeline_id = ?
		ORDER BY sort_order, id
	`

	rows, err := r.db.QueryContext(ctx, query, timelineID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contingencies: %w", err)
	}
	defer rows.Close()

	list := []contingency.Contingency{}
	for rows.Next() {
		var c contingency.Contingency
		var days sql.NullInt64
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Description,
			&c.Type,
			&days,
			&c.FixedDate,
			&c.StartDate,
			&c.EndDate,
			&c.IsPossessionDate,
			&c.Status,
			&c.CompletedDate,
			&c.Order,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contingency: %w", err)
		}
		if days.Valid {
			c.Days = contingency.IntPtr(int(days.Int64))
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contingency rows: %w", err)
	}
	return list, nil
}

func insertContingencies(ctx context.Context, tx *sql.Tx, timelineID string, list []contingency.Contingency) error {
	if len(list) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO contingencies (
			id, timeline_id, name, description, type, days, fixed_date, start_date,
			end_date, is_possession_date, status, completed_date, sort_order
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare contingency insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range list {
		var days sql.NullInt64
		if n, ok := c.DayCount(); ok {
			days = sql.NullInt64{Int64: int64(n), Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			c.ID,
			timelineID,
			c.Name,
			c.Description,
			c.Type,
			days,
			c.FixedDate,
			c.StartDate,
			c.EndDate,
			boolToInt(c.IsPossessionDate),
			c.Status,
			c.CompletedDate,
			c.Order,
		)
		if err != nil {
			return constraintError(err, "insert contingency %s", c.ID)
		}
	}
	return nil
}
