package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/habsync/internal/models"
	"github.com/desertthunder/habsync/internal/shared"
)

// SyncRunRepository persists sync run history rows.
//
// Rows are append-only; there is no update or delete path.
type SyncRunRepository struct {
	db *sql.DB
}

// NewSyncRunRepository creates a new SyncRunRepository with the given database connection
func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create inserts a new sync run with generated ID (if absent) and sequence
func (r *SyncRunRepository) Create(run *models.SyncRun) error {
	sequence, err := NextSequence(r.db, "sync_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	run.Sequence = sequence

	if run.ID == "" {
		run.ID = shared.GenerateID()
	}

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sync_runs (id, sequence, started_at, finished_at, habits, dailies, todos, rewards, completed, dropped, success, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID,
		run.Sequence,
		run.StartedAt,
		run.FinishedAt,
		run.Habits,
		run.Dailies,
		run.Todos,
		run.Rewards,
		run.Completed,
		run.Dropped,
		run.Success,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}

	return nil
}

// Get retrieves a sync run by ID
func (r *SyncRunRepository) Get(id string) (*models.SyncRun, error) {
	query := selectColumns + ` WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// Latest returns the most recently started run, or nil when the history is empty
func (r *SyncRunRepository) Latest() (*models.SyncRun, error) {
	query := selectColumns + ` ORDER BY started_at DESC, sequence DESC LIMIT 1`
	run, err := r.scanOne(r.db.QueryRow(query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// List returns up to limit runs, newest first. A non-positive limit returns everything.
func (r *SyncRunRepository) List(limit int) ([]*models.SyncRun, error) {
	query := selectColumns + ` ORDER BY started_at DESC, sequence DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sync runs: %w", err)
	}

	return runs, nil
}

const selectColumns = `
	SELECT id, sequence, started_at, finished_at, habits, dailies, todos, rewards, completed, dropped, success, error
	FROM sync_runs
`

type scanner interface {
	Scan(dest ...any) error
}

func (r *SyncRunRepository) scanOne(row *sql.Row) (*models.SyncRun, error) {
	return scanRun(row)
}

func scanRun(s scanner) (*models.SyncRun, error) {
	run := &models.SyncRun{}
	err := s.Scan(
		&run.ID,
		&run.Sequence,
		&run.StartedAt,
		&run.FinishedAt,
		&run.Habits,
		&run.Dailies,
		&run.Todos,
		&run.Rewards,
		&run.Completed,
		&run.Dropped,
		&run.Success,
		&run.Error,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync run: %w", err)
	}
	return run, nil
}
