package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"recipe-service/models"
)

// CreateStep inserts st and sets its ID
func (s *Store) CreateStep(ctx context.Context, st *models.Step) error {
	result, err := s.db.ExecContext(ctx, "INSERT INTO steps (step_text) VALUES (?)", st.StepText)
	if err != nil {
		return fmt.Errorf("failed to insert step: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read step id: %w", err)
	}
	st.ID = int(id)
	return nil
}

// GetStep retrieves a step by primary key
func (s *Store) GetStep(ctx context.Context, id int) (*models.Step, error) {
	var st models.Step
	if err := s.db.GetContext(ctx, &st, "SELECT id, step_text FROM steps WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get step: %w", err)
	}
	return &st, nil
}

// ListSteps returns one page of steps matching q and the total match count
func (s *Store) ListSteps(ctx context.Context, q models.ListQuery) ([]models.Step, int, error) {
	var f filter
	f.search(q.Search, "step_text")

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM steps"+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count steps: %w", err)
	}

	order := " ORDER BY id"
	if q.OrderBy == "name" {
		order = " ORDER BY step_text, id"
	}
	limit, limitArgs := paginate(q.Limit, q.Offset)

	steps := []models.Step{}
	query := "SELECT id, step_text FROM steps" + f.where() + order + limit
	if err := s.db.SelectContext(ctx, &steps, query, append(f.args, limitArgs...)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list steps: %w", err)
	}
	return steps, total, nil
}

// UpdateStep rewrites the text of an existing step
func (s *Store) UpdateStep(ctx context.Context, st *models.Step) error {
	result, err := s.db.ExecContext(ctx, "UPDATE steps SET step_text = ? WHERE id = ?", st.StepText, st.ID)
	if err != nil {
		return fmt.Errorf("failed to update step: %w", err)
	}
	return requireRow(result)
}

// DeleteStep removes a step and unlinks it from recipes
func (s *Store) DeleteStep(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM steps WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete step: %w", err)
	}
	return requireRow(result)
}

// MissingStepIDs returns the ids that do not name an existing step
func (s *Store) MissingStepIDs(ctx context.Context, ids []int) ([]int, error) {
	return s.missingIDs(ctx, "steps", ids)
}
