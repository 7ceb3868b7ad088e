package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"recipe-service/models"
)

// CreateIngredient inserts in and sets its ID
func (s *Store) CreateIngredient(ctx context.Context, in *models.Ingredient) error {
	result, err := s.db.ExecContext(ctx, "INSERT INTO ingredients (text) VALUES (?)", in.Text)
	if err != nil {
		return fmt.Errorf("failed to insert ingredient: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read ingredient id: %w", err)
	}
	in.ID = int(id)
	return nil
}

// GetIngredient retrieves an ingredient by primary key
func (s *Store) GetIngredient(ctx context.Context, id int) (*models.Ingredient, error) {
	var in models.Ingredient
	if err := s.db.GetContext(ctx, &in, "SELECT id, text FROM ingredients WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &in, nil
}

// ListIngredients returns one page of ingredients matching q and the total match count
func (s *Store) ListIngredients(ctx context.Context, q models.ListQuery) ([]models.Ingredient, int, error) {
	var f filter
	f.search(q.Search, "text")

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM ingredients"+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count ingredients: %w", err)
	}

	order := " ORDER BY id"
	if q.OrderBy == "name" {
		order = " ORDER BY text, id"
	}
	limit, limitArgs := paginate(q.Limit, q.Offset)

	ingredients := []models.Ingredient{}
	query := "SELECT id, text FROM ingredients" + f.where() + order + limit
	if err := s.db.SelectContext(ctx, &ingredients, query, append(f.args, limitArgs...)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, total, nil
}

// UpdateIngredient rewrites the text of an existing ingredient
func (s *Store) UpdateIngredient(ctx context.Context, in *models.Ingredient) error {
	result, err := s.db.ExecContext(ctx, "UPDATE ingredients SET text = ? WHERE id = ?", in.Text, in.ID)
	if err != nil {
		return fmt.Errorf("failed to update ingredient: %w", err)
	}
	return requireRow(result)
}

// DeleteIngredient removes an ingredient and unlinks it from recipes
func (s *Store) DeleteIngredient(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM ingredients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	return requireRow(result)
}

// MissingIngredientIDs returns the ids that do not name an existing ingredient
func (s *Store) MissingIngredientIDs(ctx context.Context, ids []int) ([]int, error) {
	return s.missingIDs(ctx, "ingredients", ids)
}
