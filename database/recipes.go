package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"recipe-service/models"
)

// link tables between recipes and their steps / ingredients
var (
	stepLinks       = linkTable{table: "recipe_steps", column: "step_id"}
	ingredientLinks = linkTable{table: "recipe_ingredients", column: "ingredient_id"}
)

type linkTable struct {
	table  string
	column string
}

type linkRow struct {
	RecipeID int `db:"recipe_id"`
	RefID    int `db:"ref_id"`
}

// CreateRecipe inserts r with its step and ingredient links and sets its ID
func (s *Store) CreateRecipe(ctx context.Context, r *models.Recipe) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, "INSERT INTO recipes (name, user_id) VALUES (?, ?)", r.Name, r.UserID)
		if err != nil {
			if mapped := mapError(err); mapped != err {
				return mapped
			}
			return fmt.Errorf("failed to insert recipe: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read recipe id: %w", err)
		}
		r.ID = int(id)
		return s.writeLinks(ctx, tx, r)
	})
}

// UpdateRecipe replaces name, owner and links of an existing recipe
func (s *Store) UpdateRecipe(ctx context.Context, r *models.Recipe) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, "UPDATE recipes SET name = ?, user_id = ? WHERE id = ?", r.Name, r.UserID, r.ID)
		if err != nil {
			if mapped := mapError(err); mapped != err {
				return mapped
			}
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		if err := requireRow(result); err != nil {
			return err
		}
		for _, lt := range []linkTable{stepLinks, ingredientLinks} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+lt.table+" WHERE recipe_id = ?", r.ID); err != nil {
				return fmt.Errorf("failed to clear %s: %w", lt.table, err)
			}
		}
		return s.writeLinks(ctx, tx, r)
	})
}

func (s *Store) writeLinks(ctx context.Context, tx *sqlx.Tx, r *models.Recipe) error {
	r.Steps = unique(r.Steps)
	r.Ingredients = unique(r.Ingredients)

	for _, l := range []struct {
		lt  linkTable
		ids []int
	}{{stepLinks, r.Steps}, {ingredientLinks, r.Ingredients}} {
		for _, id := range l.ids {
			_, err := tx.ExecContext(ctx, "INSERT INTO "+l.lt.table+" (recipe_id, "+l.lt.column+") VALUES (?, ?)", r.ID, id)
			if err != nil {
				if mapped := mapError(err); mapped != err {
					return mapped
				}
				return fmt.Errorf("failed to link recipe: %w", err)
			}
		}
	}
	return nil
}

// GetRecipe retrieves a recipe with its step and ingredient ids
func (s *Store) GetRecipe(ctx context.Context, id int) (*models.Recipe, error) {
	var r models.Recipe
	err := s.db.GetContext(ctx, &r, "SELECT id, name, user_id FROM recipes WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	recipes := []models.Recipe{r}
	if err := s.loadLinks(ctx, recipes); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// ListRecipes returns one page of recipes matching q and the total match count
func (s *Store) ListRecipes(ctx context.Context, q models.ListQuery) ([]models.Recipe, int, error) {
	var f filter
	f.search(q.Search, "name")
	return s.listRecipes(ctx, f, q)
}

// ListRecipesByUser returns every recipe owned by userID
func (s *Store) ListRecipesByUser(ctx context.Context, userID int) ([]models.Recipe, error) {
	var f filter
	f.add("user_id = ?", userID)
	recipes, _, err := s.listRecipes(ctx, f, models.ListQuery{})
	return recipes, err
}

func (s *Store) listRecipes(ctx context.Context, f filter, q models.ListQuery) ([]models.Recipe, int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM recipes"+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	order := " ORDER BY id"
	if q.OrderBy == "name" {
		order = " ORDER BY name, id"
	}
	limit, limitArgs := paginate(q.Limit, q.Offset)

	recipes := []models.Recipe{}
	query := "SELECT id, name, user_id FROM recipes" + f.where() + order + limit
	if err := s.db.SelectContext(ctx, &recipes, query, append(f.args, limitArgs...)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	if err := s.loadLinks(ctx, recipes); err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// DeleteRecipe removes a recipe and its links
func (s *Store) DeleteRecipe(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return requireRow(result)
}

// loadLinks fills Steps and Ingredients for every recipe with one query per link table
func (s *Store) loadLinks(ctx context.Context, recipes []models.Recipe) error {
	index := make(map[int]int, len(recipes))
	ids := make([]int, 0, len(recipes))
	for i := range recipes {
		recipes[i].Steps = []int{}
		recipes[i].Ingredients = []int{}
		index[recipes[i].ID] = i
		ids = append(ids, recipes[i].ID)
	}
	if len(ids) == 0 {
		return nil
	}

	for _, lt := range []linkTable{stepLinks, ingredientLinks} {
		query, args, err := sqlx.In(
			"SELECT recipe_id, "+lt.column+" AS ref_id FROM "+lt.table+" WHERE recipe_id IN (?) ORDER BY recipe_id, "+lt.column, ids)
		if err != nil {
			return fmt.Errorf("failed to build %s query: %w", lt.table, err)
		}

		var rows []linkRow
		if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to load %s: %w", lt.table, err)
		}

		for _, row := range rows {
			r := &recipes[index[row.RecipeID]]
			if lt == stepLinks {
				r.Steps = append(r.Steps, row.RefID)
			} else {
				r.Ingredients = append(r.Ingredients, row.RefID)
			}
		}
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
