package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Store is the persistence layer for users, recipes, steps and ingredients
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open connection whose schema is already migrated
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Stats holds row counts for the admin index page
type Stats struct {
	Users       int
	Recipes     int
	Steps       int
	Ingredients int
}

// Stats counts the rows of every record table
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.GetContext(ctx, &st.Users, "SELECT COUNT(*) FROM users")
	if err == nil {
		err = s.db.GetContext(ctx, &st.Recipes, "SELECT COUNT(*) FROM recipes")
	}
	if err == nil {
		err = s.db.GetContext(ctx, &st.Steps, "SELECT COUNT(*) FROM steps")
	}
	if err == nil {
		err = s.db.GetContext(ctx, &st.Ingredients, "SELECT COUNT(*) FROM ingredients")
	}
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count records: %w", err)
	}
	return st, nil
}

// filter accumulates WHERE conditions and their arguments
type filter struct {
	conds []string
	args  []interface{}
}

func (f *filter) add(cond string, args ...interface{}) {
	f.conds = append(f.conds, cond)
	f.args = append(f.args, args...)
}

// search matches term as a case-insensitive substring of any column
func (f *filter) search(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	pattern := "%" + escapeLike(term) + "%"
	parts := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, c+` LIKE ? ESCAPE '\'`)
		args = append(args, pattern)
	}
	f.add("("+strings.Join(parts, " OR ")+")", args...)
}

func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func paginate(limit, offset int) (string, []interface{}) {
	if limit <= 0 {
		return "", nil
	}
	if offset < 0 {
		offset = 0
	}
	return " LIMIT ? OFFSET ?", []interface{}{limit, offset}
}

// missingIDs returns the ids absent from table, in request order, without duplicates
func (s *Store) missingIDs(ctx context.Context, table string, ids []int) ([]int, error) {
	ids = unique(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In("SELECT id FROM "+table+" WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build id lookup: %w", err)
	}

	var found []int
	if err := s.db.SelectContext(ctx, &found, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", table, err)
	}

	present := make(map[int]bool, len(found))
	for _, id := range found {
		present[id] = true
	}

	var missing []int
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func unique(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
