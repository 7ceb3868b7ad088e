package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"recipe-service/models"
)

const userColumns = "id, first_name, last_name, email, username, password, is_active, created, modified"

// CreateUser inserts u and sets its ID
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	result, err := s.db.NamedExecContext(ctx, `
		INSERT INTO users (first_name, last_name, email, username, password, is_active, created, modified)
		VALUES (:first_name, :last_name, :email, :username, :password, :is_active, :created, :modified)`, u)
	if err != nil {
		if mapped := mapError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	u.ID = int(id)
	return nil
}

// GetUserByID retrieves a user by primary key
func (s *Store) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

// GetUserByUsername retrieves a user by its unique username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, "username = ?", username)
}

// GetUserByEmail retrieves a user by its unique email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

func (s *Store) getUser(ctx context.Context, cond string, arg interface{}) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE "+cond, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// UpdateUser writes every mutable column of u; created is never touched
func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	result, err := s.db.NamedExecContext(ctx, `
		UPDATE users
		SET first_name = :first_name, last_name = :last_name, email = :email, username = :username,
			password = :password, is_active = :is_active, modified = :modified
		WHERE id = :id`, u)
	if err != nil {
		if mapped := mapError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRow(result)
}

// DeleteUser removes a user; its recipes are removed by cascade
func (s *Store) DeleteUser(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRow(result)
}

// ListUsers returns one page of users matching q and the total match count
func (s *Store) ListUsers(ctx context.Context, q models.UserQuery) ([]models.User, int, error) {
	var f filter
	f.search(q.Search, "first_name", "last_name", "username", "email")
	if q.IsActive != nil {
		f.add("is_active = ?", *q.IsActive)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users"+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	order := " ORDER BY id"
	if q.OrderBy == "name" {
		order = " ORDER BY first_name, last_name, id"
	}
	limit, limitArgs := paginate(q.Limit, q.Offset)

	users := []models.User{}
	query := "SELECT " + userColumns + " FROM users" + f.where() + order + limit
	if err := s.db.SelectContext(ctx, &users, query, append(f.args, limitArgs...)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
