package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound indicates that no row matched the given key
	ErrNotFound = errors.New("record not found")

	// ErrInvalidReference indicates a foreign key pointing at a missing row
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// UniqueViolationError is returned when a write collides with a unique column
type UniqueViolationError struct {
	Table string
	Field string
}

func (e *UniqueViolationError) Error() string {
	if e.Field == "" {
		return "unique constraint violated"
	}
	return fmt.Sprintf("unique constraint violated: %s.%s", e.Table, e.Field)
}

// mapError translates SQLite constraint failures into package errors
func mapError(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique:
		table, field := uniqueColumn(sqliteErr.Error())
		return &UniqueViolationError{Table: table, Field: field}
	case sqlite3.ErrConstraintForeignKey:
		return ErrInvalidReference
	}
	return err
}

// uniqueColumn extracts "users", "email" from
// "UNIQUE constraint failed: users.email"
func uniqueColumn(msg string) (string, string) {
	const prefix = "UNIQUE constraint failed: "
	i := strings.Index(msg, prefix)
	if i < 0 {
		return "", ""
	}
	column := strings.TrimSpace(msg[i+len(prefix):])
	if comma := strings.Index(column, ","); comma >= 0 {
		column = column[:comma]
	}
	table, field, ok := strings.Cut(column, ".")
	if !ok {
		return "", column
	}
	return table, field
}
