package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/hmchef/internal/errors"
	"github.com/hpungsan/hmchef/internal/recipe"
)

// ErrUniqueConstraint is returned when an insert reuses an existing id.
var ErrUniqueConstraint = &errors.ChefError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// Insert stores a recipe under its ID. createdAt is a Unix timestamp.
func Insert(ctx context.Context, db *sql.DB, r recipe.Recipe, createdAt int64) error {
	query := `
		INSERT INTO recipes (id, title, description, image, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query, r.ID, r.Title, r.Description, toNullString(r.Image), createdAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE or PRIMARY KEY violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}

// ListAll returns every recipe in insertion order.
func ListAll(ctx context.Context, db *sql.DB) ([]recipe.Recipe, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, title, description, image
		FROM recipes
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	items := []recipe.Recipe{}
	for rows.Next() {
		var (
			r     recipe.Recipe
			image sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &image); err != nil {
			return nil, errors.NewInternal(err)
		}
		r.Image = image.String
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return items, nil
}

// Count returns the number of stored recipes.
func Count(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM recipes").Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// toNullString maps an empty string to NULL.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
