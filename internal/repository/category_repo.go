package repository

import (
	"budget_tracker/internal/models"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type CategorySQLite struct {
	db *sql.DB
}

func NewCategorySQLite(db *sql.DB) *CategorySQLite { return &CategorySQLite{db: db} }

var _ Categories = (*CategorySQLite)(nil)

// Every statement carries user_id so a category is never reachable through
// another user's requests, whatever IDs the client supplies.
const (
	insertCategorySQL = `INSERT INTO categories (user_id, name, type) VALUES (?, ?, ?)`
	selectCategorySQL = `SELECT id, user_id, name, type FROM categories WHERE user_id = ? AND id = ?`
	listCategoriesSQL = `SELECT id, user_id, name, type FROM categories WHERE user_id = ? ORDER BY name ASC`
	updateCategorySQL = `UPDATE categories SET name = ?, type = ? WHERE user_id = ? AND id = ?`
	deleteCategorySQL = `DELETE FROM categories WHERE user_id = ? AND id = ?`

	countCategoryRefsSQL = `SELECT COUNT(1) FROM transactions WHERE user_id = ? AND category_id = ?`
)

// Create inserts a new category and returns its ID. A name already used by
// the same owner yields ErrDuplicate.
func (r *CategorySQLite) Create(ctx context.Context, c models.Category) (int, error) {
	res, err := r.db.ExecContext(ctx, insertCategorySQL, c.UserID, c.Name, c.Type)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert category %q: %w", c.Name, ErrDuplicate)
		}
		return 0, fmt.Errorf("insert category %q: %w", c.Name, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for category %q: %w", c.Name, err)
	}
	return int(lastID), nil
}

// GetByID fetches one of the user's categories. Returns (nil, nil) if the
// category does not exist or belongs to someone else.
func (r *CategorySQLite) GetByID(ctx context.Context, userID, id int) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRowContext(ctx, selectCategorySQL, userID, id).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select category: %w", err)
	}
	return &c, nil
}

func (r *CategorySQLite) List(ctx context.Context, userID int) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, listCategoriesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]models.Category, 0, 16)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// Update renames/retypes one of the user's categories; reports whether a
// row matched.
func (r *CategorySQLite) Update(ctx context.Context, userID, id int, name, ctype string) (bool, error) {
	res, err := r.db.ExecContext(ctx, updateCategorySQL, name, ctype, userID, id)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("update category %d: %w", id, ErrDuplicate)
		}
		return false, fmt.Errorf("update category %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update category rows affected: %w", err)
	}
	return n > 0, nil
}

// Delete removes one of the user's categories. A category still referenced
// by transactions yields ErrReferenced with zero side effects; the check
// and the delete run in one transaction, with the schema-level RESTRICT as
// backstop.
func (r *CategorySQLite) Delete(ctx context.Context, userID, id int) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete category %d: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	var refs int
	if err := tx.QueryRowContext(ctx, countCategoryRefsSQL, userID, id).Scan(&refs); err != nil {
		return false, fmt.Errorf("count category %d references: %w", id, err)
	}
	if refs > 0 {
		return false, fmt.Errorf("delete category %d: %w", id, ErrReferenced)
	}

	res, err := tx.ExecContext(ctx, deleteCategorySQL, userID, id)
	if err != nil {
		if isFKViolation(err) {
			return false, fmt.Errorf("delete category %d: %w", id, ErrReferenced)
		}
		return false, fmt.Errorf("delete category %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete category rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete category %d: %w", id, err)
	}
	return n > 0, nil
}
