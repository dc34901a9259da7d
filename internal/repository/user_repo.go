package repository

import (
	"budget_tracker/internal/models"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserSQLite)(nil)

const (
	insertUserSQL = `INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)`
	selectUserSQL = `SELECT id, username, email, password_hash, created_at FROM users WHERE `

	deleteUserTransactionsSQL = `DELETE FROM transactions WHERE user_id = ?`
	deleteUserCategoriesSQL   = `DELETE FROM categories WHERE user_id = ?`
	deleteUserSessionsSQL     = `DELETE FROM sessions WHERE user_id = ?`
	deleteUserSQL             = `DELETE FROM users WHERE id = ?`
)

// Create inserts a new user and returns its ID.
func (r *UserSQLite) Create(ctx context.Context, username, email, passwordHash string, createdAt time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, username, email, passwordHash, createdAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert user %q: %w", username, ErrDuplicate)
		}
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByID fetches a user by ID. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.getOne(ctx, selectUserSQL+"id = ?", id)
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, selectUserSQL+"username = ?", username)
}

func (r *UserSQLite) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

// Delete removes the user together with all owned transactions, categories
// and sessions. Everything commits or nothing does.
func (r *UserSQLite) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete user %d: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	// Transactions first so the category RESTRICT never fires.
	for _, stmt := range []string{
		deleteUserTransactionsSQL,
		deleteUserCategoriesSQL,
		deleteUserSessionsSQL,
		deleteUserSQL,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete user %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete user %d: %w", id, err)
	}
	return nil
}
