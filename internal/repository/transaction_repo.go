package repository

import (
	"budget_tracker/internal/models"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type TransactionSQLite struct {
	db *sql.DB
}

func NewTransactionSQLite(db *sql.DB) *TransactionSQLite { return &TransactionSQLite{db: db} }

var _ Transactions = (*TransactionSQLite)(nil)

const (
	checkCategoryOwnerSQL = `SELECT COUNT(1) FROM categories WHERE user_id = ? AND id = ?`

	insertTransactionSQL = `
		INSERT INTO transactions (user_id, category_id, amount_cents, occurred_on, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectTransactionSQL = `
		SELECT t.id, t.user_id, t.category_id, c.name, t.amount_cents, t.occurred_on, t.description, t.created_at
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ? AND t.id = ?
	`

	updateTransactionSQL = `
		UPDATE transactions
		SET category_id = ?, amount_cents = ?, occurred_on = ?, description = ?
		WHERE user_id = ? AND id = ?
	`

	deleteTransactionSQL = `DELETE FROM transactions WHERE user_id = ? AND id = ?`
)

// Create verifies category ownership and inserts in one database
// transaction, so a foreign category never leaves a partial write behind.
func (t *TransactionSQLite) Create(ctx context.Context, tr models.Transaction) (int, error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := checkCategoryOwner(ctx, tx, tr.UserID, tr.CategoryID); err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, insertTransactionSQL,
		tr.UserID, tr.CategoryID, tr.AmountCents,
		tr.OccurredOn.UTC(), tr.Description, tr.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert transaction: %w", err)
	}
	return int(lastID), nil
}

// GetByID fetches one of the user's transactions. Returns (nil, nil) if the
// row does not exist or belongs to someone else.
func (t *TransactionSQLite) GetByID(ctx context.Context, userID, id int) (*models.Transaction, error) {
	row := t.db.QueryRowContext(ctx, selectTransactionSQL, userID, id)
	tr, err := scanTransaction(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select transaction: %w", err)
	}
	return tr, nil
}

// List returns the user's transactions newest first, optionally narrowed by
// date range and category, together with the aggregate totals of the same
// filtered set. Rows and totals are read in one database transaction so a
// concurrent write cannot make them disagree.
func (t *TransactionSQLite) List(ctx context.Context, userID int, f TxFilter) ([]models.Transaction, models.Totals, error) {
	conds := []string{"t.user_id = ?"}
	args := []any{userID}

	if !f.From.IsZero() {
		conds = append(conds, "t.occurred_on >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		conds = append(conds, "t.occurred_on <= ?")
		args = append(args, f.To.UTC())
	}
	if f.CategoryID != 0 {
		conds = append(conds, "t.category_id = ?")
		args = append(args, f.CategoryID)
	}
	where := strings.Join(conds, " AND ")

	q := `
		SELECT t.id, t.user_id, t.category_id, c.name, t.amount_cents, t.occurred_on, t.description, t.created_at
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE ` + where + `
		ORDER BY t.occurred_on DESC, t.id DESC
	`

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, models.Totals{}, fmt.Errorf("begin list transactions: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, models.Totals{}, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]models.Transaction, 0, 64)
	for rows.Next() {
		tr, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, models.Totals{}, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, *tr)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Totals{}, fmt.Errorf("list transactions: %w", err)
	}

	totals, err := totalsWithin(ctx, tx, where, args)
	if err != nil {
		return nil, models.Totals{}, err
	}
	if err := tx.Commit(); err != nil {
		return nil, models.Totals{}, fmt.Errorf("commit list transactions: %w", err)
	}
	return out, totals, nil
}

// Update rewrites the row, re-verifying ownership of both the transaction
// and the (possibly reassigned) category in the same database transaction.
func (t *TransactionSQLite) Update(ctx context.Context, tr models.Transaction) (bool, error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin update transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := checkCategoryOwner(ctx, tx, tr.UserID, tr.CategoryID); err != nil {
		return false, err
	}

	res, err := tx.ExecContext(ctx, updateTransactionSQL,
		tr.CategoryID, tr.AmountCents, tr.OccurredOn.UTC(), tr.Description,
		tr.UserID, tr.ID)
	if err != nil {
		return false, fmt.Errorf("update transaction %d: %w", tr.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update transaction rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit update transaction %d: %w", tr.ID, err)
	}
	return n > 0, nil
}

// Delete removes one of the user's transactions; reports whether a row matched.
func (t *TransactionSQLite) Delete(ctx context.Context, userID, id int) (bool, error) {
	res, err := t.db.ExecContext(ctx, deleteTransactionSQL, userID, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete transaction rows affected: %w", err)
	}
	return n > 0, nil
}

// totalsWithin computes income/expense/net sums over the same WHERE clause
// used for the listing, inside the listing's read transaction.
func totalsWithin(ctx context.Context, q execer, where string, args []any) (models.Totals, error) {
	sumQ := `
		SELECT
			COALESCE(SUM(CASE WHEN t.amount_cents > 0 THEN t.amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN t.amount_cents < 0 THEN t.amount_cents ELSE 0 END), 0),
			COALESCE(SUM(t.amount_cents), 0)
		FROM transactions t
		WHERE ` + where

	var totals models.Totals
	if err := q.QueryRowContext(ctx, sumQ, args...).
		Scan(&totals.IncomeCents, &totals.ExpenseCents, &totals.NetCents); err != nil {
		return models.Totals{}, fmt.Errorf("sum transactions: %w", err)
	}
	totals.Format()
	return totals, nil
}

// execer covers both *sql.DB and *sql.Tx for single-row reads.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func checkCategoryOwner(ctx context.Context, q execer, userID, categoryID int) error {
	var n int
	if err := q.QueryRowContext(ctx, checkCategoryOwnerSQL, userID, categoryID).Scan(&n); err != nil {
		return fmt.Errorf("check category owner: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("category %d for user %d: %w", categoryID, userID, ErrCategoryMissing)
	}
	return nil
}

func scanTransaction(scan func(dest ...any) error) (*models.Transaction, error) {
	var (
		tr   models.Transaction
		desc sql.NullString
	)
	if err := scan(&tr.ID, &tr.UserID, &tr.CategoryID, &tr.CategoryName,
		&tr.AmountCents, &tr.OccurredOn, &desc, &tr.CreatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		tr.Description = desc.String
	}
	tr.OccurredOn = tr.OccurredOn.UTC()
	tr.CreatedAt = tr.CreatedAt.UTC()
	tr.Amount = models.FormatAmount(tr.AmountCents)
	return &tr, nil
}
