package repository

import (
	"budget_tracker/internal/models"
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Sentinel errors translated from schema constraint failures. The service
// layer maps these onto its own domain error kinds.
var (
	// ErrDuplicate: a UNIQUE constraint rejected the write (username, email,
	// or category name per owner).
	ErrDuplicate = errors.New("duplicate record")
	// ErrCategoryMissing: the referenced category does not exist or belongs
	// to a different user.
	ErrCategoryMissing = errors.New("category missing or foreign")
	// ErrReferenced: the row is still referenced by transactions.
	ErrReferenced = errors.New("record still referenced")
)

type Users interface {
	Create(ctx context.Context, username, email, passwordHash string, createdAt time.Time) (int, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Delete removes the user and everything they own in one transaction.
	Delete(ctx context.Context, id int) error
}

type Sessions interface {
	Create(ctx context.Context, s models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteForUser(ctx context.Context, userID int) error
}

type Categories interface {
	Create(ctx context.Context, c models.Category) (int, error)
	GetByID(ctx context.Context, userID, id int) (*models.Category, error)
	List(ctx context.Context, userID int) ([]models.Category, error)
	Update(ctx context.Context, userID, id int, name, ctype string) (bool, error)
	Delete(ctx context.Context, userID, id int) (bool, error)
}

// TxFilter narrows transaction listings. Zero values mean "no bound".
type TxFilter struct {
	From       time.Time
	To         time.Time
	CategoryID int
}

type Transactions interface {
	// Create verifies the category belongs to the same user inside the
	// insert transaction; on mismatch nothing is persisted.
	Create(ctx context.Context, t models.Transaction) (int, error)
	GetByID(ctx context.Context, userID, id int) (*models.Transaction, error)
	List(ctx context.Context, userID int, f TxFilter) ([]models.Transaction, models.Totals, error)
	Update(ctx context.Context, t models.Transaction) (bool, error)
	Delete(ctx context.Context, userID, id int) (bool, error)
}

type Repository struct {
	Users        Users
	Sessions     Sessions
	Categories   Categories
	Transactions Transactions
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:        NewUserSQLite(db),
		Sessions:     NewSessionSQLite(db),
		Categories:   NewCategorySQLite(db),
		Transactions: NewTransactionSQLite(db),
	}
}

// isUniqueViolation matches SQLite's UNIQUE constraint error text; the
// driver exposes no typed error for it.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isFKViolation matches SQLite's foreign key constraint error text.
func isFKViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
