package service

import (
	"context"
	"time"

	"budget_tracker/internal/models"
	"budget_tracker/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, email, password string) (int, error)
	SignIn(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, token string) (int, error)
	SignOut(ctx context.Context, token string) error
	GetUser(ctx context.Context, userID int) (*models.User, error)
	DeleteAccount(ctx context.Context, userID int) error
}

// Categories exposes CRUD over the authenticated user's categories.
type Categories interface {
	List(ctx context.Context, userID int) ([]models.Category, error)
	Create(ctx context.Context, userID int, name, ctype string) (int, error)
	Update(ctx context.Context, userID, id int, name, ctype string) error
	Delete(ctx context.Context, userID, id int) error
}

// TxFilter narrows transaction listings; zero values mean "no bound".
type TxFilter struct {
	From       time.Time
	To         time.Time
	CategoryID int
}

type Transactions interface {
	List(ctx context.Context, userID int, f TxFilter) ([]models.Transaction, models.Totals, error)
	Create(ctx context.Context, userID int, p TxParams) (int, error)
	Update(ctx context.Context, userID, id int, p TxParams) error
	Delete(ctx context.Context, userID, id int) error
}

// TxParams is the client-supplied shape of a transaction write. Amount is a
// signed decimal string ("-42.50"); income positive, expense negative.
type TxParams struct {
	CategoryID  int
	Amount      string
	OccurredOn  time.Time
	Description string
}

// Feed delivers a user's transaction mutations to live subscribers.
type Feed interface {
	Subscribe(userID int) (<-chan models.FeedEvent, func())
}

// AuthConfig carries the token signing material from configuration.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

type Service struct {
	Authorization
	Categories
	Transactions
	Feed
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg AuthConfig) *Service {
	feed := NewTransactionFeed()
	return &Service{
		Authorization: NewAuthService(repos.Users, repos.Sessions, cfg),
		Categories:    NewCategoryService(repos.Categories),
		Transactions:  NewTransactionService(repos.Transactions, feed),
		Feed:          feed,
	}
}
