package service

import (
	"context"
	"errors"
	"time"

	"budget_tracker/internal/models"
	"budget_tracker/internal/repository"
)

// Publisher receives transaction mutations for live delivery.
type Publisher interface {
	Publish(userID int, ev models.FeedEvent)
}

// TransactionService owns transaction CRUD and the aggregate listing. The
// repository enforces per-user scoping and category ownership inside its
// write transactions; this layer validates input and translates errors.
type TransactionService struct {
	transactions repository.Transactions
	feed         Publisher
}

func NewTransactionService(transactions repository.Transactions, feed Publisher) *TransactionService {
	return &TransactionService{transactions: transactions, feed: feed}
}

func (s *TransactionService) List(ctx context.Context, userID int, f TxFilter) ([]models.Transaction, models.Totals, error) {
	return s.transactions.List(ctx, userID, repository.TxFilter{
		From:       f.From,
		To:         f.To,
		CategoryID: f.CategoryID,
	})
}

func (s *TransactionService) Create(ctx context.Context, userID int, p TxParams) (int, error) {
	tr, err := s.buildTransaction(userID, p)
	if err != nil {
		return 0, err
	}
	tr.CreatedAt = time.Now().UTC()

	id, err := s.transactions.Create(ctx, tr)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryMissing) {
			return 0, ErrInvalidCategory
		}
		return 0, err
	}
	s.publish(ctx, userID, models.FeedCreated, id)
	return id, nil
}

func (s *TransactionService) Update(ctx context.Context, userID, id int, p TxParams) error {
	tr, err := s.buildTransaction(userID, p)
	if err != nil {
		return err
	}
	tr.ID = id

	found, err := s.transactions.Update(ctx, tr)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryMissing) {
			return ErrInvalidCategory
		}
		return err
	}
	if !found {
		return ErrNotFound
	}
	s.publish(ctx, userID, models.FeedUpdated, id)
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id int) error {
	found, err := s.transactions.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	if s.feed != nil {
		s.feed.Publish(userID, models.FeedEvent{Type: models.FeedDeleted, Transaction: models.Transaction{ID: id, UserID: userID}})
	}
	return nil
}

func (s *TransactionService) buildTransaction(userID int, p TxParams) (models.Transaction, error) {
	if p.CategoryID <= 0 {
		return models.Transaction{}, ErrInvalidCategory
	}
	cents, err := models.ParseAmount(p.Amount)
	if err != nil {
		return models.Transaction{}, ErrInvalidAmount
	}
	occurred := p.OccurredOn
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	return models.Transaction{
		UserID:      userID,
		CategoryID:  p.CategoryID,
		AmountCents: cents,
		OccurredOn:  occurred.UTC(),
		Description: p.Description,
	}, nil
}

// publish fetches the stored row so subscribers see exactly what readers
// would. Best effort: a feed miss never fails the write.
func (s *TransactionService) publish(ctx context.Context, userID int, typ string, id int) {
	if s.feed == nil {
		return
	}
	tr, err := s.transactions.GetByID(ctx, userID, id)
	if err != nil || tr == nil {
		return
	}
	s.feed.Publish(userID, models.FeedEvent{Type: typ, Transaction: *tr})
}
