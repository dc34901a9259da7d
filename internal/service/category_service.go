package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budget_tracker/internal/models"
	"budget_tracker/internal/repository"
)

// CategoryService owns category CRUD. Every operation is scoped to the
// calling user; rows owned by someone else look exactly like missing rows.
type CategoryService struct {
	categories repository.Categories
}

func NewCategoryService(categories repository.Categories) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context, userID int) ([]models.Category, error) {
	return s.categories.List(ctx, userID)
}

func (s *CategoryService) Create(ctx context.Context, userID int, name, ctype string) (int, error) {
	name, ctype, err := normalizeCategory(name, ctype)
	if err != nil {
		return 0, err
	}

	id, err := s.categories.Create(ctx, models.Category{UserID: userID, Name: name, Type: ctype})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, ErrDuplicateCategory
		}
		return 0, err
	}
	return id, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, id int, name, ctype string) error {
	name, ctype, err := normalizeCategory(name, ctype)
	if err != nil {
		return err
	}

	found, err := s.categories.Update(ctx, userID, id, name, ctype)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrDuplicateCategory
		}
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (s *CategoryService) Delete(ctx context.Context, userID, id int) error {
	found, err := s.categories.Delete(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return ErrCategoryInUse
		}
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func normalizeCategory(name, ctype string) (string, string, error) {
	name = strings.TrimSpace(name)
	ctype = strings.ToLower(strings.TrimSpace(ctype))
	if name == "" {
		return "", "", fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if !models.ValidCategoryType(ctype) {
		return "", "", fmt.Errorf("%w: type must be income or expense", ErrValidation)
	}
	return name, ctype, nil
}
