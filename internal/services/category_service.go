package services

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
	"inkwell_backend/pkg/apperrors"
)

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, name string) (*models.Category, error)
}

type categoryService struct {
	store repositories.Store
}

func NewCategoryService(store repositories.Store) CategoryService {
	return &categoryService{store: store}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	cats, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	if cats == nil {
		cats = []models.Category{}
	}
	return cats, nil
}

func (s *categoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	slug := Slugify(name)
	if slug == "" {
		return nil, apperrors.FieldError("name", "Must contain letters or digits")
	}

	cat := &models.Category{Name: name, Slug: slug}
	if err := s.store.Categories().Create(ctx, cat); err != nil {
		if errors.Is(err, repositories.ErrCategoryExists) {
			return nil, apperrors.ErrCategoryExists
		}
		return nil, dbError(err)
	}
	return cat, nil
}

// Slugify lowercases name and joins its letter/digit runs with dashes.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
