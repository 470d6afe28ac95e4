package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/helpdesk-api/internal/models"
	"github.com/yukikurage/helpdesk-api/internal/repository"
)

// CategoryService manages ticket categories.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// ListCategories returns every category
func (s *CategoryService) ListCategories() ([]models.Category, error) {
	categories, err := s.categoryRepo.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetCategory returns a category by ID
func (s *CategoryService) GetCategory(id uint64) (*models.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return category, nil
}

// CreateCategory stores a new category with a unique name.
func (s *CategoryService) CreateCategory(name string, description *string) (*models.Category, error) {
	category := &models.Category{
		Name:        strings.TrimSpace(name),
		Description: description,
	}
	if err := s.categoryRepo.CreateCategory(category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// UpdateCategory applies a partial update to a category.
func (s *CategoryService) UpdateCategory(id uint64, name, description *string) (*models.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		category.Name = strings.TrimSpace(*name)
	}
	if description != nil {
		category.Description = description
	}

	if err := s.categoryRepo.UpdateCategory(category); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrCategoryNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category. Tickets keep their category ID.
func (s *CategoryService) DeleteCategory(id uint64) error {
	if err := s.categoryRepo.DeleteCategory(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
