package service

import (
	"fmt"

	"github.com/yourusername/elearn-api/internal/domain/entity"
	"github.com/yourusername/elearn-api/internal/domain/repository"
	apperrors "github.com/yourusername/elearn-api/internal/pkg/errors"
)

// CategoryListing — категория вместе с количеством активных вопросов
type CategoryListing struct {
	Category      entity.Category
	QuestionCount int64
}

// CatalogService предоставляет методы для работы с каталогом разделов и категорий
type CatalogService struct {
	unitRepo     repository.UnitRepository
	categoryRepo repository.CategoryRepository
	questionRepo repository.QuestionRepository
}

// NewCatalogService создает новый сервис каталога
func NewCatalogService(
	unitRepo repository.UnitRepository,
	categoryRepo repository.CategoryRepository,
	questionRepo repository.QuestionRepository,
) *CatalogService {
	return &CatalogService{
		unitRepo:     unitRepo,
		categoryRepo: categoryRepo,
		questionRepo: questionRepo,
	}
}

// ListUnits возвращает разделы каталога
func (s *CatalogService) ListUnits(activeOnly bool) ([]entity.Unit, error) {
	return s.unitRepo.List(activeOnly)
}

// ListCategories возвращает категории раздела с количеством активных вопросов
func (s *CatalogService) ListCategories(unitID uint, activeOnly bool) ([]CategoryListing, error) {
	if _, err := s.unitRepo.GetByID(unitID); err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.ListByUnit(unitID, activeOnly)
	if err != nil {
		return nil, err
	}

	listings := make([]CategoryListing, 0, len(categories))
	for _, c := range categories {
		count, err := s.questionRepo.CountActiveByCategory(c.ID)
		if err != nil {
			return nil, err
		}
		listings = append(listings, CategoryListing{Category: c, QuestionCount: count})
	}
	return listings, nil
}

// CreateUnit создает новый раздел
func (s *CatalogService) CreateUnit(title, description string, position int) (*entity.Unit, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", apperrors.ErrValidation)
	}
	unit := &entity.Unit{
		Title:       title,
		Description: description,
		Position:    position,
		IsActive:    true,
	}
	if err := s.unitRepo.Create(unit); err != nil {
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}
	return unit, nil
}

// UpdateUnit обновляет раздел
func (s *CatalogService) UpdateUnit(id uint, title, description string, position int, isActive bool) (*entity.Unit, error) {
	unit, err := s.unitRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	unit.Title = title
	unit.Description = description
	unit.Position = position
	unit.IsActive = isActive
	if err := s.unitRepo.Update(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// DeleteUnit удаляет раздел. Раздел с категориями удалить нельзя.
func (s *CatalogService) DeleteUnit(id uint) error {
	if _, err := s.unitRepo.GetByID(id); err != nil {
		return err
	}
	categories, err := s.categoryRepo.ListByUnit(id, false)
	if err != nil {
		return err
	}
	if len(categories) > 0 {
		return fmt.Errorf("unit still has categories: %w", apperrors.ErrConflict)
	}
	return s.unitRepo.Delete(id)
}

// CreateCategory создает категорию в разделе
func (s *CatalogService) CreateCategory(unitID uint, title string, position int) (*entity.Category, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", apperrors.ErrValidation)
	}
	if _, err := s.unitRepo.GetByID(unitID); err != nil {
		return nil, err
	}
	category := &entity.Category{
		UnitID:   unitID,
		Title:    title,
		Position: position,
		IsActive: true,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// UpdateCategory обновляет категорию
func (s *CatalogService) UpdateCategory(id uint, title string, position int, isActive bool) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	category.Title = title
	category.Position = position
	category.IsActive = isActive
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory удаляет категорию. Категорию с вопросами удалить нельзя.
func (s *CatalogService) DeleteCategory(id uint) error {
	if _, err := s.categoryRepo.GetByID(id); err != nil {
		return err
	}
	_, total, err := s.questionRepo.ListByCategory(id, 1, 0)
	if err != nil {
		return err
	}
	if total > 0 {
		return fmt.Errorf("category still has questions: %w", apperrors.ErrConflict)
	}
	return s.categoryRepo.Delete(id)
}
