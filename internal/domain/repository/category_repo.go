package repository

import "github.com/yourusername/elearn-api/internal/domain/entity"

// CategoryRepository определяет методы для работы с хранилищем категорий
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id uint) (*entity.Category, error)
	GetByIDs(ids []uint) ([]entity.Category, error)
	ListByUnit(unitID uint, activeOnly bool) ([]entity.Category, error)
	Update(category *entity.Category) error
	Delete(id uint) error
}
