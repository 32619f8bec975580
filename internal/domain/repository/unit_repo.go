package repository

import "github.com/yourusername/elearn-api/internal/domain/entity"

// UnitRepository определяет методы для работы с хранилищем разделов
type UnitRepository interface {
	Create(unit *entity.Unit) error
	GetByID(id uint) (*entity.Unit, error)
	List(activeOnly bool) ([]entity.Unit, error)
	Update(unit *entity.Unit) error
	Delete(id uint) error
}
