package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/elearn-api/internal/domain/entity"
	apperrors "github.com/yourusername/elearn-api/internal/pkg/errors"
)

// UnitRepo реализует repository.UnitRepository
type UnitRepo struct {
	db *gorm.DB
}

// NewUnitRepo создает новый репозиторий разделов
func NewUnitRepo(db *gorm.DB) *UnitRepo {
	return &UnitRepo{db: db}
}

// Create создает новый раздел
func (r *UnitRepo) Create(unit *entity.Unit) error {
	return r.db.Create(unit).Error
}

// GetByID возвращает раздел по ID
func (r *UnitRepo) GetByID(id uint) (*entity.Unit, error) {
	var unit entity.Unit
	err := r.db.First(&unit, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// List возвращает разделы в порядке position
func (r *UnitRepo) List(activeOnly bool) ([]entity.Unit, error) {
	var units []entity.Unit
	query := r.db.Order("position, id")
	if activeOnly {
		query = query.Where("is_active")
	}
	if err := query.Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// Update обновляет раздел
func (r *UnitRepo) Update(unit *entity.Unit) error {
	return r.db.Save(unit).Error
}

// Delete удаляет раздел
func (r *UnitRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Unit{}, id).Error
}
