package repository

import "github.com/yourusername/elearn-api/internal/domain/entity"

// QuestionRepository определяет методы для работы с хранилищем вопросов
type QuestionRepository interface {
	Create(question *entity.Question) error
	CreateBatch(questions []entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	GetByIDs(ids []uint) ([]entity.Question, error)
	ListByCategory(categoryID uint, limit, offset int) ([]entity.Question, int64, error)
	Update(question *entity.Question) error
	Delete(id uint) error

	// ActiveIDsByUnit возвращает ID всех активных вопросов,
	// категории которых принадлежат разделу
	ActiveIDsByUnit(unitID uint) ([]uint, error)

	// ActiveIDsByCategories возвращает ID всех активных вопросов указанных категорий
	ActiveIDsByCategories(categoryIDs []uint) ([]uint, error)

	// CountActiveByCategory возвращает количество активных вопросов категории
	CountActiveByCategory(categoryID uint) (int64, error)
}
