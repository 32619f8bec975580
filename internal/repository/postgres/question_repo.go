package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/elearn-api/internal/domain/entity"
	apperrors "github.com/yourusername/elearn-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// CreateBatch создает вопросы пакетом в одной транзакции (импорт — все или ничего)
func (r *QuestionRepo) CreateBatch(questions []entity.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Create(&questions).Error
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByIDs возвращает вопросы по списку ID
func (r *QuestionRepo) GetByIDs(ids []uint) ([]entity.Question, error) {
	if len(ids) == 0 {
		return []entity.Question{}, nil
	}
	var questions []entity.Question
	err := r.db.Where("id IN ?", ids).Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// ListByCategory возвращает вопросы категории с пагинацией и total count
func (r *QuestionRepo) ListByCategory(categoryID uint, limit, offset int) ([]entity.Question, int64, error) {
	var questions []entity.Question
	var total int64

	query := r.db.Model(&entity.Question{}).Where("category_id = ?", categoryID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Limit(limit).Offset(offset).Order("id").Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// Update обновляет вопрос
func (r *QuestionRepo) Update(question *entity.Question) error {
	return r.db.Save(question).Error
}

// Delete удаляет вопрос
func (r *QuestionRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Question{}, id).Error
}

// ActiveIDsByUnit возвращает ID активных вопросов всех активных категорий раздела
func (r *QuestionRepo) ActiveIDsByUnit(unitID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entity.Question{}).
		Joins("JOIN categories ON categories.id = questions.category_id").
		Where("categories.unit_id = ? AND categories.is_active AND questions.is_active", unitID).
		Pluck("questions.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ActiveIDsByCategories возвращает ID активных вопросов указанных категорий
func (r *QuestionRepo) ActiveIDsByCategories(categoryIDs []uint) ([]uint, error) {
	if len(categoryIDs) == 0 {
		return []uint{}, nil
	}
	var ids []uint
	err := r.db.Model(&entity.Question{}).
		Where("category_id IN ? AND is_active", categoryIDs).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CountActiveByCategory возвращает количество активных вопросов категории
func (r *QuestionRepo) CountActiveByCategory(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Question{}).
		Where("category_id = ? AND is_active", categoryID).
		Count(&count).Error
	return count, err
}
