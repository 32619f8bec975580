package attemptengine

import (
	"fmt"
	"math/rand"

	"github.com/yourusername/elearn-api/internal/domain/entity"
	"github.com/yourusername/elearn-api/internal/domain/repository"
)

// SelectionRequest — параметры выборки вопросов для новой попытки
type SelectionRequest struct {
	Mode           string
	RequestedCount int
	UnitID         uint   // режим A
	CategoryID     uint   // режим B
	CategoryIDs    []uint // режим C
}

// Selection — результат выборки: разрешенная область и перемешанный список
// ID вопросов. Порядок QuestionIDs становится порядком показа попытки.
type Selection struct {
	Mode        string
	UnitID      uint
	CategoryIDs []uint
	QuestionIDs []uint
}

// Selector реализует алгоритм выборки: равномерная случайная выборка без
// возвращения из пула активных вопросов области, усеченная до requested count.
type Selector struct {
	unitRepo     repository.UnitRepository
	categoryRepo repository.CategoryRepository
	questionRepo repository.QuestionRepository
	shuffle      func(n int, swap func(i, j int)) // подменяется в тестах
}

// NewSelector создает новый селектор вопросов
func NewSelector(
	unitRepo repository.UnitRepository,
	categoryRepo repository.CategoryRepository,
	questionRepo repository.QuestionRepository,
) *Selector {
	return &Selector{
		unitRepo:     unitRepo,
		categoryRepo: categoryRepo,
		questionRepo: questionRepo,
		shuffle:      rand.Shuffle,
	}
}

// Select выполняет выборку. Пул меньше requested count — не ошибка:
// фактическим размером попытки становится размер пула. Пустой пул — ErrNoQuestions.
func (s *Selector) Select(req SelectionRequest) (*Selection, error) {
	if !IsAllowedCount(req.RequestedCount) {
		return nil, ErrInvalidCount
	}

	sel := &Selection{Mode: req.Mode}

	var pool []uint
	var err error

	switch req.Mode {
	case entity.SelectionModeUnit:
		if req.UnitID == 0 {
			return nil, ErrInvalidUnit
		}
		if _, err = s.unitRepo.GetByID(req.UnitID); err != nil {
			return nil, fmt.Errorf("%w: unit %d", ErrInvalidUnit, req.UnitID)
		}
		sel.UnitID = req.UnitID
		pool, err = s.questionRepo.ActiveIDsByUnit(req.UnitID)

	case entity.SelectionModeCategory:
		if req.CategoryID == 0 {
			return nil, ErrInvalidCategory
		}
		category, catErr := s.categoryRepo.GetByID(req.CategoryID)
		if catErr != nil {
			return nil, fmt.Errorf("%w: category %d", ErrCategoryNotFound, req.CategoryID)
		}
		sel.UnitID = category.UnitID
		sel.CategoryIDs = []uint{category.ID}
		pool, err = s.questionRepo.ActiveIDsByCategories(sel.CategoryIDs)

	case entity.SelectionModeMultiCategories:
		if len(req.CategoryIDs) == 0 {
			return nil, ErrInvalidCategory
		}
		categories, catErr := s.categoryRepo.GetByIDs(req.CategoryIDs)
		if catErr != nil {
			return nil, catErr
		}
		if len(categories) != len(req.CategoryIDs) {
			return nil, ErrCategoryNotFound
		}
		// Все категории должны принадлежать одному разделу
		unitID := categories[0].UnitID
		for _, c := range categories[1:] {
			if c.UnitID != unitID {
				return nil, fmt.Errorf("%w: categories belong to different units", ErrInvalidCategory)
			}
		}
		sel.UnitID = unitID
		sel.CategoryIDs = req.CategoryIDs
		pool, err = s.questionRepo.ActiveIDsByCategories(req.CategoryIDs)

	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidCategory, req.Mode)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load question pool: %w", err)
	}
	if len(pool) == 0 {
		return nil, ErrNoQuestions
	}

	// Перемешиваем пул и усекаем: это одновременно равномерная выборка без
	// возвращения и рандомизация порядка показа.
	s.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > req.RequestedCount {
		pool = pool[:req.RequestedCount]
	}

	sel.QuestionIDs = pool
	return sel, nil
}
