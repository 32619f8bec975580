package attemptengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/elearn-api/internal/domain/entity"
	apperrors "github.com/yourusername/elearn-api/internal/pkg/errors"
)

// ============================================================================
// Моки репозиториев каталога для селектора
// ============================================================================

// MockUnitRepository реализует repository.UnitRepository
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) Create(unit *entity.Unit) error {
	args := m.Called(unit)
	return args.Error(0)
}

func (m *MockUnitRepository) GetByID(id uint) (*entity.Unit, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Unit), args.Error(1)
}

func (m *MockUnitRepository) List(activeOnly bool) ([]entity.Unit, error) {
	args := m.Called(activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Unit), args.Error(1)
}

func (m *MockUnitRepository) Update(unit *entity.Unit) error {
	args := m.Called(unit)
	return args.Error(0)
}

func (m *MockUnitRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockCategoryRepository реализует repository.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(category *entity.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(id uint) (*entity.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByIDs(ids []uint) ([]entity.Category, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListByUnit(unitID uint, activeOnly bool) ([]entity.Category, error) {
	args := m.Called(unitID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(category *entity.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockQuestionRepository реализует repository.QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) CreateBatch(questions []entity.Question) error {
	args := m.Called(questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByIDs(ids []uint) ([]entity.Question, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) ListByCategory(categoryID uint, limit, offset int) ([]entity.Question, int64, error) {
	args := m.Called(categoryID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) Update(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockQuestionRepository) ActiveIDsByUnit(unitID uint) ([]uint, error) {
	args := m.Called(unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockQuestionRepository) ActiveIDsByCategories(categoryIDs []uint) ([]uint, error) {
	args := m.Called(categoryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockQuestionRepository) CountActiveByCategory(categoryID uint) (int64, error) {
	args := m.Called(categoryID)
	return args.Get(0).(int64), args.Error(1)
}

// newTestSelector создает селектор с детерминированным порядком (без перемешивания)
func newTestSelector(unitRepo *MockUnitRepository, categoryRepo *MockCategoryRepository, questionRepo *MockQuestionRepository) *Selector {
	s := NewSelector(unitRepo, categoryRepo, questionRepo)
	s.shuffle = func(n int, swap func(i, j int)) {}
	return s
}

func idRange(from, to uint) []uint {
	ids := make([]uint, 0, to-from+1)
	for id := from; id <= to; id++ {
		ids = append(ids, id)
	}
	return ids
}

func TestSelector_Select_InvalidCount(t *testing.T) {
	// Arrange
	selector := newTestSelector(new(MockUnitRepository), new(MockCategoryRepository), new(MockQuestionRepository))

	// Act & Assert: допустимы только 10, 20, 30, 40, 50
	for _, count := range []int{0, 1, 5, 15, 25, 55, 100, -10} {
		_, err := selector.Select(SelectionRequest{Mode: entity.SelectionModeUnit, RequestedCount: count, UnitID: 1})
		assert.ErrorIs(t, err, ErrInvalidCount, "count=%d должен быть отклонен", count)
	}
}

func TestSelector_Select_UnitMode_Success(t *testing.T) {
	// Arrange
	unitRepo := new(MockUnitRepository)
	questionRepo := new(MockQuestionRepository)

	unitRepo.On("GetByID", uint(1)).Return(&entity.Unit{ID: 1, Title: "Раздел 1"}, nil)
	questionRepo.On("ActiveIDsByUnit", uint(1)).Return(idRange(1, 25), nil)

	selector := newTestSelector(unitRepo, new(MockCategoryRepository), questionRepo)

	// Act
	sel, err := selector.Select(SelectionRequest{Mode: entity.SelectionModeUnit, RequestedCount: 10, UnitID: 1})

	// Assert: выбрано ровно requested count из пула в 25
	require.NoError(t, err)
	assert.Equal(t, entity.SelectionModeUnit, sel.Mode)
	assert.Equal(t, uint(1), sel.UnitID)
	assert.Len(t, sel.QuestionIDs, 10)
	unitRepo.AssertExpectations(t)
	questionRepo.AssertExpectations(t)
}

func TestSelector_Select_UnitMode_UnknownUnit(t *testing.T) {
	// Arrange
	unitRepo := new(MockUnitRepository)
	unitRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	selector := newTestSelector(unitRepo, new(MockCategoryRepository), new(MockQuestionRepository))

	// Act
	_, err := selector.Select(SelectionRequest{Mode: entity.SelectionModeUnit, RequestedCount: 10, UnitID: 99})

	// Assert
	assert.ErrorIs(t, err, ErrInvalidUnit)
}

func TestSelector_Select_UnitMode_MissingUnitID(t *testing.T) {
	// Arrange
	selector := newTestSelector(new(MockUnitRepository), new(MockCategoryRepository), new(MockQuestionRepository))

	// Act
	_, err := selector.Select(SelectionRequest{Mode: entity.SelectionModeUnit, RequestedCount: 10})

	// Assert
	assert.ErrorIs(t, err, ErrInvalidUnit)
}

func TestSelector_Select_CategoryMode_Success(t *testing.T) {
	// Arrange
	categoryRepo := new(MockCategoryRepository)
	questionRepo := new(MockQuestionRepository)

	categoryRepo.On("GetByID", uint(5)).Return(&entity.Category{ID: 5, UnitID: 2}, nil)
	questionRepo.On("ActiveIDsByCategories", []uint{5}).Return(idRange(1, 40), nil)

	selector := newTestSelector(new(MockUnitRepository), categoryRepo, questionRepo)

	// Act
	sel, err := selector.Select(SelectionRequest{Mode: entity.SelectionModeCategory, RequestedCount: 20, CategoryID: 5})

	// Assert: unit наследуется от категории
	require.NoError(t, err)
	assert.Equal(t, uint(2), sel.UnitID)
	assert.Equal(t, []uint{5}, sel.CategoryIDs)
	assert.Len(t, sel.QuestionIDs, 20)
}

func TestSelector_Select_CategoryMode_NotFound(t *testing.T) {
	// Arrange
	categoryRepo := new(MockCategoryRepository)
	categoryRepo.On("GetByID", uint(77)).Return(nil, apperrors.ErrNotFound)

	selector := newTestSelector(new(MockUnitRepository), categoryRepo, new(MockQuestionRepository))

	// Act
	_, err := selector.Select(SelectionRequest{Mode: entity.SelectionModeCategory, RequestedCount: 10, CategoryID: 77})

	// Assert
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestSelector_Select_MultiCategories_Success(t *testing.T) {
	// Arrange
	categoryRepo := new(MockCategoryRepository)
	questionRepo := new(MockQuestionRepository)

	categoryRepo.On("GetByIDs", []uint{3, 4}).Return([]entity.Category{
		{ID: 3, UnitID: 1},
		{ID: 4, UnitID: 1},
	}, nil)
	questionRepo.On("ActiveIDsByCategories", []uint{3, 4}).Return(idRange(1, 12), nil)

	selector := newTestSelector(new(MockUnitRepository), categoryRepo, questionRepo)

	// Act
	sel, err := selector.Select(SelectionRequest{Mode: entity.SelectionModeMultiCategories, RequestedCount: 10, CategoryIDs: []uint{3, 4}})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(1), sel.UnitID)
	assert.Len(t, sel.QuestionIDs, 10)
}

func TestSelector_Select_MultiCategories_MixedUnits(t *testing.T) {
	// Arrange: категории из разных разделов
	categoryRepo := new(MockCategoryRepository)
	categoryRepo.On("GetByIDs", []uint{3, 8}).Return([]entity.Category{
		{ID: 3, UnitID: 1},
		{ID: 8, UnitID: 2},
	}, nil)

	selector := newTestSelector(new(MockUnitRepository), categoryRepo, new(MockQuestionRepository))

	// Act
	_, err := selector.Select(SelectionRequest{Mode: entity.SelectionModeMultiCategories, RequestedCount: 10, CategoryIDs: []uint{3, 8}})

	// Assert
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestSelector_Select_MultiCategories_MissingCategory(t *testing.T) {
	// Arrange: одна из запрошенных категорий не существует
	categoryRepo := new(MockCategoryRepository)
	categoryRepo.On("GetByIDs", []uint{3, 99}).Return([]entity.Category{
		{ID: 3, UnitID: 1},
	}, nil)

	selector := newTestSelector(new(MockUnitRepository), categoryRepo, new(MockQuestionRepository))

	// Act
	_, err := selector.Select(SelectionRequest{Mode: entity.SelectionModeMultiCategories, RequestedCount: 10, CategoryIDs: []uint{3, 99}})

	// Assert
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestSelector_Select_EmptyPool(t *testing.T) {
	// Arrange
	unitRepo := new(MockUnitRepository)
	questionRepo := new(MockQuestionRepository)

	unitRepo.On("GetByID", uint(1)).Return(&entity.Unit{ID: 1}, nil)
	questionRepo.On("ActiveIDsByUnit", uint(1)).Return([]uint{}, nil)

	selector := newTestSelector(unitRepo, new(MockCategoryRepository), questionRepo)

	// Act
	_, err := selector.Select(SelectionRequest{Mode: entity.SelectionModeUnit, RequestedCount: 10, UnitID: 1})

	// Assert
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestSelector_Select_PoolSmallerThanRequested(t *testing.T) {
	// Arrange: пул из 3 вопросов при запросе 10
	unitRepo := new(MockUnitRepository)
	questionRepo := new(MockQuestionRepository)

	unitRepo.On("GetByID", uint(1)).Return(&entity.Unit{ID: 1}, nil)
	questionRepo.On("ActiveIDsByUnit", uint(1)).Return([]uint{7, 8, 9}, nil)

	selector := newTestSelector(unitRepo, new(MockCategoryRepository), questionRepo)

	// Act
	sel, err := selector.Select(SelectionRequest{Mode: entity.SelectionModeUnit, RequestedCount: 10, UnitID: 1})

	// Assert: фактический размер — весь пул, ошибки нет
	require.NoError(t, err)
	assert.Len(t, sel.QuestionIDs, 3)
	assert.ElementsMatch(t, []uint{7, 8, 9}, sel.QuestionIDs)
}

func TestSelector_Select_NeverExceedsRequested(t *testing.T) {
	// Arrange: большой пул
	unitRepo := new(MockUnitRepository)
	questionRepo := new(MockQuestionRepository)

	unitRepo.On("GetByID", uint(1)).Return(&entity.Unit{ID: 1}, nil)
	questionRepo.On("ActiveIDsByUnit", uint(1)).Return(idRange(1, 500), nil)

	// Используем настоящее перемешивание: размер не должен зависеть от него
	selector := NewSelector(unitRepo, new(MockCategoryRepository), questionRepo)

	// Act
	sel, err := selector.Select(SelectionRequest{Mode: entity.SelectionModeUnit, RequestedCount: 50, UnitID: 1})

	// Assert: ровно 50, без дубликатов
	require.NoError(t, err)
	assert.Len(t, sel.QuestionIDs, 50)
	seen := make(map[uint]bool, len(sel.QuestionIDs))
	for _, id := range sel.QuestionIDs {
		assert.False(t, seen[id], "вопрос %d выбран дважды", id)
		seen[id] = true
	}
}

func TestSelector_Select_UnknownMode(t *testing.T) {
	// Arrange
	selector := newTestSelector(new(MockUnitRepository), new(MockCategoryRepository), new(MockQuestionRepository))

	// Act
	_, err := selector.Select(SelectionRequest{Mode: "X", RequestedCount: 10})

	// Assert
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestIsAllowedCount(t *testing.T) {
	// Act & Assert
	for _, count := range []int{10, 20, 30, 40, 50} {
		assert.True(t, IsAllowedCount(count), "count=%d должен быть допустимым", count)
	}
	for _, count := range []int{0, 9, 11, 49, 51, -20} {
		assert.False(t, IsAllowedCount(count), "count=%d должен быть недопустимым", count)
	}
}
