package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/elearn-api/internal/domain/entity"
	apperrors "github.com/yourusername/elearn-api/internal/pkg/errors"
)

const validImportCSV = `body,explanation,choice_a,choice_b,choice_c,choice_d,correct_label
Сколько будет 2+2?,Арифметика,3,4,5,6,B
Столица Японии?,География,Осака,Киото,Токио,Нагоя,C
`

func newTestQuestionService(questionRepo *MockQuestionRepository, categoryRepo *MockCategoryRepository) *QuestionService {
	return NewQuestionService(questionRepo, categoryRepo)
}

func TestQuestionService_CreateQuestion_Success(t *testing.T) {
	// Arrange
	questionRepo := new(MockQuestionRepository)
	categoryRepo := new(MockCategoryRepository)
	question := testQuestion(0)

	categoryRepo.On("GetByID", uint(1)).Return(&entity.Category{ID: 1, UnitID: 1}, nil)
	questionRepo.On("Create", question).Return(nil)

	svc := newTestQuestionService(questionRepo, categoryRepo)

	// Act
	err := svc.CreateQuestion(question)

	// Assert
	require.NoError(t, err)
	questionRepo.AssertExpectations(t)
}

func TestQuestionService_CreateQuestion_InvalidChoices(t *testing.T) {
	// Arrange: вопрос без правильного варианта
	questionRepo := new(MockQuestionRepository)
	categoryRepo := new(MockCategoryRepository)
	question := testQuestion(0)
	question.Choices[0].IsCorrect = false

	categoryRepo.On("GetByID", uint(1)).Return(&entity.Category{ID: 1, UnitID: 1}, nil)

	svc := newTestQuestionService(questionRepo, categoryRepo)

	// Act
	err := svc.CreateQuestion(question)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	questionRepo.AssertNotCalled(t, "Create")
}

func TestQuestionService_CreateQuestion_CategoryNotFound(t *testing.T) {
	// Arrange
	questionRepo := new(MockQuestionRepository)
	categoryRepo := new(MockCategoryRepository)
	categoryRepo.On("GetByID", uint(1)).Return(nil, apperrors.ErrNotFound)

	svc := newTestQuestionService(questionRepo, categoryRepo)

	// Act
	err := svc.CreateQuestion(testQuestion(0))

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestQuestionService_ImportCSV_Success(t *testing.T) {
	// Arrange
	questionRepo := new(MockQuestionRepository)
	categoryRepo := new(MockCategoryRepository)

	categoryRepo.On("GetByID", uint(5)).Return(&entity.Category{ID: 5, UnitID: 1}, nil)
	questionRepo.On("CreateBatch", mock.MatchedBy(func(questions []entity.Question) bool {
		if len(questions) != 2 {
			return false
		}
		first := questions[0]
		return first.CategoryID == 5 &&
			first.Body == "Сколько будет 2+2?" &&
			first.IsActive &&
			first.CorrectLabel() == entity.ChoiceLabelB &&
			questions[1].CorrectLabel() == entity.ChoiceLabelC
	})).Return(nil)

	svc := newTestQuestionService(questionRepo, categoryRepo)

	// Act
	count, err := svc.ImportCSV(5, strings.NewReader(validImportCSV))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	questionRepo.AssertExpectations(t)
}

func TestQuestionService_ImportCSV_BadHeader(t *testing.T) {
	// Arrange
	questionRepo := new(MockQuestionRepository)
	categoryRepo := new(MockCategoryRepository)
	categoryRepo.On("GetByID", uint(5)).Return(&entity.Category{ID: 5, UnitID: 1}, nil)

	csvData := "question,explanation,a,b,c,d,answer\nТело,,1,2,3,4,A\n"

	svc := newTestQuestionService(questionRepo, categoryRepo)

	// Act
	_, err := svc.ImportCSV(5, strings.NewReader(csvData))

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	questionRepo.AssertNotCalled(t, "CreateBatch")
}

func TestQuestionService_ImportCSV_BadCorrectLabel(t *testing.T) {
	// Arrange: метка правильного ответа вне A-D
	questionRepo := new(MockQuestionRepository)
	categoryRepo := new(MockCategoryRepository)
	categoryRepo.On("GetByID", uint(5)).Return(&entity.Category{ID: 5, UnitID: 1}, nil)

	csvData := "body,explanation,choice_a,choice_b,choice_c,choice_d,correct_label\nТело,,1,2,3,4,E\n"

	svc := newTestQuestionService(questionRepo, categoryRepo)

	// Act
	_, err := svc.ImportCSV(5, strings.NewReader(csvData))

	// Assert: импорт отменен целиком, в ошибке указана строка
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "line 2")
	questionRepo.AssertNotCalled(t, "CreateBatch")
}

func TestQuestionService_ImportCSV_InvalidRowCancelsAll(t *testing.T) {
	// Arrange: первая строка валидна, вторая нет. Ничего не сохраняется.
	questionRepo := new(MockQuestionRepository)
	categoryRepo := new(MockCategoryRepository)
	categoryRepo.On("GetByID", uint(5)).Return(&entity.Category{ID: 5, UnitID: 1}, nil)

	csvData := "body,explanation,choice_a,choice_b,choice_c,choice_d,correct_label\n" +
		"Валидный вопрос,,1,2,3,4,A\n" +
		",,1,2,3,4,B\n"

	svc := newTestQuestionService(questionRepo, categoryRepo)

	// Act
	count, err := svc.ImportCSV(5, strings.NewReader(csvData))

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, 0, count)
	questionRepo.AssertNotCalled(t, "CreateBatch")
}

func TestQuestionService_ImportCSV_EmptyFile(t *testing.T) {
	// Arrange: только заголовок, без строк
	questionRepo := new(MockQuestionRepository)
	categoryRepo := new(MockCategoryRepository)
	categoryRepo.On("GetByID", uint(5)).Return(&entity.Category{ID: 5, UnitID: 1}, nil)

	csvData := "body,explanation,choice_a,choice_b,choice_c,choice_d,correct_label\n"

	svc := newTestQuestionService(questionRepo, categoryRepo)

	// Act
	_, err := svc.ImportCSV(5, strings.NewReader(csvData))

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	questionRepo.AssertNotCalled(t, "CreateBatch")
}
