package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/yourusername/elearn-api/internal/domain/entity"
	"github.com/yourusername/elearn-api/internal/domain/repository"
	apperrors "github.com/yourusername/elearn-api/internal/pkg/errors"
)

// importColumns — ожидаемый заголовок CSV файла импорта
var importColumns = []string{"body", "explanation", "choice_a", "choice_b", "choice_c", "choice_d", "correct_label"}

// QuestionService предоставляет методы для работы с каталогом вопросов.
// Инвариант "ровно один правильный вариант, метки A–D по одному разу"
// принуждается здесь, при создании и изменении; движок попыток на него опирается.
type QuestionService struct {
	questionRepo repository.QuestionRepository
	categoryRepo repository.CategoryRepository
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	categoryRepo repository.CategoryRepository,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateQuestion создает вопрос после валидации инварианта вариантов
func (s *QuestionService) CreateQuestion(question *entity.Question) error {
	if _, err := s.categoryRepo.GetByID(question.CategoryID); err != nil {
		return err
	}
	if err := question.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return s.questionRepo.Create(question)
}

// UpdateQuestion обновляет вопрос после валидации инварианта вариантов
func (s *QuestionService) UpdateQuestion(question *entity.Question) error {
	if _, err := s.questionRepo.GetByID(question.ID); err != nil {
		return err
	}
	if err := question.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return s.questionRepo.Update(question)
}

// GetQuestionByID возвращает вопрос по ID
func (s *QuestionService) GetQuestionByID(id uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(id)
}

// ListQuestions возвращает вопросы категории с пагинацией
func (s *QuestionService) ListQuestions(categoryID uint, page, pageSize int) ([]entity.Question, int64, error) {
	offset := (page - 1) * pageSize
	return s.questionRepo.ListByCategory(categoryID, pageSize, offset)
}

// DeleteQuestion удаляет вопрос
func (s *QuestionService) DeleteQuestion(id uint) error {
	if _, err := s.questionRepo.GetByID(id); err != nil {
		return err
	}
	return s.questionRepo.Delete(id)
}

// ImportCSV читает вопросы из CSV и сохраняет их пакетом в указанную категорию.
// Формат: body, explanation, choice_a..choice_d, correct_label.
// Любая невалидная строка отменяет весь импорт (все или ничего).
func (s *QuestionService) ImportCSV(categoryID uint, r io.Reader) (int, error) {
	if _, err := s.categoryRepo.GetByID(categoryID); err != nil {
		return 0, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(importColumns)

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read CSV header: %v", apperrors.ErrValidation, err)
	}
	for i, col := range importColumns {
		if strings.TrimSpace(strings.ToLower(header[i])) != col {
			return 0, fmt.Errorf("%w: unexpected CSV header, want %s", apperrors.ErrValidation, strings.Join(importColumns, ","))
		}
	}

	var questions []entity.Question
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return 0, fmt.Errorf("%w: line %d: %v", apperrors.ErrValidation, line, err)
		}

		correctLabel := strings.ToUpper(strings.TrimSpace(record[6]))
		question := entity.Question{
			CategoryID:  categoryID,
			Body:        strings.TrimSpace(record[0]),
			Explanation: strings.TrimSpace(record[1]),
			IsActive:    true,
			Choices: entity.ChoiceList{
				{Label: entity.ChoiceLabelA, Body: strings.TrimSpace(record[2]), IsCorrect: correctLabel == entity.ChoiceLabelA},
				{Label: entity.ChoiceLabelB, Body: strings.TrimSpace(record[3]), IsCorrect: correctLabel == entity.ChoiceLabelB},
				{Label: entity.ChoiceLabelC, Body: strings.TrimSpace(record[4]), IsCorrect: correctLabel == entity.ChoiceLabelC},
				{Label: entity.ChoiceLabelD, Body: strings.TrimSpace(record[5]), IsCorrect: correctLabel == entity.ChoiceLabelD},
			},
		}

		if question.Body == "" {
			return 0, fmt.Errorf("%w: line %d: body is empty", apperrors.ErrValidation, line)
		}
		if err := question.Validate(); err != nil {
			return 0, fmt.Errorf("%w: line %d: %v", apperrors.ErrValidation, line, err)
		}
		questions = append(questions, question)
	}

	if len(questions) == 0 {
		return 0, fmt.Errorf("%w: CSV contains no questions", apperrors.ErrValidation)
	}

	if err := s.questionRepo.CreateBatch(questions); err != nil {
		return 0, fmt.Errorf("failed to import questions: %w", err)
	}

	log.Printf("[QuestionService] Импортировано %d вопросов в категорию %d", len(questions), categoryID)
	return len(questions), nil
}
