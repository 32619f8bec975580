package attemptengine

import "errors"

// Ошибки движка попыток. Все они детерминированы: каждая — прямая функция
// сохраненного состояния и входа вызывающего, внутренних retryable-сбоев
// у движка нет. Обработчик HTTP транслирует их в пары (статус, код).
var (
	// Ошибки валидации параметров выборки
	ErrInvalidCount    = errors.New("requested count must be one of 10, 20, 30, 40, 50")
	ErrInvalidUnit     = errors.New("unit id is required for this mode")
	ErrInvalidCategory = errors.New("category selection is invalid for this mode")

	// Ошибки отсутствия ресурсов
	ErrCategoryNotFound = errors.New("category not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrNoQuestions      = errors.New("no active questions match the selection")
	ErrAttemptNotFound  = errors.New("attempt not found")

	// Конфликты состояния конечного автомата
	ErrAttemptNotActive    = errors.New("attempt is already completed")
	ErrInvalidSequence     = errors.New("question does not match the current sequence")
	ErrAlreadyAnswered     = errors.New("question already answered in this attempt")
	ErrAttemptNotCompleted = errors.New("attempt is not completed yet")

	// Ленивое истечение срока
	ErrAttemptExpired = errors.New("attempt has expired")

	// Недопустимая метка ответа
	ErrInvalidAnswer = errors.New("answer must be one of A, B, C, D, UNKNOWN")
)
