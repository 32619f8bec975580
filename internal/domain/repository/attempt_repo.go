package repository

import (
	"errors"

	"github.com/yourusername/elearn-api/internal/domain/entity"
)

// Ошибки уровня хранилища попыток
var (
	// ErrDuplicateAnswer возвращается, когда вставка ответа нарушила уникальный
	// индекс (attempt_id, question_id). Это авторитетная защита от повторного
	// ответа: pre-check в сервисе сам по себе подвержен гонке двух запросов.
	ErrDuplicateAnswer = errors.New("answer already recorded for this attempt question")
)

// LeaderboardEntry — агрегированная строка таблицы лидеров
type LeaderboardEntry struct {
	UserID            uint   `json:"user_id"`
	Username          string `json:"username"`
	CompletedAttempts int64  `json:"completed_attempts"`
	CorrectAnswers    int64  `json:"correct_answers"`
}

// AttemptRepository определяет методы для работы с хранилищем попыток.
// Многострочные записи (попытка + снимок порядка; ответ + курсор/статус)
// выполняются в одной транзакции: частичное состояние не должно быть наблюдаемым.
type AttemptRepository interface {
	// CreateWithQuestions атомарно создает попытку и снимок порядка вопросов
	CreateWithQuestions(attempt *entity.QuizAttempt, questionIDs []uint) error

	// GetOwned возвращает попытку по (id, userID) одним предикатом.
	// "Не найдено" и "не принадлежит" неразличимы — обе дают ErrNotFound.
	GetOwned(attemptID string, userID uint) (*entity.QuizAttempt, error)

	// GetByID возвращает попытку без проверки владельца (административный доступ)
	GetByID(attemptID string) (*entity.QuizAttempt, error)

	// QuestionAt возвращает снимок вопроса на указанной позиции
	QuestionAt(attemptID string, seq int) (*entity.QuizAttemptQuestion, error)

	// Questions возвращает весь снимок порядка вопросов попытки (по seq)
	Questions(attemptID string) ([]entity.QuizAttemptQuestion, error)

	// Answers возвращает все записанные ответы попытки
	Answers(attemptID string) ([]entity.QuizAttemptAnswer, error)

	// FindAnswer возвращает ответ на вопрос попытки, ErrNotFound если его нет
	FindAnswer(attemptID string, questionID uint) (*entity.QuizAttemptAnswer, error)

	// SaveAnswerAndAdvance атомарно вставляет ответ и либо двигает курсор на 1,
	// либо (если complete) переводит попытку в completed.
	// Нарушение уникальности ответа возвращается как ErrDuplicateAnswer.
	SaveAnswerAndAdvance(answer *entity.QuizAttemptAnswer, complete bool) error

	// MarkExpired переводит попытку из in_progress в expired
	MarkExpired(attemptID string) error

	// ListByUser возвращает попытки пользователя с пагинацией (новые первыми)
	ListByUser(userID uint, limit, offset int) ([]entity.QuizAttempt, int64, error)

	// Leaderboard возвращает топ пользователей по завершенным попыткам
	Leaderboard(limit int) ([]LeaderboardEntry, error)
}
