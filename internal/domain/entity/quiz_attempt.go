package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Константы статусов попытки
const (
	AttemptStatusInProgress = "in_progress"
	AttemptStatusCompleted  = "completed"
	AttemptStatusExpired    = "expired"
)

// Режимы выбора вопросов:
// A — все активные вопросы раздела, B — одна категория, C — несколько категорий одного раздела.
const (
	SelectionModeUnit            = "A"
	SelectionModeCategory        = "B"
	SelectionModeMultiCategories = "C"
)

// UintArray - пользовательский тип для хранения списка ID в JSONB
type UintArray []uint

// Scan реализует интерфейс sql.Scanner для UintArray
func (a *UintArray) Scan(value interface{}) error {
	if value == nil {
		*a = UintArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*a = UintArray{}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Value реализует интерфейс driver.Valuer для UintArray
func (a UintArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// QuizAttempt представляет одну попытку прохождения квиза — экземпляр конечного автомата.
// Список вопросов и их порядок фиксируются при создании и никогда не меняются.
type QuizAttempt struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	Mode           string    `gorm:"size:1;not null" json:"mode"`
	UnitID         uint      `gorm:"not null" json:"unit_id"`
	CategoryIDs    UintArray `gorm:"type:jsonb;not null" json:"category_ids"`
	RequestedCount int       `gorm:"not null" json:"requested_count"`
	ActualCount    int       `gorm:"not null" json:"actual_count"`
	CurrentSeq     int       `gorm:"not null;default:1" json:"current_seq"`
	Status         string    `gorm:"size:20;not null;default:'in_progress';index" json:"status"`
	ExpiresAt      time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// IsInProgress проверяет, идет ли попытка
func (a *QuizAttempt) IsInProgress() bool {
	return a.Status == AttemptStatusInProgress
}

// IsCompleted проверяет, завершена ли попытка
func (a *QuizAttempt) IsCompleted() bool {
	return a.Status == AttemptStatusCompleted
}

// IsExpired проверяет, помечена ли попытка истекшей
func (a *QuizAttempt) IsExpired() bool {
	return a.Status == AttemptStatusExpired
}

// DeadlinePassed проверяет, прошел ли срок попытки на момент now.
// Истечение фиксируется лениво: фонового процесса нет, проверка выполняется
// при каждом обращении к попытке.
func (a *QuizAttempt) DeadlinePassed(now time.Time) bool {
	return now.After(a.ExpiresAt)
}

// OnLastQuestion проверяет, указывает ли курсор на последний вопрос попытки
func (a *QuizAttempt) OnLastQuestion() bool {
	return a.CurrentSeq >= a.ActualCount
}

// QuizAttemptQuestion фиксирует порядок вопросов попытки:
// (attempt_id, seq) -> question_id. Снимок не зависит от последующих
// изменений каталога.
type QuizAttemptQuestion struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	AttemptID  string `gorm:"type:uuid;not null;uniqueIndex:uq_quiz_attempt_questions_attempt_seq" json:"attempt_id"`
	Seq        int    `gorm:"not null;uniqueIndex:uq_quiz_attempt_questions_attempt_seq" json:"seq"`
	QuestionID uint   `gorm:"not null" json:"question_id"`
}

// TableName определяет имя таблицы для GORM
func (QuizAttemptQuestion) TableName() string {
	return "quiz_attempt_questions"
}

// QuizAttemptAnswer представляет записанный ответ учащегося.
// Уникальный индекс (attempt_id, question_id) — точка принуждения идемпотентности:
// повторный ответ отклоняется на уровне БД, а не только pre-check'ом в сервисе.
type QuizAttemptAnswer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AttemptID  string    `gorm:"type:uuid;not null;uniqueIndex:uq_quiz_attempt_answers_attempt_question" json:"attempt_id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:uq_quiz_attempt_answers_attempt_question" json:"question_id"`
	Label      string    `gorm:"size:10;not null" json:"label"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (QuizAttemptAnswer) TableName() string {
	return "quiz_attempt_answers"
}
