package dto

import (
	"time"

	"github.com/yourusername/elearn-api/internal/domain/entity"
	"github.com/yourusername/elearn-api/internal/domain/repository"
	"github.com/yourusername/elearn-api/internal/service"
)

// unknownChoiceBody — текст синтетического варианта "не знаю"
const unknownChoiceBody = "わからない"

// ChoiceView представляет вариант ответа для учащегося (без флага правильности)
type ChoiceView struct {
	Label string `json:"label"`
	Body  string `json:"body"`
}

// QuestionView представляет вопрос для прохождения попытки.
// Варианты отсортированы A-D, в конец добавлен синтетический UNKNOWN.
// Правильный ответ и пояснение не раскрываются до завершения попытки.
type QuestionView struct {
	ID      uint         `json:"id"`
	Body    string       `json:"body"`
	Choices []ChoiceView `json:"choices"`
}

// NewQuestionView создает проекцию вопроса для учащегося
func NewQuestionView(q *entity.Question) *QuestionView {
	if q == nil {
		return nil
	}

	choices := make([]ChoiceView, 0, len(q.Choices)+1)
	for _, ch := range q.Choices.Sorted() {
		choices = append(choices, ChoiceView{Label: ch.Label, Body: ch.Body})
	}
	choices = append(choices, ChoiceView{Label: entity.ChoiceLabelUnknown, Body: unknownChoiceBody})

	return &QuestionView{
		ID:      q.ID,
		Body:    q.Body,
		Choices: choices,
	}
}

// AttemptStepResponse представляет состояние попытки после старта или ответа.
// Question == null означает, что попытка завершена и доступен результат.
type AttemptStepResponse struct {
	AttemptID       string        `json:"attempt_id"`
	Status          string        `json:"status"`
	CurrentSeq      int           `json:"current_seq"`
	Total           int           `json:"total"`
	ExpiresAt       time.Time     `json:"expires_at"`
	ResultAvailable bool          `json:"result_available"`
	Question        *QuestionView `json:"question,omitempty"`
}

// NewAttemptStepResponse создает DTO шага попытки
func NewAttemptStepResponse(step *service.AttemptStep) *AttemptStepResponse {
	if step == nil {
		return nil
	}
	return &AttemptStepResponse{
		AttemptID:       step.Attempt.ID,
		Status:          step.Attempt.Status,
		CurrentSeq:      step.Attempt.CurrentSeq,
		Total:           step.Attempt.ActualCount,
		ExpiresAt:       step.Attempt.ExpiresAt,
		ResultAvailable: step.Attempt.IsCompleted(),
		Question:        NewQuestionView(step.Question),
	}
}

// AttemptResultItemResponse — разбор одного вопроса в результате попытки
type AttemptResultItemResponse struct {
	Seq           int    `json:"seq"`
	QuestionID    uint   `json:"question_id"`
	Body          string `json:"body"`
	Explanation   string `json:"explanation"`
	Answered      bool   `json:"answered"`
	UserAnswer    string `json:"user_answer,omitempty"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

// AttemptResultResponse представляет итог завершенной попытки
type AttemptResultResponse struct {
	AttemptID string                      `json:"attempt_id"`
	Mode      string                      `json:"mode"`
	Score     int                         `json:"score"`
	Total     int                         `json:"total"`
	CreatedAt time.Time                   `json:"created_at"`
	Results   []AttemptResultItemResponse `json:"results"`
}

// NewAttemptResultResponse создает DTO результата попытки.
// Здесь, после завершения, правильные ответы и пояснения раскрываются.
func NewAttemptResultResponse(result *service.AttemptResult) *AttemptResultResponse {
	if result == nil {
		return nil
	}

	items := make([]AttemptResultItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, AttemptResultItemResponse{
			Seq:           item.Seq,
			QuestionID:    item.Question.ID,
			Body:          item.Question.Body,
			Explanation:   item.Question.Explanation,
			Answered:      item.Answered,
			UserAnswer:    item.UserLabel,
			CorrectAnswer: item.Question.CorrectLabel(),
			IsCorrect:     item.IsCorrect,
		})
	}

	return &AttemptResultResponse{
		AttemptID: result.Attempt.ID,
		Mode:      result.Attempt.Mode,
		Score:     result.Score,
		Total:     result.Attempt.ActualCount,
		CreatedAt: result.Attempt.CreatedAt,
		Results:   items,
	}
}

// AttemptSummaryResponse — попытка в списке истории, без разбора вопросов
type AttemptSummaryResponse struct {
	AttemptID  string    `json:"attempt_id"`
	Mode       string    `json:"mode"`
	UnitID     uint      `json:"unit_id"`
	Status     string    `json:"status"`
	Total      int       `json:"total"`
	CurrentSeq int       `json:"current_seq"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// PaginatedAttemptResponse представляет пагинированную историю попыток
type PaginatedAttemptResponse struct {
	Attempts []AttemptSummaryResponse `json:"attempts"`
	Total    int64                    `json:"total"`
	Page     int                      `json:"page"`
	PerPage  int                      `json:"per_page"`
}

// NewPaginatedAttemptResponse создает DTO истории попыток
func NewPaginatedAttemptResponse(attempts []entity.QuizAttempt, total int64, page, perPage int) *PaginatedAttemptResponse {
	list := make([]AttemptSummaryResponse, 0, len(attempts))
	for _, a := range attempts {
		list = append(list, AttemptSummaryResponse{
			AttemptID:  a.ID,
			Mode:       a.Mode,
			UnitID:     a.UnitID,
			Status:     a.Status,
			Total:      a.ActualCount,
			CurrentSeq: a.CurrentSeq,
			ExpiresAt:  a.ExpiresAt,
			CreatedAt:  a.CreatedAt,
		})
	}
	return &PaginatedAttemptResponse{
		Attempts: list,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}
}

// LeaderboardEntryResponse — строка таблицы лидеров
type LeaderboardEntryResponse struct {
	Rank              int    `json:"rank"`
	UserID            uint   `json:"user_id"`
	Username          string `json:"username"`
	CompletedAttempts int64  `json:"completed_attempts"`
	CorrectAnswers    int64  `json:"correct_answers"`
}

// NewLeaderboardResponse создает слайс DTO таблицы лидеров
func NewLeaderboardResponse(entries []repository.LeaderboardEntry) []LeaderboardEntryResponse {
	list := make([]LeaderboardEntryResponse, 0, len(entries))
	for i, e := range entries {
		list = append(list, LeaderboardEntryResponse{
			Rank:              i + 1,
			UserID:            e.UserID,
			Username:          e.Username,
			CompletedAttempts: e.CompletedAttempts,
			CorrectAnswers:    e.CorrectAnswers,
		})
	}
	return list
}
