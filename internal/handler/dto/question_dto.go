package dto

import (
	"time"

	"github.com/yourusername/elearn-api/internal/domain/entity"
)

// AdminChoiceResponse представляет вариант ответа с флагом правильности.
// Используется только в административных ручках.
type AdminChoiceResponse struct {
	Label     string `json:"label"`
	Body      string `json:"body"`
	IsCorrect bool   `json:"is_correct"`
}

// AdminQuestionResponse представляет вопрос каталога для администратора
type AdminQuestionResponse struct {
	ID          uint                  `json:"id"`
	CategoryID  uint                  `json:"category_id"`
	Body        string                `json:"body"`
	Explanation string                `json:"explanation"`
	Choices     []AdminChoiceResponse `json:"choices"`
	IsActive    bool                  `json:"is_active"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// NewAdminQuestionResponse создает DTO вопроса для администратора
func NewAdminQuestionResponse(q *entity.Question) *AdminQuestionResponse {
	if q == nil {
		return nil
	}
	choices := make([]AdminChoiceResponse, 0, len(q.Choices))
	for _, ch := range q.Choices.Sorted() {
		choices = append(choices, AdminChoiceResponse{
			Label:     ch.Label,
			Body:      ch.Body,
			IsCorrect: ch.IsCorrect,
		})
	}
	return &AdminQuestionResponse{
		ID:          q.ID,
		CategoryID:  q.CategoryID,
		Body:        q.Body,
		Explanation: q.Explanation,
		Choices:     choices,
		IsActive:    q.IsActive,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

// PaginatedQuestionResponse представляет пагинированный список вопросов
type PaginatedQuestionResponse struct {
	Questions []*AdminQuestionResponse `json:"questions"`
	Total     int64                    `json:"total"`
	Page      int                      `json:"page"`
	PerPage   int                      `json:"per_page"`
}

// NewPaginatedQuestionResponse создает DTO пагинированного списка вопросов
func NewPaginatedQuestionResponse(questions []entity.Question, total int64, page, perPage int) *PaginatedQuestionResponse {
	list := make([]*AdminQuestionResponse, len(questions))
	for i, q := range questions {
		list[i] = NewAdminQuestionResponse(&q)
	}
	return &PaginatedQuestionResponse{
		Questions: list,
		Total:     total,
		Page:      page,
		PerPage:   perPage,
	}
}
