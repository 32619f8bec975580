package dto

import (
	"github.com/yourusername/elearn-api/internal/domain/entity"
	"github.com/yourusername/elearn-api/internal/service"
)

// UnitResponse представляет раздел каталога
type UnitResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Position    int    `json:"position"`
	IsActive    bool   `json:"is_active"`
}

// NewUnitResponse создает DTO раздела
func NewUnitResponse(u *entity.Unit) *UnitResponse {
	if u == nil {
		return nil
	}
	return &UnitResponse{
		ID:          u.ID,
		Title:       u.Title,
		Description: u.Description,
		Position:    u.Position,
		IsActive:    u.IsActive,
	}
}

// NewListUnitResponse создает слайс DTO для списка разделов
func NewListUnitResponse(units []entity.Unit) []*UnitResponse {
	list := make([]*UnitResponse, len(units))
	for i, u := range units {
		list[i] = NewUnitResponse(&u)
	}
	return list
}

// CategoryResponse представляет категорию вместе с количеством активных вопросов.
// По количеству клиент решает, какие счетчики вопросов доступны для старта.
type CategoryResponse struct {
	ID            uint   `json:"id"`
	UnitID        uint   `json:"unit_id"`
	Title         string `json:"title"`
	Position      int    `json:"position"`
	IsActive      bool   `json:"is_active"`
	QuestionCount int64  `json:"question_count"`
}

// NewListCategoryResponse создает слайс DTO для списка категорий
func NewListCategoryResponse(listings []service.CategoryListing) []*CategoryResponse {
	list := make([]*CategoryResponse, len(listings))
	for i, l := range listings {
		list[i] = &CategoryResponse{
			ID:            l.Category.ID,
			UnitID:        l.Category.UnitID,
			Title:         l.Category.Title,
			Position:      l.Category.Position,
			IsActive:      l.Category.IsActive,
			QuestionCount: l.QuestionCount,
		}
	}
	return list
}
