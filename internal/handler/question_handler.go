package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/elearn-api/internal/domain/entity"
	"github.com/yourusername/elearn-api/internal/handler/dto"
	apperrors "github.com/yourusername/elearn-api/internal/pkg/errors"
	"github.com/yourusername/elearn-api/internal/service"
)

// maxImportFileSize ограничивает размер загружаемого CSV файла (5 МБ)
const maxImportFileSize = 5 << 20

// QuestionHandler обрабатывает административные запросы каталога вопросов
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ChoiceRequest представляет один вариант ответа в запросе
type ChoiceRequest struct {
	Label     string `json:"label" binding:"required,oneof=A B C D"`
	Body      string `json:"body" binding:"required,min=1,max=500"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionRequest представляет запрос на создание или обновление вопроса
type QuestionRequest struct {
	Body        string          `json:"body" binding:"required,min=3,max=1000"`
	Explanation string          `json:"explanation" binding:"omitempty,max=2000"`
	Choices     []ChoiceRequest `json:"choices" binding:"required,len=4"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

func (r *QuestionRequest) toChoices() entity.ChoiceList {
	choices := make(entity.ChoiceList, 0, len(r.Choices))
	for _, ch := range r.Choices {
		choices = append(choices, entity.Choice{
			Label:     ch.Label,
			Body:      ch.Body,
			IsCorrect: ch.IsCorrect,
		})
	}
	return choices
}

// ListQuestions возвращает вопросы категории с пагинацией
// GET /api/admin/categories/:category_id/questions
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint) // Получаем из контекста

	page, pageSize := paginationParams(c)
	questions, total, err := h.questionService.ListQuestions(categoryID, page, pageSize)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedQuestionResponse(questions, total, page, pageSize))
}

// GetQuestion возвращает вопрос по ID
// GET /api/admin/questions/:question_id
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	question, err := h.questionService.GetQuestionByID(questionID)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAdminQuestionResponse(question))
}

// CreateQuestion создает вопрос в категории
// POST /api/admin/categories/:category_id/questions
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	question := &entity.Question{
		CategoryID:  categoryID,
		Body:        req.Body,
		Explanation: req.Explanation,
		Choices:     req.toChoices(),
		IsActive:    isActive,
	}

	if err := h.questionService.CreateQuestion(question); err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAdminQuestionResponse(question))
}

// UpdateQuestion обновляет вопрос
// PUT /api/admin/questions/:question_id
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	existing, err := h.questionService.GetQuestionByID(questionID)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	existing.Body = req.Body
	existing.Explanation = req.Explanation
	existing.Choices = req.toChoices()
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	if err := h.questionService.UpdateQuestion(existing); err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAdminQuestionResponse(existing))
}

// DeleteQuestion удаляет вопрос
// DELETE /api/admin/questions/:question_id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	if err := h.questionService.DeleteQuestion(questionID); err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// ImportQuestions загружает вопросы в категорию из CSV файла.
// Формат: body, explanation, choice_a..choice_d, correct_label.
// POST /api/admin/categories/:category_id/questions/import
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "file is required"})
		return
	}
	if fileHeader.Size > maxImportFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "file is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("[QuestionHandler] Не удалось открыть загруженный файл: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR", "message": "Internal server error"})
		return
	}
	defer file.Close()

	imported, err := h.questionService.ImportCSV(categoryID, file)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Questions imported successfully",
		"imported": imported,
	})
}

// handleQuestionError обрабатывает ошибки сервиса вопросов
func (h *QuestionHandler) handleQuestionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "message": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"code": "CONFLICT", "message": err.Error()})
	default:
		log.Printf("ERROR: Internal server error in QuestionHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR", "message": "Internal server error"})
	}
}
