package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/elearn-api/internal/handler/dto"
	apperrors "github.com/yourusername/elearn-api/internal/pkg/errors"
	"github.com/yourusername/elearn-api/internal/service"
	"github.com/yourusername/elearn-api/internal/service/attemptengine"
)

// AttemptHandler обрабатывает запросы прохождения попыток
type AttemptHandler struct {
	attemptService *service.AttemptService
	leaderboardTTL time.Duration
}

// NewAttemptHandler создает новый обработчик попыток
func NewAttemptHandler(attemptService *service.AttemptService, leaderboardTTL time.Duration) *AttemptHandler {
	return &AttemptHandler{
		attemptService: attemptService,
		leaderboardTTL: leaderboardTTL,
	}
}

// StartAttemptRequest представляет запрос на старт попытки
type StartAttemptRequest struct {
	Mode        string `json:"mode" binding:"required,oneof=A B C"`
	Count       int    `json:"count" binding:"required"`
	UnitID      uint   `json:"unit_id,omitempty"`
	CategoryID  uint   `json:"category_id,omitempty"`
	CategoryIDs []uint `json:"category_ids,omitempty"`
}

// StartAttempt обрабатывает запрос на старт новой попытки
// POST /api/attempts
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		h.handleAttemptError(c, apperrors.ErrUnauthorized)
		return
	}

	var req StartAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	step, err := h.attemptService.StartAttempt(userID, attemptengine.SelectionRequest{
		Mode:           req.Mode,
		RequestedCount: req.Count,
		UnitID:         req.UnitID,
		CategoryID:     req.CategoryID,
		CategoryIDs:    req.CategoryIDs,
	})
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAttemptStepResponse(step))
}

// AnswerRequest представляет ответ учащегося на текущий вопрос
type AnswerRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

// Answer обрабатывает ответ на текущий вопрос попытки
// POST /api/attempts/:attempt_id/answers
func (h *AttemptHandler) Answer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		h.handleAttemptError(c, apperrors.ErrUnauthorized)
		return
	}
	attemptID := c.Param("attempt_id")

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	step, err := h.attemptService.Answer(userID, attemptID, req.QuestionID, req.Answer)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptStepResponse(step))
}

// GetResult возвращает итог завершенной попытки с разбором
// GET /api/attempts/:attempt_id/result
func (h *AttemptHandler) GetResult(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		h.handleAttemptError(c, apperrors.ErrUnauthorized)
		return
	}
	attemptID := c.Param("attempt_id")

	result, err := h.attemptService.GetResult(userID, attemptID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptResultResponse(result))
}

// ListAttempts возвращает историю попыток пользователя
// GET /api/attempts
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		h.handleAttemptError(c, apperrors.ErrUnauthorized)
		return
	}

	page, pageSize := paginationParams(c)
	attempts, total, err := h.attemptService.ListAttempts(userID, page, pageSize)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedAttemptResponse(attempts, total, page, pageSize))
}

// GetLeaderboard возвращает таблицу лидеров
// GET /api/leaderboard
func (h *AttemptHandler) GetLeaderboard(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	entries, err := h.attemptService.Leaderboard(limit, h.leaderboardTTL)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": dto.NewLeaderboardResponse(entries),
		"total":       len(entries),
	})
}

// ExportAttemptResult экспортирует разбор попытки в CSV или Excel формате
// GET /api/admin/attempts/:attempt_id/export?format=csv|xlsx
func (h *AttemptHandler) ExportAttemptResult(c *gin.Context) {
	attemptID := c.Param("attempt_id")
	format := c.DefaultQuery("format", "csv")

	result, err := h.attemptService.GetResultByID(attemptID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	filename := fmt.Sprintf("attempt_%s_%s", attemptID, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, result, filename)
	default:
		h.exportCSV(c, result, filename)
	}
}

// exportCSV экспортирует разбор попытки в CSV с правильным экранированием спецсимволов
func (h *AttemptHandler) exportCSV(c *gin.Context, result *service.AttemptResult, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// Используем encoding/csv для правильного экранирования запятых/кавычек
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"Позиция", "Вопрос", "Ответ учащегося", "Правильный ответ", "Верно", "Пояснение"})

	for _, item := range result.Items {
		correct := "Нет"
		if item.IsCorrect {
			correct = "Да"
		}
		userAnswer := item.UserLabel
		if !item.Answered {
			userAnswer = "-"
		}

		writer.Write([]string{
			strconv.Itoa(item.Seq),
			sanitizeForExcel(item.Question.Body),
			userAnswer,
			item.Question.CorrectLabel(),
			correct,
			sanitizeForExcel(item.Question.Explanation),
		})
	}
}

// exportXLSX экспортирует разбор попытки в Excel с использованием StreamWriter
func (h *AttemptHandler) exportXLSX(c *gin.Context, result *service.AttemptResult, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Результат"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[AttemptHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR", "message": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Позиция", "Вопрос", "Ответ учащегося", "Правильный ответ", "Верно", "Пояснение"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[AttemptHandler] Ошибка записи заголовков: %v", err)
	}

	for i, item := range result.Items {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		correct := "Нет"
		if item.IsCorrect {
			correct = "Да"
		}
		userAnswer := item.UserLabel
		if !item.Answered {
			userAnswer = "-"
		}

		row := []interface{}{item.Seq, sanitizeForExcel(item.Question.Body), userAnswer, item.Question.CorrectLabel(), correct, sanitizeForExcel(item.Question.Explanation)}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[AttemptHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[AttemptHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[AttemptHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// handleAttemptError транслирует ошибки движка попыток в пары (HTTP статус, код).
// Тело ошибки всегда имеет форму {"code": ..., "message": ...}.
func (h *AttemptHandler) handleAttemptError(c *gin.Context, err error) {
	type mapping struct {
		target error
		status int
		code   string
	}

	// Порядок важен: более специфичные ошибки раньше общих классов
	mappings := []mapping{
		{attemptengine.ErrInvalidCount, http.StatusBadRequest, "INVALID_COUNT"},
		{attemptengine.ErrInvalidAnswer, http.StatusBadRequest, "INVALID_ANSWER"},
		{attemptengine.ErrInvalidUnit, http.StatusBadRequest, "INVALID_UNIT"},
		{attemptengine.ErrInvalidCategory, http.StatusBadRequest, "INVALID_CATEGORY"},
		{attemptengine.ErrCategoryNotFound, http.StatusNotFound, "CATEGORY_NOT_FOUND"},
		{attemptengine.ErrQuestionNotFound, http.StatusNotFound, "QUESTION_NOT_FOUND"},
		{attemptengine.ErrNoQuestions, http.StatusNotFound, "NO_QUESTIONS"},
		{attemptengine.ErrAttemptNotFound, http.StatusNotFound, "ATTEMPT_NOT_FOUND"},
		{attemptengine.ErrAttemptNotActive, http.StatusConflict, "ATTEMPT_NOT_ACTIVE"},
		{attemptengine.ErrInvalidSequence, http.StatusConflict, "INVALID_SEQUENCE"},
		{attemptengine.ErrAlreadyAnswered, http.StatusConflict, "ALREADY_ANSWERED"},
		{attemptengine.ErrAttemptNotCompleted, http.StatusConflict, "ATTEMPT_NOT_COMPLETED"},
		{attemptengine.ErrAttemptExpired, http.StatusGone, "ATTEMPT_EXPIRED"},
		{apperrors.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{apperrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{apperrors.ErrValidation, http.StatusBadRequest, "INVALID_REQUEST"},
		{apperrors.ErrConflict, http.StatusConflict, "CONFLICT"},
	}

	for _, m := range mappings {
		if errors.Is(err, m.target) {
			c.JSON(m.status, gin.H{"code": m.code, "message": m.target.Error()})
			return
		}
	}

	log.Printf("ERROR: Internal server error in AttemptHandler: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR", "message": "Internal server error"})
}
