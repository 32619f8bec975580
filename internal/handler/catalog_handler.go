package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/elearn-api/internal/handler/dto"
	apperrors "github.com/yourusername/elearn-api/internal/pkg/errors"
	"github.com/yourusername/elearn-api/internal/service"
)

// CatalogHandler обрабатывает запросы каталога разделов и категорий
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler создает новый обработчик каталога
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListUnits возвращает разделы каталога
// GET /api/units
func (h *CatalogHandler) ListUnits(c *gin.Context) {
	// Администратор видит и скрытые разделы
	activeOnly := c.GetString("user_role") != "admin"

	units, err := h.catalogService.ListUnits(activeOnly)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"units": dto.NewListUnitResponse(units)})
}

// ListCategories возвращает категории раздела с количеством активных вопросов
// GET /api/units/:unit_id/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	unitID := c.MustGet("unitID").(uint) // Получаем из контекста
	activeOnly := c.GetString("user_role") != "admin"

	listings, err := h.catalogService.ListCategories(unitID, activeOnly)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": dto.NewListCategoryResponse(listings)})
}

// UnitRequest представляет запрос на создание или обновление раздела
type UnitRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Position    int    `json:"position"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// CreateUnit создает новый раздел
// POST /api/admin/units
func (h *CatalogHandler) CreateUnit(c *gin.Context) {
	var req UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	unit, err := h.catalogService.CreateUnit(req.Title, req.Description, req.Position)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUnitResponse(unit))
}

// UpdateUnit обновляет раздел
// PUT /api/admin/units/:unit_id
func (h *CatalogHandler) UpdateUnit(c *gin.Context) {
	unitID := c.MustGet("unitID").(uint)

	var req UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	unit, err := h.catalogService.UpdateUnit(unitID, req.Title, req.Description, req.Position, isActive)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUnitResponse(unit))
}

// DeleteUnit удаляет раздел без категорий
// DELETE /api/admin/units/:unit_id
func (h *CatalogHandler) DeleteUnit(c *gin.Context) {
	unitID := c.MustGet("unitID").(uint)

	if err := h.catalogService.DeleteUnit(unitID); err != nil {
		h.handleCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unit deleted successfully"})
}

// CategoryRequest представляет запрос на создание или обновление категории
type CategoryRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=200"`
	Position int    `json:"position"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// CreateCategory создает категорию в разделе
// POST /api/admin/units/:unit_id/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	unitID := c.MustGet("unitID").(uint)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	category, err := h.catalogService.CreateCategory(unitID, req.Title, req.Position)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory обновляет категорию
// PUT /api/admin/categories/:category_id
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	category, err := h.catalogService.UpdateCategory(categoryID, req.Title, req.Position, isActive)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory удаляет категорию без вопросов
// DELETE /api/admin/categories/:category_id
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	if err := h.catalogService.DeleteCategory(categoryID); err != nil {
		h.handleCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// handleCatalogError обрабатывает ошибки сервиса каталога
func (h *CatalogHandler) handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "message": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"code": "CONFLICT", "message": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
	default:
		log.Printf("ERROR: Internal server error in CatalogHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR", "message": "Internal server error"})
	}
}
