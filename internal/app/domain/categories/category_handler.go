package categories

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CategoryHandlers struct {
	categoryService Service
	logger          *zap.Logger
}

func NewCategoryHandlers(categoryService Service, logger *zap.Logger) *CategoryHandlers {
	return &CategoryHandlers{
		categoryService: categoryService,
		logger:          logger,
	}
}

func (h *CategoryHandlers) GetCategories(c *gin.Context) {
	result := h.categoryService.GetCategories(c.Request.Context())
	if result.Degraded() {
		h.logger.Warn("serving degraded category list",
			zap.String("source", string(result.Source)), zap.Error(result.Reason))
	}
	// The category list never 500s; defaults back the worst case.
	c.JSON(http.StatusOK, gin.H{"data": result.Data, "source": result.Source})
}

func (h *CategoryHandlers) GetCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to fetch category", zap.String("category_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch category"})
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	c.JSON(http.StatusOK, category)
}
