package api

import (
	"net/http"

	"reviewqr-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CallbackHandler struct {
	DB *gorm.DB
}

func NewCallbackHandler(db *gorm.DB) *CallbackHandler {
	return &CallbackHandler{DB: db}
}

type callbackRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone" binding:"required"`
	PreferredTime string `json:"preferred_time"`
	Message       string `json:"message"`
}

func (h *CallbackHandler) Create(c *gin.Context) {
	businessID := c.Param("id")
	if !businessScopeOK(c, businessID) {
		abortScope(c)
		return
	}

	var req callbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cb := models.CallbackRequest{
		ID:            uuid.NewString(),
		BusinessID:    businessID,
		Name:          req.Name,
		Phone:         req.Phone,
		PreferredTime: req.PreferredTime,
		Message:       req.Message,
	}
	if err := h.DB.Create(&cb).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create callback request"})
		return
	}

	c.JSON(http.StatusCreated, cb)
}

// List is the admin view of pending callback requests across tenants.
func (h *CallbackHandler) List(c *gin.Context) {
	var callbacks []models.CallbackRequest
	if err := h.DB.Order("created_at DESC").Find(&callbacks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if callbacks == nil {
		callbacks = []models.CallbackRequest{}
	}
	c.JSON(http.StatusOK, callbacks)
}
