package api

import (
	"errors"
	"net/http"

	"reviewqr-backend/internal/models"
	"reviewqr-backend/internal/review"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	Reviews *review.Service
}

func NewReviewHandler(reviews *review.Service) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews}
}

func (h *ReviewHandler) List(c *gin.Context) {
	businessID := c.Param("id")
	if !businessScopeOK(c, businessID) {
		abortScope(c)
		return
	}

	reviews, err := h.Reviews.List(businessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if reviews == nil {
		reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	businessID := c.Param("id")
	if !businessScopeOK(c, businessID) {
		abortScope(c)
		return
	}

	err := h.Reviews.Delete(businessID, c.Param("reviewId"))
	if errors.Is(err, review.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Review deleted"})
}
