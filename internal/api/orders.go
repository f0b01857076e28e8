package api

import (
	"errors"
	"net/http"

	"reviewqr-backend/internal/models"
	"reviewqr-backend/internal/order"
	"reviewqr-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	Orders *order.Service
	Hub    *ws.Hub
}

func NewOrderHandler(orders *order.Service, hub *ws.Hub) *OrderHandler {
	return &OrderHandler{Orders: orders, Hub: hub}
}

func (h *OrderHandler) Create(c *gin.Context) {
	businessID := c.Param("id")
	if !businessScopeOK(c, businessID) {
		abortScope(c)
		return
	}

	var in order.Checkout
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.Orders.Create(businessID, in)
	if err != nil {
		if errors.Is(err, order.ErrShortPaymentRef) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, o)
}

func (h *OrderHandler) List(c *gin.Context) {
	businessID := c.Param("id")
	if !businessScopeOK(c, businessID) {
		abortScope(c)
		return
	}

	orders, err := h.Orders.List(businessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if orders == nil {
		orders = []models.QROrder{}
	}
	c.JSON(http.StatusOK, orders)
}

// ListAll is the admin shipment board across all tenants.
func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.Orders.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if orders == nil {
		orders = []models.QROrder{}
	}
	c.JSON(http.StatusOK, orders)
}

type updateStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	Carrier    string `json:"carrier"`
	TrackingID string `json:"tracking_id"`
}

// UpdateStatus advances a shipment; admin-only, never driven by end users.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.Orders.UpdateStatus(c.Param("orderId"), req.Status, req.Carrier, req.TrackingID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, order.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Invalid status transition"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if h.Hub != nil {
		h.Hub.NotifyOrderStatus(*o)
	}

	c.JSON(http.StatusOK, o)
}
