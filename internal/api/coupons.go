package api

import (
	"errors"
	"net/http"

	"reviewqr-backend/internal/coupon"
	"reviewqr-backend/internal/models"
	"reviewqr-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	Coupons *coupon.Service
	Hub     *ws.Hub
}

func NewCouponHandler(coupons *coupon.Service, hub *ws.Hub) *CouponHandler {
	return &CouponHandler{Coupons: coupons, Hub: hub}
}

func (h *CouponHandler) List(c *gin.Context) {
	businessID := c.Param("id")
	if !businessScopeOK(c, businessID) {
		abortScope(c)
		return
	}

	coupons, err := h.Coupons.List(businessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if coupons == nil {
		coupons = []models.Coupon{}
	}
	c.JSON(http.StatusOK, coupons)
}

type createCouponRequest struct {
	Code       string `json:"code" binding:"required"`
	OfferTitle string `json:"offer_title"`
	OfferText  string `json:"offer_text"`
}

func (h *CouponHandler) Create(c *gin.Context) {
	businessID := c.Param("id")
	if !businessScopeOK(c, businessID) {
		abortScope(c)
		return
	}

	var req createCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.Coupons.Create(businessID, req.Code, req.OfferTitle, req.OfferText)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create coupon"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Suggest backs the code-entry autocomplete.
func (h *CouponHandler) Suggest(c *gin.Context) {
	businessID := c.Param("id")
	if !businessScopeOK(c, businessID) {
		abortScope(c)
		return
	}

	codes, err := h.Coupons.Suggestions(businessID, c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": codes})
}

type couponCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// Verify checks a code without mutating anything; the valid coupon is shown
// to staff, who then confirm the claim as a separate call.
func (h *CouponHandler) Verify(c *gin.Context) {
	businessID := c.Param("id")
	if !businessScopeOK(c, businessID) {
		abortScope(c)
		return
	}

	var req couponCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	found, err := h.Coupons.Verify(businessID, req.Code)
	if err != nil {
		status, msg := couponErrStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, found)
}

type claimCouponRequest struct {
	Code            string `json:"code" binding:"required"`
	CustomerDetails string `json:"customer_details"`
}

func (h *CouponHandler) Claim(c *gin.Context) {
	businessID := c.Param("id")
	if !businessScopeOK(c, businessID) {
		abortScope(c)
		return
	}

	var req claimCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claimed, err := h.Coupons.Claim(businessID, req.Code, req.CustomerDetails)
	if err != nil {
		status, msg := couponErrStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	if h.Hub != nil {
		h.Hub.NotifyCouponClaimed(*claimed)
	}

	c.JSON(http.StatusOK, claimed)
}

func couponErrStatus(err error) (int, string) {
	switch {
	case errors.Is(err, coupon.ErrNotFound):
		return http.StatusNotFound, "No coupon found with this code"
	case errors.Is(err, coupon.ErrClaimed):
		return http.StatusConflict, "This coupon has already been claimed"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
