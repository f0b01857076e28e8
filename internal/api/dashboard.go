package api

import (
	"net/http"

	"reviewqr-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

// Stats returns the headline counters. Client users see their own tenant;
// platform roles see totals across all tenants.
func (h *DashboardHandler) Stats(c *gin.Context) {
	var stats struct {
		Businesses    int64 `json:"businesses"`
		Reviews       int64 `json:"reviews"`
		PublicReviews int64 `json:"public_reviews"`
		ActiveCoupons int64 `json:"active_coupons"`
		OrdersPending int64 `json:"orders_pending"`
		OrdersShipped int64 `json:"orders_shipped"`
		Callbacks     int64 `json:"callbacks"`
	}

	scope := func(q *gorm.DB) *gorm.DB { return q }
	sess := CurrentSession(c)
	if sess != nil && sess.BusinessID != "" {
		id := sess.BusinessID
		scope = func(q *gorm.DB) *gorm.DB { return q.Where("business_id = ?", id) }
		stats.Businesses = 1
	} else {
		h.DB.Model(&models.Business{}).Count(&stats.Businesses)
	}

	scope(h.DB.Model(&models.Review{})).Count(&stats.Reviews)
	scope(h.DB.Model(&models.Review{})).Where("is_public = ?", true).Count(&stats.PublicReviews)
	scope(h.DB.Model(&models.Coupon{})).Where("status = ?", models.CouponActive).Count(&stats.ActiveCoupons)
	scope(h.DB.Model(&models.QROrder{})).Where("status = ?", models.OrderProcessing).Count(&stats.OrdersPending)
	scope(h.DB.Model(&models.QROrder{})).Where("status IN ?", []string{models.OrderInTransit, models.OrderDelivered}).Count(&stats.OrdersShipped)
	scope(h.DB.Model(&models.CallbackRequest{})).Count(&stats.Callbacks)

	c.JSON(http.StatusOK, stats)
}
