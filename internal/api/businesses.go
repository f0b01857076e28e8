package api

import (
	"errors"
	"net/http"
	"time"

	"reviewqr-backend/internal/models"
	"reviewqr-backend/internal/permissions"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BusinessHandler struct {
	DB *gorm.DB
}

func NewBusinessHandler(db *gorm.DB) *BusinessHandler {
	return &BusinessHandler{DB: db}
}

// List returns all tenants, newest first. Admin-only via route permission.
func (h *BusinessHandler) List(c *gin.Context) {
	var businesses []models.Business
	if err := h.DB.Order("created_at DESC").Find(&businesses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if businesses == nil {
		businesses = []models.Business{}
	}
	c.JSON(http.StatusOK, businesses)
}

// canReadBusiness: platform roles need clients.view; a client user needs
// business.self.view on its own tenant.
func canReadBusiness(c *gin.Context, id string) bool {
	sess := CurrentSession(c)
	if sess == nil {
		return false
	}
	if permissions.HasPermission(sess.Role, "clients.view") {
		return true
	}
	return sess.BusinessID == id && permissions.HasPermission(sess.Role, "business.self.view")
}

// canEditBusiness: platform roles need clients.edit; a client user needs
// business.self.edit on its own tenant. Notably fsr holds neither.
func canEditBusiness(c *gin.Context, id string) bool {
	sess := CurrentSession(c)
	if sess == nil {
		return false
	}
	if permissions.HasPermission(sess.Role, "clients.edit") {
		return true
	}
	return sess.BusinessID == id && permissions.HasPermission(sess.Role, "business.self.edit")
}

func (h *BusinessHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !canReadBusiness(c, id) {
		abortScope(c)
		return
	}

	var biz models.Business
	err := h.DB.First(&biz, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, biz)
}

type updateBusinessRequest struct {
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	Address             string     `json:"address"`
	LogoURL             string     `json:"logo_url"`
	LogoGlyph           string     `json:"logo_glyph"`
	Theme               string     `json:"theme"`
	GoogleReviewLink    string     `json:"google_review_link"`
	Services            []string   `json:"services"`
	Staff               []string   `json:"staff"`
	Qualities           []string   `json:"qualities"`
	InstagramOfferTitle string     `json:"instagram_offer_title"`
	InstagramOfferText  string     `json:"instagram_offer_text"`
	SubscriptionStatus  string     `json:"subscription_status"`
	SubscriptionExpiry  *time.Time `json:"subscription_expiry"`
}

// Update applies settings edits. Businesses are never hard-deleted; admins
// deactivate them through subscription_status instead.
func (h *BusinessHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if !canEditBusiness(c, id) {
		abortScope(c)
		return
	}

	var exists int64
	h.DB.Model(&models.Business{}).Where("id = ?", id).Count(&exists)
	if exists == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	var req updateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Subscription fields are billing state and only admins change them.
	if sess := CurrentSession(c); sess != nil && !permissions.HasPermission(sess.Role, "clients.edit") {
		if req.SubscriptionStatus != "" || req.SubscriptionExpiry != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Subscription fields are managed by the platform"})
			return
		}
	}

	updateData := map[string]interface{}{}
	if req.Name != "" {
		updateData["name"] = req.Name
	}
	if req.Email != "" {
		updateData["email"] = req.Email
	}
	if req.Phone != "" {
		updateData["phone"] = req.Phone
	}
	if req.Address != "" {
		updateData["address"] = req.Address
	}
	if req.LogoURL != "" {
		updateData["logo_url"] = req.LogoURL
	}
	if req.LogoGlyph != "" {
		updateData["logo_glyph"] = req.LogoGlyph
	}
	if req.Theme != "" {
		updateData["theme"] = req.Theme
	}
	if req.GoogleReviewLink != "" {
		updateData["google_review_link"] = req.GoogleReviewLink
	}
	if req.Services != nil {
		updateData["services"] = models.StringList(req.Services)
	}
	if req.Staff != nil {
		updateData["staff"] = models.StringList(req.Staff)
	}
	if req.Qualities != nil {
		updateData["qualities"] = models.StringList(req.Qualities)
	}
	if req.InstagramOfferTitle != "" {
		updateData["instagram_offer_title"] = req.InstagramOfferTitle
	}
	if req.InstagramOfferText != "" {
		updateData["instagram_offer_text"] = req.InstagramOfferText
	}
	if req.SubscriptionStatus != "" {
		updateData["subscription_status"] = req.SubscriptionStatus
	}
	if req.SubscriptionExpiry != nil {
		updateData["subscription_expiry"] = req.SubscriptionExpiry
	}

	if len(updateData) > 0 {
		if err := h.DB.Model(&models.Business{}).Where("id = ?", id).Updates(updateData).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update business"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "Business updated"})
}
