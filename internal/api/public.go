package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"reviewqr-backend/internal/config"
	"reviewqr-backend/internal/models"
	"reviewqr-backend/internal/qrimg"
	"reviewqr-backend/internal/review"
	"reviewqr-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PublicHandler serves the unauthenticated customer-facing flows: the review
// form bootstrap, review submission, onboarding, and QR rendering.
type PublicHandler struct {
	DB      *gorm.DB
	Reviews *review.Service
	QR      *qrimg.Client
	Hub     *ws.Hub
	Config  *config.Config
}

func NewPublicHandler(db *gorm.DB, reviews *review.Service, qr *qrimg.Client, hub *ws.Hub, cfg *config.Config) *PublicHandler {
	return &PublicHandler{DB: db, Reviews: reviews, QR: qr, Hub: hub, Config: cfg}
}

// GetBusiness returns only what the review form needs; contact and billing
// fields stay private.
func (h *PublicHandler) GetBusiness(c *gin.Context) {
	id := c.Param("id")

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

	c.JSON(http.StatusOK, gin.H{
		"id":                    biz.ID,
		"name":                  biz.Name,
		"logo_url":              biz.LogoURL,
		"logo_glyph":            biz.LogoGlyph,
		"theme":                 biz.Theme,
		"google_review_link":    biz.GoogleReviewLink,
		"services":              biz.Services,
		"staff":                 biz.Staff,
		"qualities":             biz.Qualities,
		"instagram_offer_title": biz.InstagramOfferTitle,
		"instagram_offer_text":  biz.InstagramOfferText,
	})
}

func (h *PublicHandler) SubmitReview(c *gin.Context) {
	businessID := c.Param("id")

	var exists int64
	h.DB.Model(&models.Business{}).Where("id = ?", businessID).Count(&exists)
	if exists == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	var sub review.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := h.Reviews.Submit(businessID, sub)
	if err != nil {
		if errors.Is(err, review.ErrInvalidRating) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.Hub != nil {
		h.Hub.NotifyReview(*r)
	}

	c.JSON(http.StatusCreated, r)
}

type onboardRequest struct {
	Name         string   `json:"name" binding:"required"`
	Email        string   `json:"email" binding:"required"`
	Phone        string   `json:"phone" binding:"required"`
	Address      string   `json:"address"`
	Services     []string `json:"services"`
	Staff        []string `json:"staff"`
	Qualities    []string `json:"qualities"`
	ReferralCode string   `json:"referral_code"`
}

// Onboard creates a business with an inactive subscription; activation
// happens after payment, from the admin console.
func (h *PublicHandler) Onboard(c *gin.Context) {
	var req onboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	biz := models.Business{
		ID:                 slugify(req.Name) + "-" + uuid.NewString()[:8],
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Address:            req.Address,
		Services:           models.StringList(req.Services),
		Staff:              models.StringList(req.Staff),
		Qualities:          models.StringList(req.Qualities),
		ReferralCode:       req.ReferralCode,
		SubscriptionStatus: "inactive",
	}

	if err := h.DB.Create(&biz).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create business"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": biz.ID, "status": "Onboarding submitted"})
}

// QRCode proxies the rendered PNG for a business's review URL.
func (h *PublicHandler) QRCode(c *gin.Context) {
	id := c.Param("id")

	var exists int64
	h.DB.Model(&models.Business{}).Where("id = ?", id).Count(&exists)
	if exists == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	size, _ := strconv.Atoi(c.DefaultQuery("size", "300"))
	payload := strings.TrimRight(h.Config.ReviewBaseURL, "/") + "/" + id

	png, err := h.QR.Render(payload, size)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "QR service unavailable: " + err.Error()})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
