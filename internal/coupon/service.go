package coupon

import (
	"errors"
	"sort"
	"strings"
	"time"

	"reviewqr-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("coupon_not_found")
	ErrClaimed  = errors.New("coupon_already_claimed")
)

// SuggestionLimit caps autocomplete results.
const SuggestionLimit = 50

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(businessID string) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := s.db.Where("business_id = ?", businessID).
		Order("created_at DESC").Find(&coupons).Error
	return coupons, err
}

func (s *Service) Create(businessID, code, offerTitle, offerText string) (*models.Coupon, error) {
	c := models.Coupon{
		ID:         uuid.NewString(),
		BusinessID: businessID,
		Code:       strings.ToUpper(strings.TrimSpace(code)),
		Status:     models.CouponActive,
		OfferTitle: offerTitle,
		OfferText:  offerText,
	}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Verify looks up an entered code for a business and returns the coupon only
// if it is still active. Verification never mutates state; claiming is a
// separate, explicit step.
func (s *Service) Verify(businessID, code string) (*models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var c models.Coupon
	err := s.db.Where("business_id = ? AND code = ?", businessID, code).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if c.Status == models.CouponClaimed {
		return nil, ErrClaimed
	}
	return &c, nil
}

// Claim transitions an active coupon to claimed exactly once. The guarded
// update keeps a double submit from claiming twice: the second one sees zero
// rows affected and gets ErrClaimed.
func (s *Service) Claim(businessID, code, customerDetails string) (*models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	now := time.Now().UTC()

	res := s.db.Model(&models.Coupon{}).
		Where("business_id = ? AND code = ? AND status = ?", businessID, code, models.CouponActive).
		Updates(map[string]interface{}{
			"status":           models.CouponClaimed,
			"customer_details": customerDetails,
			"claimed_at":       now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish an unknown code from one already claimed.
		var c models.Coupon
		err := s.db.Where("business_id = ? AND code = ?", businessID, code).First(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrClaimed
	}

	var c models.Coupon
	if err := s.db.Where("business_id = ? AND code = ?", businessID, code).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Suggest implements the code-entry autocomplete over an already-fetched
// list: upper-case the input, keep codes containing it whose status is not
// claimed, sort ascending, truncate.
func Suggest(coupons []models.Coupon, input string) []string {
	q := strings.ToUpper(strings.TrimSpace(input))

	codes := make([]string, 0, len(coupons))
	for _, c := range coupons {
		if c.Status == models.CouponClaimed {
			continue
		}
		if strings.Contains(c.Code, q) {
			codes = append(codes, c.Code)
		}
	}
	sort.Strings(codes)
	if len(codes) > SuggestionLimit {
		codes = codes[:SuggestionLimit]
	}
	return codes
}

// Suggestions fetches a business's coupons and filters them through Suggest.
func (s *Service) Suggestions(businessID, input string) ([]string, error) {
	coupons, err := s.List(businessID)
	if err != nil {
		return nil, err
	}
	return Suggest(coupons, input), nil
}
