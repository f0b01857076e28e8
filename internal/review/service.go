package review

import (
	"errors"

	"reviewqr-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("review_not_found")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// PublicRatingThreshold: ratings above it are shown publicly and routed to
// the "post to Google" suggestion; lower ratings stay private feedback.
const PublicRatingThreshold = 3

// Submission is the denormalized answer set collected by the review wizard.
type Submission struct {
	CustomerName  string   `json:"customer_name"`
	CustomerPhone string   `json:"customer_phone"`
	Rating        int      `json:"rating" binding:"required"`
	Comment       string   `json:"comment"`
	Qualities     []string `json:"qualities"`
	Feelings      []string `json:"feelings"`
	ServiceUsed   string   `json:"service_used"`
	StaffMember   string   `json:"staff_member"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Submit creates one review row. Visibility is derived from the rating here
// and never recomputed; posted_to_google always starts false and is flipped
// elsewhere once the customer actually posts.
func (s *Service) Submit(businessID string, sub Submission) (*models.Review, error) {
	if sub.Rating < 1 || sub.Rating > 5 {
		return nil, ErrInvalidRating
	}

	r := models.Review{
		ID:             uuid.NewString(),
		BusinessID:     businessID,
		CustomerName:   sub.CustomerName,
		CustomerPhone:  sub.CustomerPhone,
		Rating:         sub.Rating,
		Comment:        sub.Comment,
		Qualities:      models.StringList(sub.Qualities),
		Feelings:       models.StringList(sub.Feelings),
		ServiceUsed:    sub.ServiceUsed,
		StaffMember:    sub.StaffMember,
		IsPublic:       sub.Rating > PublicRatingThreshold,
		PostedToGoogle: false,
	}

	if err := s.db.Create(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns a business's reviews, newest first.
func (s *Service) List(businessID string) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.Where("business_id = ?", businessID).
		Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

// Delete removes a review from the dashboard; the only mutation reviews
// support after creation.
func (s *Service) Delete(businessID, reviewID string) error {
	res := s.db.Where("business_id = ? AND id = ?", businessID, reviewID).
		Delete(&models.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
