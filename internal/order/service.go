package order

import (
	"errors"
	"strings"

	"reviewqr-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("order_not_found")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrShortPaymentRef   = errors.New("payment reference (UTR) too short")
)

// UTRs from Indian bank/UPI transfers are 12+ characters; anything shorter
// is a typo.
const minPaymentRefLen = 12

// Checkout is the standee order form payload.
type Checkout struct {
	ShippingName string          `json:"shipping_name" binding:"required"`
	Address      string          `json:"address" binding:"required"`
	City         string          `json:"city"`
	Pincode      string          `json:"pincode"`
	Phone        string          `json:"phone" binding:"required"`
	Design       string          `json:"design"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	PaymentRef   string          `json:"payment_ref" binding:"required"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(businessID string, in Checkout) (*models.QROrder, error) {
	if len(strings.TrimSpace(in.PaymentRef)) < minPaymentRefLen {
		return nil, ErrShortPaymentRef
	}
	if in.Quantity < 1 {
		in.Quantity = 1
	}

	o := models.QROrder{
		ID:           uuid.NewString(),
		BusinessID:   businessID,
		ShippingName: in.ShippingName,
		Address:      in.Address,
		City:         in.City,
		Pincode:      in.Pincode,
		Phone:        in.Phone,
		Design:       in.Design,
		Quantity:     in.Quantity,
		Price:        in.Price,
		PaymentRef:   strings.TrimSpace(in.PaymentRef),
		Status:       models.OrderProcessing,
	}
	if err := s.db.Create(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Service) List(businessID string) ([]models.QROrder, error) {
	var orders []models.QROrder
	err := s.db.Where("business_id = ?", businessID).
		Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (s *Service) ListAll() ([]models.QROrder, error) {
	var orders []models.QROrder
	err := s.db.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// UpdateStatus advances an order along Processing -> In Transit -> Delivered.
// Carrier fields may only be set while the order moves into transit. The
// update is guarded on the status read above, so a concurrent advance leaves
// zero rows affected instead of applying twice.
func (s *Service) UpdateStatus(orderID, status, carrier, trackingID string) (*models.QROrder, error) {
	var o models.QROrder
	err := s.db.First(&o, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !ValidTransition(o.Status, status) {
		return nil, ErrInvalidTransition
	}

	updates := map[string]interface{}{"status": status}
	if status == models.OrderInTransit {
		updates["carrier"] = carrier
		updates["tracking_id"] = trackingID
	}
	res := s.db.Model(&models.QROrder{}).
		Where("id = ? AND status = ?", orderID, o.Status).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}

	if err := s.db.First(&o, "id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}
