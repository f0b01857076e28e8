package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// StringList stores a []string as a JSON text column so the same model works
// on sqlite and postgres.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	}
	return errors.New("StringList: unsupported source type")
}

// Business represents a tenant: the shop or service displaying a QR code.
type Business struct {
	ID                  string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name                string     `gorm:"type:varchar(255);not null" json:"name"`
	Email               string     `gorm:"type:varchar(255)" json:"email"`
	Phone               string     `gorm:"type:varchar(50)" json:"phone"`
	Address             string     `gorm:"type:text" json:"address"`
	LogoURL             string     `gorm:"type:text" json:"logo_url"`
	LogoGlyph           string     `gorm:"type:varchar(16)" json:"logo_glyph"`
	Theme               string     `gorm:"type:varchar(50)" json:"theme"`
	GoogleReviewLink    string     `gorm:"type:text" json:"google_review_link"`
	Services            StringList `gorm:"type:text" json:"services"`
	Staff               StringList `gorm:"type:text" json:"staff"`
	Qualities           StringList `gorm:"type:text" json:"qualities"`
	InstagramOfferTitle string     `gorm:"type:varchar(255)" json:"instagram_offer_title"`
	InstagramOfferText  string     `gorm:"type:text" json:"instagram_offer_text"`
	ReferralCode        string     `gorm:"type:varchar(50)" json:"referral_code"` // FSR who onboarded the business
	SubscriptionStatus  string     `gorm:"type:varchar(20);default:'inactive'" json:"subscription_status"`
	SubscriptionExpiry  *time.Time `json:"subscription_expiry"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Business) TableName() string {
	return "businesses"
}

// Review is immutable after creation except for deletion from the dashboard.
// IsPublic and PostedToGoogle are derived once at creation from the rating.
type Review struct {
	ID             string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	BusinessID     string     `gorm:"index;type:varchar(64);not null" json:"business_id"`
	CustomerName   string     `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone  string     `gorm:"type:varchar(50)" json:"customer_phone"`
	Rating         int        `gorm:"not null" json:"rating"`
	Comment        string     `gorm:"type:text" json:"comment"`
	Qualities      StringList `gorm:"type:text" json:"qualities"`
	Feelings       StringList `gorm:"type:text" json:"feelings"`
	ServiceUsed    string     `gorm:"type:varchar(255)" json:"service_used"`
	StaffMember    string     `gorm:"type:varchar(255)" json:"staff_member"`
	PostedToGoogle bool       `gorm:"default:false" json:"posted_to_google"`
	IsPublic       bool       `gorm:"default:false" json:"is_public"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}

const (
	CouponActive  = "active"
	CouponClaimed = "claimed"
)

// Coupon transitions active -> claimed exactly once, through the explicit
// verify-then-claim sequence.
type Coupon struct {
	ID              string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	BusinessID      string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_coupons_business_code" json:"business_id"`
	Code            string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_coupons_business_code" json:"code"`
	Status          string     `gorm:"type:varchar(20);default:'active'" json:"status"`
	OfferTitle      string     `gorm:"type:varchar(255)" json:"offer_title"`
	OfferText       string     `gorm:"type:text" json:"offer_text"`
	CustomerDetails string     `gorm:"type:text" json:"customer_details"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ClaimedAt       *time.Time `json:"claimed_at"`
}

func (Coupon) TableName() string {
	return "coupons"
}

const (
	OrderProcessing = "Processing"
	OrderInTransit  = "In Transit"
	OrderDelivered  = "Delivered"
)

// QROrder is a standee order placed at checkout. Status is advanced by an
// admin, never by the client.
type QROrder struct {
	ID           string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	BusinessID   string          `gorm:"index;type:varchar(64);not null" json:"business_id"`
	ShippingName string          `gorm:"type:varchar(255)" json:"shipping_name"`
	Address      string          `gorm:"type:text" json:"address"`
	City         string          `gorm:"type:varchar(100)" json:"city"`
	Pincode      string          `gorm:"type:varchar(20)" json:"pincode"`
	Phone        string          `gorm:"type:varchar(50)" json:"phone"`
	Design       string          `gorm:"type:varchar(100)" json:"design"`
	Quantity     int             `gorm:"default:1" json:"quantity"`
	Price        decimal.Decimal `gorm:"type:numeric(10,2)" json:"price"`
	PaymentRef   string          `gorm:"type:varchar(50)" json:"payment_ref"` // UTR entered at manual payment
	Status       string          `gorm:"type:varchar(20);default:'Processing'" json:"status"`
	Carrier      string          `gorm:"type:varchar(100)" json:"carrier"`
	TrackingID   string          `gorm:"type:varchar(100)" json:"tracking_id"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (QROrder) TableName() string {
	return "qr_orders"
}

// CallbackRequest is create-only: a client asking to be phoned back.
type CallbackRequest struct {
	ID            string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	BusinessID    string    `gorm:"index;type:varchar(64);not null" json:"business_id"`
	Name          string    `gorm:"type:varchar(255)" json:"name"`
	Phone         string    `gorm:"type:varchar(50);not null" json:"phone"`
	PreferredTime string    `gorm:"type:varchar(100)" json:"preferred_time"`
	Message       string    `gorm:"type:text" json:"message"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CallbackRequest) TableName() string {
	return "callback_requests"
}

// AdminUser holds console credentials. Platform roles (super_admin, admin,
// fsr) have no business; client users belong to exactly one.
type AdminUser struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"type:varchar(50);not null" json:"role"`
	BusinessID   string    `gorm:"type:varchar(64)" json:"business_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}

// Session is a server-side login with an enforced expiry, replacing any
// client-trusted logged-in flag.
type Session struct {
	Token      string    `gorm:"primaryKey;type:varchar(64)" json:"token"`
	UserID     string    `gorm:"index;type:varchar(64);not null" json:"user_id"`
	Role       string    `gorm:"type:varchar(50);not null" json:"role"`
	BusinessID string    `gorm:"type:varchar(64)" json:"business_id"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

// UsageLog records generation API calls best-effort.
type UsageLog struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Kind      string          `gorm:"type:varchar(20)" json:"kind"` // text or image
	Action    string          `gorm:"type:varchar(100)" json:"action"`
	Input     string          `gorm:"type:text" json:"input"`
	Cost      decimal.Decimal `gorm:"type:numeric(10,6)" json:"cost"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (UsageLog) TableName() string {
	return "usage_logs"
}
