package database

import (
	"log"
	"os"

	"reviewqr-backend/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoBusinessID is the fixture tenant created at startup so a fresh install
// has something to click around in. Demo rows live in the same tables as live
// data and are never merged with other tenants.
const DemoBusinessID = "pizza-corner"

// Seed creates the super-admin account and the demo business with a few
// sample reviews and coupons. Idempotent: existing rows are left alone.
func Seed(db *gorm.DB) {
	seedSuperAdmin(db)
	seedDemoBusiness(db)
}

func seedSuperAdmin(db *gorm.DB) {
	email := os.Getenv("SUPERADMIN_EMAIL")
	if email == "" {
		email = "admin@reviewqr.local"
	}
	password := os.Getenv("SUPERADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}

	var existing models.AdminUser
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Printf("Failed to check super admin: %v", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash super admin password: %v", err)
		return
	}

	admin := models.AdminUser{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         "super_admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed super admin: %v", err)
		return
	}
	log.Printf("Super admin seeded (%s)", email)
}

func seedDemoBusiness(db *gorm.DB) {
	biz := models.Business{
		ID:                  DemoBusinessID,
		Name:                "Pizza Corner",
		Email:               "hello@pizzacorner.example",
		Phone:               "+91 98765 43210",
		Address:             "12 MG Road, Bengaluru",
		LogoGlyph:           "P",
		Theme:               "crimson",
		Services:            models.StringList{"Dine In", "Takeaway", "Home Delivery"},
		Staff:               models.StringList{"Ravi", "Meena", "Joseph"},
		Qualities:           models.StringList{"Friendly", "Fast Service", "Clean", "Great Taste"},
		InstagramOfferTitle: "Follow us for 10% off",
		InstagramOfferText:  "Show this coupon on your next visit.",
		SubscriptionStatus:  "active",
	}
	if err := db.FirstOrCreate(&biz, models.Business{ID: DemoBusinessID}).Error; err != nil {
		log.Printf("Failed to seed demo business: %v", err)
		return
	}

	var reviewCount int64
	db.Model(&models.Review{}).Where("business_id = ?", DemoBusinessID).Count(&reviewCount)
	if reviewCount == 0 {
		reviews := []models.Review{
			{ID: uuid.NewString(), BusinessID: DemoBusinessID, CustomerName: "Anita", Rating: 5,
				Comment: "Best margherita in town", Qualities: models.StringList{"Great Taste"},
				Feelings: models.StringList{"Happy"}, ServiceUsed: "Dine In", IsPublic: true},
			{ID: uuid.NewString(), BusinessID: DemoBusinessID, CustomerName: "Vikram", Rating: 4,
				Comment: "Quick delivery", Qualities: models.StringList{"Fast Service"},
				Feelings: models.StringList{"Satisfied"}, ServiceUsed: "Home Delivery", IsPublic: true},
			{ID: uuid.NewString(), BusinessID: DemoBusinessID, Rating: 2,
				Comment: "Long wait on a Friday", ServiceUsed: "Dine In", IsPublic: false},
		}
		if err := db.Create(&reviews).Error; err != nil {
			log.Printf("Failed to seed demo reviews: %v", err)
		}
	}

	var couponCount int64
	db.Model(&models.Coupon{}).Where("business_id = ?", DemoBusinessID).Count(&couponCount)
	if couponCount == 0 {
		coupons := []models.Coupon{
			{ID: uuid.NewString(), BusinessID: DemoBusinessID, Code: "PIZ-IG-0001",
				Status: models.CouponActive, OfferTitle: "10% off", OfferText: "Instagram follower offer"},
			{ID: uuid.NewString(), BusinessID: DemoBusinessID, Code: "PIZ-IG-0002",
				Status: models.CouponActive, OfferTitle: "10% off", OfferText: "Instagram follower offer"},
		}
		if err := db.Create(&coupons).Error; err != nil {
			log.Printf("Failed to seed demo coupons: %v", err)
		}
	}
}
