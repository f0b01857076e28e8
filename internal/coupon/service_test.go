package coupon

import (
	"errors"
	"fmt"
	"testing"

	"reviewqr-backend/internal/database"
	"reviewqr-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCoupon(t *testing.T, db *gorm.DB, businessID, code, status string) {
	t.Helper()
	c := models.Coupon{
		ID:         uuid.NewString(),
		BusinessID: businessID,
		Code:       code,
		Status:     status,
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed coupon %s: %v", code, err)
	}
}

func TestVerify(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	seedCoupon(t, db, "pizza-corner", "PIZ-IG-0001", models.CouponActive)
	seedCoupon(t, db, "pizza-corner", "PIZ-IG-0002", models.CouponClaimed)

	c, err := svc.Verify("pizza-corner", "piz-ig-0001")
	if err != nil {
		t.Fatalf("Verify active: %v", err)
	}
	if c.Code != "PIZ-IG-0001" || c.Status != models.CouponActive {
		t.Errorf("Verify returned %+v", c)
	}

	if _, err := svc.Verify("pizza-corner", "PIZ-IG-0002"); !errors.Is(err, ErrClaimed) {
		t.Errorf("Verify claimed: got %v, want ErrClaimed", err)
	}

	if _, err := svc.Verify("pizza-corner", "PIZ-IG-1234"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Verify unknown: got %v, want ErrNotFound", err)
	}

	// Verification never mutates: the active coupon is still active.
	var again models.Coupon
	if err := db.Where("code = ?", "PIZ-IG-0001").First(&again).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Status != models.CouponActive || again.ClaimedAt != nil {
		t.Errorf("Verify mutated coupon: %+v", again)
	}
}

func TestVerifyWrongBusiness(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	seedCoupon(t, db, "pizza-corner", "PIZ-IG-0001", models.CouponActive)

	if _, err := svc.Verify("other-biz", "PIZ-IG-0001"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Verify across tenants: got %v, want ErrNotFound", err)
	}
}

func TestClaim(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	seedCoupon(t, db, "pizza-corner", "PIZ-IG-0001", models.CouponActive)

	c, err := svc.Claim("pizza-corner", "PIZ-IG-0001", "Anita / 98765")
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if c.Status != models.CouponClaimed || c.ClaimedAt == nil || c.CustomerDetails != "Anita / 98765" {
		t.Errorf("Claim result %+v", c)
	}

	// Second claim is rejected, terminal state.
	if _, err := svc.Claim("pizza-corner", "PIZ-IG-0001", "someone else"); !errors.Is(err, ErrClaimed) {
		t.Errorf("double Claim: got %v, want ErrClaimed", err)
	}

	if _, err := svc.Claim("pizza-corner", "NOPE-0000", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Claim unknown: got %v, want ErrNotFound", err)
	}
}

func TestSuggest(t *testing.T) {
	coupons := []models.Coupon{
		{Code: "PIZ-IG-0003", Status: models.CouponActive},
		{Code: "PIZ-IG-0001", Status: models.CouponActive},
		{Code: "PIZ-IG-0002", Status: models.CouponClaimed},
		{Code: "BRG-IG-0009", Status: models.CouponActive},
	}

	got := Suggest(coupons, "piz")
	want := []string{"PIZ-IG-0001", "PIZ-IG-0003"}
	if len(got) != len(want) {
		t.Fatalf("Suggest=%v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Suggest=%v, want %v", got, want)
		}
	}

	// Empty input matches every unclaimed code.
	if got := Suggest(coupons, ""); len(got) != 3 {
		t.Errorf("Suggest(\"\")=%v, want 3 codes", got)
	}

	// Substring, not prefix.
	if got := Suggest(coupons, "ig-0009"); len(got) != 1 || got[0] != "BRG-IG-0009" {
		t.Errorf("Suggest(substring)=%v", got)
	}
}

func TestSuggestCap(t *testing.T) {
	coupons := make([]models.Coupon, 0, 60)
	for i := 0; i < 60; i++ {
		coupons = append(coupons, models.Coupon{
			Code:   fmt.Sprintf("CAP-%04d", i),
			Status: models.CouponActive,
		})
	}

	got := Suggest(coupons, "CAP")
	if len(got) != SuggestionLimit {
		t.Fatalf("Suggest returned %d codes, want %d", len(got), SuggestionLimit)
	}
	if got[0] != "CAP-0000" || got[SuggestionLimit-1] != "CAP-0049" {
		t.Errorf("Suggest cap kept wrong window: first=%s last=%s", got[0], got[len(got)-1])
	}
}
