package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reviewqr-backend/internal/coupon"
	"reviewqr-backend/internal/database"
	"reviewqr-backend/internal/models"
	"reviewqr-backend/internal/order"
	"reviewqr-backend/internal/review"
	"reviewqr-backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	sessions *session.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	reviewService := review.NewService(db)
	couponService := coupon.NewService(db)
	orderService := order.NewService(db)
	sessionService := session.NewService(db, time.Hour)

	authHandler := NewAuthHandler(sessionService)
	publicHandler := NewPublicHandler(db, reviewService, nil, nil, nil)
	businessHandler := NewBusinessHandler(db)
	reviewHandler := NewReviewHandler(reviewService)
	couponHandler := NewCouponHandler(couponService, nil)
	orderHandler := NewOrderHandler(orderService, nil)

	r := gin.New()
	r.GET("/ws", WSHandler(sessionService, nil))
	r.GET("/api/public/businesses/:id", publicHandler.GetBusiness)
	r.POST("/api/public/businesses/:id/reviews", publicHandler.SubmitReview)
	r.POST("/api/public/onboard", publicHandler.Onboard)
	r.POST("/api/auth/login", authHandler.Login)

	apiGroup := r.Group("/api", RequireSession(sessionService))
	apiGroup.GET("/auth/me", authHandler.Me)
	apiGroup.GET("/nav", authHandler.Nav)
	apiGroup.GET("/businesses", RequirePermission("clients.view"), businessHandler.List)
	apiGroup.GET("/businesses/:id", businessHandler.Get)
	apiGroup.PUT("/businesses/:id", businessHandler.Update)
	apiGroup.GET("/businesses/:id/reviews", RequirePermission("reviews.view"), reviewHandler.List)
	apiGroup.DELETE("/businesses/:id/reviews/:reviewId", RequirePermission("reviews.delete"), reviewHandler.Delete)
	apiGroup.GET("/businesses/:id/coupons/suggest", RequirePermission("coupons.view"), couponHandler.Suggest)
	apiGroup.POST("/businesses/:id/coupons/verify", RequirePermission("coupons.verify"), couponHandler.Verify)
	apiGroup.POST("/businesses/:id/coupons/claim", RequirePermission("coupons.claim"), couponHandler.Claim)
	apiGroup.POST("/businesses/:id/orders", RequirePermission("orders.create"), orderHandler.Create)
	apiGroup.PATCH("/orders/:orderId/status", RequirePermission("orders.update_status"), orderHandler.UpdateStatus)

	return &testEnv{db: db, router: r, sessions: sessionService}
}

func (e *testEnv) seedBusiness(t *testing.T, id, name string) {
	t.Helper()
	biz := models.Business{ID: id, Name: name, Services: models.StringList{"Haircut"}}
	if err := e.db.Create(&biz).Error; err != nil {
		t.Fatalf("seed business: %v", err)
	}
}

func (e *testEnv) seedUser(t *testing.T, email, role, businessID string) string {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	u := models.AdminUser{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		BusinessID:   businessID,
	}
	if err := e.db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	sess, _, err := e.sessions.Login(email, "secret123")
	if err != nil {
		t.Fatalf("login seeded user: %v", err)
	}
	return sess.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestSubmitReviewEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	env.seedBusiness(t, "pizza-corner", "Pizza Corner")

	w := env.do(t, http.MethodPost, "/api/public/businesses/pizza-corner/reviews", "", gin.H{
		"rating":       5,
		"qualities":    []string{"Friendly"},
		"feelings":     []string{"Happy"},
		"service_used": "Haircut",
		"comment":      "Loved it",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var count int64
	env.db.Model(&models.Review{}).Where("business_id = ?", "pizza-corner").Count(&count)
	if count != 1 {
		t.Fatalf("want exactly one review row, got %d", count)
	}

	var stored models.Review
	env.db.First(&stored, "business_id = ?", "pizza-corner")
	if !stored.IsPublic || stored.PostedToGoogle || stored.ServiceUsed != "Haircut" {
		t.Errorf("stored review %+v", stored)
	}
}

func TestSubmitReviewLowRatingPrivate(t *testing.T) {
	env := newTestEnv(t)
	env.seedBusiness(t, "pizza-corner", "Pizza Corner")

	w := env.do(t, http.MethodPost, "/api/public/businesses/pizza-corner/reviews", "", gin.H{"rating": 2})
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var stored models.Review
	env.db.First(&stored, "business_id = ?", "pizza-corner")
	if stored.IsPublic {
		t.Errorf("rating 2 stored as public")
	}
}

func TestSubmitReviewUnknownBusiness(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/public/businesses/nope/reviews", "", gin.H{"rating": 5})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
}

func TestVerifyUnknownCouponMutatesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.seedBusiness(t, "pizza-corner", "Pizza Corner")
	token := env.seedUser(t, "owner@pc.example", "client", "pizza-corner")

	env.db.Create(&models.Coupon{
		ID: uuid.NewString(), BusinessID: "pizza-corner",
		Code: "PIZ-IG-0001", Status: models.CouponActive,
	})

	w := env.do(t, http.MethodPost, "/api/businesses/pizza-corner/coupons/verify", token, gin.H{"code": "PIZ-IG-1234"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] == "" {
		t.Errorf("expected human-readable error, got %s", w.Body.String())
	}

	var count int64
	env.db.Model(&models.Coupon{}).Count(&count)
	if count != 1 {
		t.Errorf("coupon rows changed: %d", count)
	}
	var c models.Coupon
	env.db.First(&c, "code = ?", "PIZ-IG-0001")
	if c.Status != models.CouponActive {
		t.Errorf("existing coupon mutated: %+v", c)
	}
}

func TestVerifyThenClaimFlow(t *testing.T) {
	env := newTestEnv(t)
	env.seedBusiness(t, "pizza-corner", "Pizza Corner")
	token := env.seedUser(t, "owner@pc.example", "client", "pizza-corner")

	env.db.Create(&models.Coupon{
		ID: uuid.NewString(), BusinessID: "pizza-corner",
		Code: "PIZ-IG-0001", Status: models.CouponActive,
	})

	// Verify shows the coupon without claiming it.
	w := env.do(t, http.MethodPost, "/api/businesses/pizza-corner/coupons/verify", token, gin.H{"code": "piz-ig-0001"})
	if w.Code != http.StatusOK {
		t.Fatalf("verify status=%d body=%s", w.Code, w.Body.String())
	}

	// Claim is the explicit second step.
	w = env.do(t, http.MethodPost, "/api/businesses/pizza-corner/coupons/claim", token, gin.H{
		"code": "PIZ-IG-0001", "customer_details": "Anita",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("claim status=%d body=%s", w.Code, w.Body.String())
	}

	// Verify now reports already claimed.
	w = env.do(t, http.MethodPost, "/api/businesses/pizza-corner/coupons/verify", token, gin.H{"code": "PIZ-IG-0001"})
	if w.Code != http.StatusConflict {
		t.Fatalf("verify claimed status=%d, want 409", w.Code)
	}
}

func TestCouponSuggest(t *testing.T) {
	env := newTestEnv(t)
	env.seedBusiness(t, "pizza-corner", "Pizza Corner")
	token := env.seedUser(t, "owner@pc.example", "client", "pizza-corner")

	for i, status := range []string{models.CouponActive, models.CouponActive, models.CouponClaimed} {
		env.db.Create(&models.Coupon{
			ID: uuid.NewString(), BusinessID: "pizza-corner",
			Code: fmt.Sprintf("PIZ-IG-%04d", i), Status: status,
		})
	}

	w := env.do(t, http.MethodGet, "/api/businesses/pizza-corner/coupons/suggest?q=piz", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Suggestions) != 2 {
		t.Fatalf("suggestions=%v, want the 2 unclaimed codes", resp.Suggestions)
	}
	if resp.Suggestions[0] != "PIZ-IG-0000" || resp.Suggestions[1] != "PIZ-IG-0001" {
		t.Errorf("suggestions out of order: %v", resp.Suggestions)
	}
}

func TestSessionRequired(t *testing.T) {
	env := newTestEnv(t)
	env.seedBusiness(t, "pizza-corner", "Pizza Corner")

	w := env.do(t, http.MethodGet, "/api/businesses/pizza-corner", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status=%d, want 401", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/businesses/pizza-corner", "not-a-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status=%d, want 401", w.Code)
	}
}

func TestTenantScope(t *testing.T) {
	env := newTestEnv(t)
	env.seedBusiness(t, "pizza-corner", "Pizza Corner")
	env.seedBusiness(t, "burger-barn", "Burger Barn")
	clientToken := env.seedUser(t, "owner@pc.example", "client", "pizza-corner")
	adminToken := env.seedUser(t, "ops@reviewqr.example", "admin", "")

	// A client cannot read another tenant.
	w := env.do(t, http.MethodGet, "/api/businesses/burger-barn", clientToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("cross-tenant read: status=%d, want 403", w.Code)
	}

	// But admins can.
	w = env.do(t, http.MethodGet, "/api/businesses/burger-barn", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin read: status=%d body=%s", w.Code, w.Body.String())
	}

	// Clients cannot list all tenants (clients.view).
	w = env.do(t, http.MethodGet, "/api/businesses", clientToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("client list: status=%d, want 403", w.Code)
	}
}

func TestPermissionGateOnOrders(t *testing.T) {
	env := newTestEnv(t)
	env.seedBusiness(t, "pizza-corner", "Pizza Corner")
	clientToken := env.seedUser(t, "owner@pc.example", "client", "pizza-corner")
	adminToken := env.seedUser(t, "ops@reviewqr.example", "admin", "")

	w := env.do(t, http.MethodPost, "/api/businesses/pizza-corner/orders", clientToken, gin.H{
		"shipping_name": "Pizza Corner",
		"address":       "12 MG Road",
		"phone":         "+91 98765 43210",
		"payment_ref":   "UTR123456789012",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create order: status=%d body=%s", w.Code, w.Body.String())
	}
	var created models.QROrder
	json.Unmarshal(w.Body.Bytes(), &created)

	// Clients cannot advance shipment status.
	w = env.do(t, http.MethodPatch, "/api/orders/"+created.ID+"/status", clientToken, gin.H{"status": models.OrderInTransit})
	if w.Code != http.StatusForbidden {
		t.Fatalf("client status update: status=%d, want 403", w.Code)
	}

	w = env.do(t, http.MethodPatch, "/api/orders/"+created.ID+"/status", adminToken, gin.H{
		"status": models.OrderInTransit, "carrier": "BlueDart", "tracking_id": "BD-42",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("admin status update: status=%d body=%s", w.Code, w.Body.String())
	}

	// Short UTR is rejected before anything is written.
	w = env.do(t, http.MethodPost, "/api/businesses/pizza-corner/orders", clientToken, gin.H{
		"shipping_name": "Pizza Corner",
		"address":       "12 MG Road",
		"phone":         "+91 98765 43210",
		"payment_ref":   "UTR1",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("short UTR: status=%d, want 400", w.Code)
	}
}

func TestLoginAndNav(t *testing.T) {
	env := newTestEnv(t)
	env.seedBusiness(t, "pizza-corner", "Pizza Corner")
	env.seedUser(t, "owner@pc.example", "client", "pizza-corner")

	w := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "owner@pc.example", "password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Token == "" || resp.Role != "client" {
		t.Fatalf("login response %s", w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/nav", resp.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("nav: status=%d", w.Code)
	}
	var nav []struct {
		ID string `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &nav)
	seen := map[string]bool{}
	for _, s := range nav {
		seen[s.ID] = true
	}
	if !seen["dashboard"] || !seen["settings"] || seen["clients"] {
		t.Errorf("client nav sections wrong: %v", nav)
	}

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "owner@pc.example", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: status=%d, want 401", w.Code)
	}
}

func TestOnboard(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/public/onboard", "", gin.H{
		"name":          "Burger Barn",
		"email":         "hi@burgerbarn.example",
		"phone":         "+91 90000 00000",
		"services":      []string{"Dine In"},
		"referral_code": "FSR-007",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("onboard: status=%d body=%s", w.Code, w.Body.String())
	}

	var biz models.Business
	if err := env.db.First(&biz, "name = ?", "Burger Barn").Error; err != nil {
		t.Fatalf("created business not found: %v", err)
	}
	if biz.SubscriptionStatus != "inactive" {
		t.Errorf("subscription_status=%q, want inactive", biz.SubscriptionStatus)
	}
	if biz.ReferralCode != "FSR-007" {
		t.Errorf("referral_code=%q", biz.ReferralCode)
	}
}

func TestBusinessEditAuthorization(t *testing.T) {
	env := newTestEnv(t)
	env.seedBusiness(t, "pizza-corner", "Pizza Corner")
	fsrToken := env.seedUser(t, "field@reviewqr.example", "fsr", "")
	clientToken := env.seedUser(t, "owner@pc.example", "client", "pizza-corner")
	adminToken := env.seedUser(t, "ops@reviewqr.example", "admin", "")

	// FSRs can read tenants but hold no edit permission at all.
	w := env.do(t, http.MethodGet, "/api/businesses/pizza-corner", fsrToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("fsr read: status=%d body=%s", w.Code, w.Body.String())
	}
	w = env.do(t, http.MethodPut, "/api/businesses/pizza-corner", fsrToken, gin.H{"subscription_status": "active"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("fsr edit: status=%d, want 403", w.Code)
	}
	var stored models.Business
	env.db.First(&stored, "id = ?", "pizza-corner")
	if stored.SubscriptionStatus == "active" {
		t.Fatalf("fsr activated subscription: %+v", stored)
	}

	// Clients edit their own settings but never billing state.
	w = env.do(t, http.MethodPut, "/api/businesses/pizza-corner", clientToken, gin.H{"theme": "crimson"})
	if w.Code != http.StatusOK {
		t.Fatalf("client settings edit: status=%d body=%s", w.Code, w.Body.String())
	}
	w = env.do(t, http.MethodPut, "/api/businesses/pizza-corner", clientToken, gin.H{"subscription_status": "active"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("client subscription edit: status=%d, want 403", w.Code)
	}

	// Admins activate subscriptions.
	w = env.do(t, http.MethodPut, "/api/businesses/pizza-corner", adminToken, gin.H{"subscription_status": "active"})
	if w.Code != http.StatusOK {
		t.Fatalf("admin subscription edit: status=%d body=%s", w.Code, w.Body.String())
	}
	env.db.First(&stored, "id = ?", "pizza-corner")
	if stored.SubscriptionStatus != "active" {
		t.Errorf("subscription_status=%q after admin edit", stored.SubscriptionStatus)
	}
}

func TestWSRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/ws", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status=%d, want 401", w.Code)
	}

	w = env.do(t, http.MethodGet, "/ws?token=not-a-session", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status=%d, want 401", w.Code)
	}
}
