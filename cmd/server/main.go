package main

import (
	"log"
	"time"

	"reviewqr-backend/internal/api"
	"reviewqr-backend/internal/config"
	"reviewqr-backend/internal/coupon"
	"reviewqr-backend/internal/database"
	"reviewqr-backend/internal/genai"
	"reviewqr-backend/internal/order"
	"reviewqr-backend/internal/qrimg"
	"reviewqr-backend/internal/review"
	"reviewqr-backend/internal/session"
	"reviewqr-backend/internal/storage"
	"reviewqr-backend/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	database.InitDB(cfg)
	database.Seed(database.DB)

	media, err := storage.NewStore(cfg.MediaDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatalf("Failed to init media store: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	reviewService := review.NewService(database.DB)
	couponService := coupon.NewService(database.DB)
	orderService := order.NewService(database.DB)
	sessionService := session.NewService(database.DB, time.Duration(cfg.SessionTTLHours)*time.Hour)
	genClient := genai.NewClient(cfg, database.DB, media)
	qrClient := qrimg.NewClient(cfg.QRServiceURL)

	authHandler := api.NewAuthHandler(sessionService)
	publicHandler := api.NewPublicHandler(database.DB, reviewService, qrClient, hub, cfg)
	businessHandler := api.NewBusinessHandler(database.DB)
	reviewHandler := api.NewReviewHandler(reviewService)
	couponHandler := api.NewCouponHandler(couponService, hub)
	orderHandler := api.NewOrderHandler(orderService, hub)
	callbackHandler := api.NewCallbackHandler(database.DB)
	generateHandler := api.NewGenerateHandler(genClient, media)
	dashboardHandler := api.NewDashboardHandler(database.DB)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Uploaded logos and re-hosted generated images.
	r.Static("/media", media.Dir())

	// Dashboard event feed; session required, scoped to the caller's tenant.
	r.GET("/ws", api.WSHandler(sessionService, hub))

	// Customer-facing routes: no session.
	public := r.Group("/api/public")
	{
		public.GET("/businesses/:id", publicHandler.GetBusiness)
		public.POST("/businesses/:id/reviews", publicHandler.SubmitReview)
		public.POST("/onboard", publicHandler.Onboard)
		public.GET("/qr/:id", publicHandler.QRCode)
	}

	r.POST("/api/auth/login", authHandler.Login)

	// Console routes: server-side session required.
	apiGroup := r.Group("/api", api.RequireSession(sessionService))
	{
		apiGroup.POST("/auth/logout", authHandler.Logout)
		apiGroup.GET("/auth/me", authHandler.Me)
		apiGroup.GET("/nav", authHandler.Nav)

		apiGroup.GET("/businesses", api.RequirePermission("clients.view"), businessHandler.List)
		apiGroup.GET("/businesses/:id", businessHandler.Get)
		apiGroup.PUT("/businesses/:id", businessHandler.Update)

		apiGroup.GET("/businesses/:id/reviews", api.RequirePermission("reviews.view"), reviewHandler.List)
		apiGroup.DELETE("/businesses/:id/reviews/:reviewId", api.RequirePermission("reviews.delete"), reviewHandler.Delete)

		apiGroup.GET("/businesses/:id/coupons", api.RequirePermission("coupons.view"), couponHandler.List)
		apiGroup.POST("/businesses/:id/coupons", api.RequirePermission("coupons.create"), couponHandler.Create)
		apiGroup.GET("/businesses/:id/coupons/suggest", api.RequirePermission("coupons.view"), couponHandler.Suggest)
		apiGroup.POST("/businesses/:id/coupons/verify", api.RequirePermission("coupons.verify"), couponHandler.Verify)
		apiGroup.POST("/businesses/:id/coupons/claim", api.RequirePermission("coupons.claim"), couponHandler.Claim)

		apiGroup.POST("/businesses/:id/orders", api.RequirePermission("orders.create"), orderHandler.Create)
		apiGroup.GET("/businesses/:id/orders", api.RequirePermission("orders.view"), orderHandler.List)
		apiGroup.GET("/orders", api.RequirePermission("orders.update_status"), orderHandler.ListAll)
		apiGroup.PATCH("/orders/:orderId/status", api.RequirePermission("orders.update_status"), orderHandler.UpdateStatus)

		apiGroup.POST("/businesses/:id/callbacks", api.RequirePermission("callbacks.create"), callbackHandler.Create)
		apiGroup.GET("/callbacks", api.RequirePermission("callbacks.view"), callbackHandler.List)

		apiGroup.POST("/generate/text", api.RequirePermission("generate.use"), generateHandler.Text)
		apiGroup.POST("/generate/image", api.RequirePermission("generate.use"), generateHandler.Image)
		apiGroup.POST("/media", generateHandler.UploadMedia)

		apiGroup.GET("/dashboard/stats", api.RequirePermission("dashboard.view"), dashboardHandler.Stats)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
