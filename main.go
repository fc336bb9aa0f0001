package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	config "github.com/gemnoir/jewelry-api/configs"
	"github.com/gemnoir/jewelry-api/internal/auth"
	"github.com/gemnoir/jewelry-api/internal/db"
	"github.com/gemnoir/jewelry-api/internal/handlers"
	"github.com/gemnoir/jewelry-api/internal/logging"
	"github.com/gemnoir/jewelry-api/internal/notifier"
	"github.com/gemnoir/jewelry-api/internal/payments"
)

func main() {
	cfg := config.Load()

	logging.Init(cfg.Server)
	defer logging.L.Sync()

	db.Init(cfg.Database)
	db.SeedAdmin(cfg.Admin)
	auth.Init(cfg.JWT)
	payments.Init(cfg)
	notifier.Init(cfg)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.RequestLogger())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api")
	{
		api.POST("/auth/register", handlers.Register)
		api.POST("/auth/login", handlers.Login)
		api.GET("/auth/profile", auth.RequireAuth(), handlers.Profile)

		api.GET("/products", handlers.ListProducts)
		api.GET("/products/:id", handlers.GetProduct)
		api.POST("/products", auth.RequireAuth(), auth.RequireAdmin(), handlers.CreateProduct)
		api.PATCH("/products/:id", auth.RequireAuth(), auth.RequireAdmin(), handlers.UpdateProduct)
		api.DELETE("/products/:id", auth.RequireAuth(), auth.RequireAdmin(), handlers.DeleteProduct)

		api.GET("/categories", handlers.ListCategories)
		api.GET("/categories/:id", handlers.GetCategory)
		api.POST("/categories", auth.RequireAuth(), auth.RequireAdmin(), handlers.CreateCategory)
		api.PATCH("/categories/:id", auth.RequireAuth(), auth.RequireAdmin(), handlers.UpdateCategory)
		api.DELETE("/categories/:id", auth.RequireAuth(), auth.RequireAdmin(), handlers.DeleteCategory)

		api.POST("/orders", auth.RequireAuth(), handlers.CreateOrder)
		api.GET("/orders/user", auth.RequireAuth(), handlers.GetUserOrders)
		api.GET("/orders/:id", auth.RequireAuth(), handlers.GetOrder)
		api.POST("/orders/:id/cancel", auth.RequireAuth(), handlers.CancelOrder)
		api.GET("/orders/admin", auth.RequireAuth(), auth.RequireAdmin(), handlers.GetAllOrders)
		api.GET("/orders/admin/:id", auth.RequireAuth(), auth.RequireAdmin(), handlers.GetOrderAdmin)
		api.PATCH("/orders/admin/:id/status", auth.RequireAuth(), auth.RequireAdmin(), handlers.UpdateOrderStatus)
		api.PATCH("/orders/admin/:id/payment", auth.RequireAuth(), auth.RequireAdmin(), handlers.UpdatePaymentStatus)

		api.POST("/payments/generate-vietqr/:orderId", auth.RequireAuth(), handlers.GenerateVietQRPayment)
		api.POST("/payments/generate-momo/:orderId", auth.RequireAuth(), handlers.GenerateMoMoPayment)
		api.POST("/payments/momo-callback", handlers.MoMoCallback)
		api.POST("/payments/momo-confirm", auth.RequireAuth(), handlers.MoMoConfirm)
		api.GET("/payments/status/:orderId", auth.RequireAuth(), handlers.PaymentStatusCheck)

		api.GET("/reviews", handlers.ListReviews)
		api.POST("/reviews", auth.OptionalAuth(), handlers.CreateReview)
		api.DELETE("/reviews/:id", auth.RequireAuth(), auth.RequireAdmin(), handlers.DeleteReview)
	}

	addr := ":" + cfg.Server.Port
	logging.L.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logging.L.Fatal("server exited", zap.Error(err))
	}
}
