package router

import (
	"github.com/gin-gonic/gin"

	"github.com/skillverse/marketplace-backend/internal/config"
	"github.com/skillverse/marketplace-backend/internal/http/handlers"
	"github.com/skillverse/marketplace-backend/internal/http/middleware"
	"github.com/skillverse/marketplace-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	walletHandler *handlers.WalletHandler,
	orderHandler *handlers.OrderHandler,
	catalogHandler *handlers.CatalogHandler,
	certificateHandler *handlers.CertificateHandler,
	bookingHandler *handlers.BookingHandler,
	reviewHandler *handlers.ReviewHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/me", authHandler.Me)
		protectedAuth.GET("/sessions", authHandler.ListSessions)
	}

	// Публичные маршруты
	api.GET("/ws", wsHandler.Handle)
	api.GET("/services", catalogHandler.List)
	api.GET("/services/:id", middleware.UUIDValidator("id"), catalogHandler.Get)
	api.GET("/services/provider/:id", middleware.UUIDValidator("id"), catalogHandler.ListByProvider)
	api.GET("/services/:id/reviews", middleware.UUIDValidator("id"), reviewHandler.ListServiceReviews)
	api.GET("/services/:id/rating", middleware.UUIDValidator("id"), reviewHandler.ServiceRating)
	api.GET("/providers/:id/rating", middleware.UUIDValidator("id"), reviewHandler.ProviderRating)

	// Проверка сертификата доступна всем, в том числе без аккаунта
	api.GET("/certificates/verify/:certId", certificateHandler.Verify)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/services", catalogHandler.Publish)
		protected.PUT("/services/:id", middleware.UUIDValidator("id"), catalogHandler.Update)
		protected.DELETE("/services/:id", middleware.UUIDValidator("id"), catalogHandler.Unpublish)

		protected.GET("/wallet/balance", walletHandler.GetBalance)
		protected.POST("/wallet/topup", walletHandler.TopUp)
		protected.POST("/wallet/reconcile", walletHandler.Reconcile)
		protected.GET("/wallet/transactions", walletHandler.History)
		protected.GET("/wallet/orders/:id/transactions", middleware.UUIDValidator("id"), walletHandler.OrderTransactions)

		protected.POST("/orders", orderHandler.Place)
		protected.GET("/orders/my", orderHandler.ListMine)
		protected.GET("/orders/:id", middleware.UUIDValidator("id"), orderHandler.Get)
		protected.POST("/orders/:id/accept", middleware.UUIDValidator("id"), orderHandler.Accept)
		protected.POST("/orders/:id/reject", middleware.UUIDValidator("id"), orderHandler.Reject)
		protected.POST("/orders/:id/complete", middleware.UUIDValidator("id"), orderHandler.Complete)
		protected.POST("/orders/:id/cancel", middleware.UUIDValidator("id"), orderHandler.Cancel)
		protected.POST("/orders/:id/review", middleware.UUIDValidator("id"), reviewHandler.LeaveReview)
		protected.GET("/orders/:id/review", middleware.UUIDValidator("id"), reviewHandler.GetOrderReview)

		protected.GET("/certificates/my", certificateHandler.ListMine)
		protected.GET("/certificates/order/:id", middleware.UUIDValidator("id"), certificateHandler.GetByOrder)

		protected.POST("/slots", bookingHandler.CreateSlots)
		protected.GET("/slots/provider/:id", middleware.UUIDValidator("id"), bookingHandler.ListSlots)
		protected.DELETE("/slots/:id", middleware.UUIDValidator("id"), bookingHandler.DeleteSlot)
		protected.GET("/bookings/my", bookingHandler.MyBookings)

		protected.GET("/notifications", notificationHandler.ListNotifications)
		protected.GET("/notifications/unread/count", notificationHandler.CountUnread)
		protected.GET("/notifications/:id", notificationHandler.GetNotification)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.DELETE("/notifications/:id", notificationHandler.DeleteNotification)
	}

	return r
}
