package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelaav-backend/internal/config"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/http/handlers"
	"github.com/ignatzorin/freelaav-backend/internal/http/middleware"
	"github.com/ignatzorin/freelaav-backend/internal/infrastructure/metrics"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/handler"
)

// Handlers: все зависимости роутера, собираются в main.
type Handlers struct {
	Health       *handlers.HealthHandler
	WS           *handlers.WSHandler
	Catalog      *handlers.CatalogHandler
	Profile      *handler.ProfileHandler
	Search       *handler.SearchHandler
	Portfolio    *handler.PortfolioHandler
	Offer        *handler.OfferHandler
	Message      *handler.MessageHandler
	Booking      *handler.BookingHandler
	Review       *handler.ReviewHandler
	Receivable   *handler.ReceivableHandler
	Notification *handler.NotificationHandler
}

func SetupRouter(
	cfg *config.Config,
	h Handlers,
	tokens middleware.AccessParser,
	idempotencyStore repository.IdempotencyStore,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.Middleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.GET("/ws", h.WS.Handle)

	writeLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	idem := middleware.Idempotency(idempotencyStore, cfg.IdempotencyTTL)
	idParam := middleware.UUIDValidator("id")

	// Публичные маршруты
	api.GET("/catalog/specialties", h.Catalog.ListSpecialties)
	api.GET("/catalog/statuses", h.Catalog.ListStatuses)
	api.GET("/freelancers/search", h.Search.SearchFreelancers)
	api.GET("/freelancers/:id", idParam, h.Profile.GetFreelancer)
	api.GET("/freelancers/:id/portfolio", idParam, h.Portfolio.ListByFreelancer)
	api.GET("/users/:id/reviews", idParam, h.Review.ListUserReviews)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))

	profile := protected.Group("/profile")
	{
		profile.GET("", h.Profile.GetMe)
		profile.POST("", writeLimit, h.Profile.CreateProfile)
		profile.PUT("", writeLimit, h.Profile.UpdateMe)
		profile.PUT("/freelancer", writeLimit, h.Profile.UpdateFreelancer)
		profile.PUT("/specialties", writeLimit, h.Profile.ReplaceSpecialties)
	}

	portfolio := protected.Group("/portfolio")
	{
		portfolio.GET("", h.Portfolio.ListMine)
		portfolio.POST("", writeLimit, h.Portfolio.AddItem)
		portfolio.PUT("/order", writeLimit, h.Portfolio.Reorder)
		portfolio.DELETE("/:id", idParam, h.Portfolio.DeleteItem)
	}

	offers := protected.Group("/offers")
	{
		offers.POST("", writeLimit, h.Offer.CreateOffer)
		offers.GET("", h.Offer.ListOffers)
		offers.GET("/:id", idParam, h.Offer.GetOffer)
		offers.POST("/:id/transitions", idParam, writeLimit, idem, h.Offer.TransitionOffer)
		offers.GET("/:id/messages", idParam, h.Message.ListMessages)
		offers.POST("/:id/messages", idParam, writeLimit, h.Message.SendMessage)
	}

	bookings := protected.Group("/bookings")
	{
		bookings.POST("", writeLimit, idem, h.Booking.CreateBooking)
		bookings.GET("", h.Booking.ListBookings)
		bookings.GET("/:id", idParam, h.Booking.GetBooking)
		bookings.POST("/:id/transitions", idParam, writeLimit, idem, h.Booking.TransitionBooking)
		bookings.POST("/:id/reviews", idParam, writeLimit, h.Review.CreateReview)
		bookings.GET("/:id/reviews", idParam, h.Review.ListBookingReviews)
		bookings.GET("/:id/can-review", idParam, h.Review.CanReview)
	}

	receivables := protected.Group("/receivables")
	{
		receivables.GET("", h.Receivable.List)
		receivables.POST("", writeLimit, h.Receivable.Create)
		receivables.GET("/summary", h.Receivable.Summary)
		receivables.GET("/:id", idParam, h.Receivable.Get)
		receivables.PUT("/:id", idParam, writeLimit, h.Receivable.Update)
		receivables.PATCH("/:id/status", idParam, writeLimit, h.Receivable.UpdateStatus)
		receivables.DELETE("/:id", idParam, h.Receivable.Delete)
	}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/unread-count", h.Notification.UnreadCount)
		notifications.POST("/read-all", h.Notification.MarkAllRead)
		notifications.POST("/:id/read", idParam, h.Notification.MarkRead)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"success": false,
			"error":   gin.H{"code": "NOT_FOUND", "message": "маршрут не найден"},
		})
	})

	return r
}
