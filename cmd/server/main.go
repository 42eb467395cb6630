package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelaav-backend/internal/config"
	"github.com/ignatzorin/freelaav-backend/internal/db"
	httpHandlers "github.com/ignatzorin/freelaav-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/freelaav-backend/internal/http/router"
	"github.com/ignatzorin/freelaav-backend/internal/infrastructure/idempotency"
	"github.com/ignatzorin/freelaav-backend/internal/infrastructure/notify"
	"github.com/ignatzorin/freelaav-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/handler"
	"github.com/ignatzorin/freelaav-backend/internal/logger"
	"github.com/ignatzorin/freelaav-backend/internal/scheduler"
	"github.com/ignatzorin/freelaav-backend/internal/service"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/booking"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/conversation"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/notification"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/offer"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/portfolio"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/profile"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/receivable"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/review"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/search"
	"github.com/ignatzorin/freelaav-backend/internal/validation"
	"github.com/ignatzorin/freelaav-backend/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}
	log := logger.WithComponent("main")

	if err := validation.Register(); err != nil {
		log.WithError(err).Fatal("не удалось зарегистрировать валидаторы")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.DefaultPool)
	if err != nil {
		log.WithError(err).Fatal("ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.WithError(err).Fatal("ошибка миграций")
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	idemStore, closeIdem := idempotency.Open(ctx, cfg.RedisAddr, cfg.RedisPassword)
	defer closeIdem()

	// Репозитории.
	profileRepo := persistence.NewProfileRepositoryAdapter(dbConn)
	freelancerRepo := persistence.NewFreelancerRepositoryAdapter(dbConn)
	portfolioRepo := persistence.NewPortfolioRepositoryAdapter(dbConn)
	offerRepo := persistence.NewOfferRepositoryAdapter(dbConn)
	bookingRepo := persistence.NewBookingRepositoryAdapter(dbConn)
	reviewRepo := persistence.NewReviewRepositoryAdapter(dbConn)
	receivableRepo := persistence.NewReceivableRepositoryAdapter(dbConn)
	convRepo := persistence.NewConversationRepositoryAdapter(dbConn)
	msgRepo := persistence.NewMessageRepositoryAdapter(dbConn)
	notificationRepo := persistence.NewNotificationRepositoryAdapter(dbConn)

	// Вебсокеты и доставка уведомлений.
	hub := ws.NewHub()
	go hub.Run(ctx)

	sinks := []notify.Sink{notify.NewInboxSink(notificationRepo), notify.NewHubSink(hub)}
	if cfg.NotifyWebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(notify.WebhookConfig{
			URL:        cfg.NotifyWebhookURL,
			Secret:     cfg.NotifyWebhookSecret,
			Timeout:    cfg.NotifyWebhookTimeout,
			RatePerSec: int(cfg.NotifyRatePerSec),
		}, profileRepo))
	} else {
		log.Info("NOTIFY_WEBHOOK_URL не задан, внешние уведомления отключены")
	}
	dispatcher := notify.NewDispatcher(int(cfg.NotifyQueueSize), sinks...)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	// Use cases.
	strength := profile.NewStrengthRefresher(profileRepo, freelancerRepo, portfolioRepo)
	ledger := receivable.NewLedgerUseCase(receivableRepo)

	sweeper, err := scheduler.New(cfg.ReceivablesSweepSpec, ledger)
	if err != nil {
		log.WithError(err).Fatal("некорректное расписание RECEIVABLES_SWEEP_SPEC")
	}
	sweeper.Start()

	// HTTP хэндлеры.
	checks := map[string]httpHandlers.Check{}
	if pinger, ok := idemStore.(interface{ Ping(context.Context) error }); ok {
		checks["redis"] = pinger.Ping
	}

	handlers := httpRouter.Handlers{
		Health:  httpHandlers.NewHealthHandler(dbConn, checks),
		WS:      httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
		Catalog: httpHandlers.NewCatalogHandler(),
		Profile: handler.NewProfileHandler(
			profile.NewCreateProfileUseCase(profileRepo, strength),
			profile.NewGetProfileUseCase(profileRepo),
			profile.NewUpdateProfileUseCase(profileRepo, strength),
			profile.NewUpdateFreelancerProfileUseCase(freelancerRepo, strength),
			profile.NewReplaceSpecialtiesUseCase(freelancerRepo, strength),
			profile.NewGetFreelancerUseCase(profileRepo, freelancerRepo, portfolioRepo),
		),
		Search:    handler.NewSearchHandler(search.NewSearchFreelancersUseCase(freelancerRepo)),
		Portfolio: handler.NewPortfolioHandler(portfolio.NewPortfolioUseCase(portfolioRepo, strength)),
		Offer: handler.NewOfferHandler(
			offer.NewCreateOfferUseCase(offerRepo, profileRepo, freelancerRepo, dispatcher),
			offer.NewGetOfferUseCase(offerRepo),
			offer.NewListOffersUseCase(offerRepo),
			offer.NewTransitionOfferUseCase(offerRepo, dispatcher),
		),
		Message: handler.NewMessageHandler(
			conversation.NewSendMessageUseCase(offerRepo, convRepo, msgRepo, dispatcher),
			conversation.NewListMessagesUseCase(offerRepo, convRepo, msgRepo),
			cfg.ChatPollInterval,
		),
		Booking: handler.NewBookingHandler(
			booking.NewCreateBookingUseCase(offerRepo, bookingRepo, dispatcher),
			booking.NewGetBookingUseCase(bookingRepo),
			booking.NewListBookingsUseCase(bookingRepo),
			booking.NewTransitionBookingUseCase(bookingRepo, dispatcher),
		),
		Review: handler.NewReviewHandler(
			review.NewCreateReviewUseCase(bookingRepo, reviewRepo, dispatcher),
			review.NewCanLeaveReviewUseCase(bookingRepo, reviewRepo),
			review.NewListBookingReviewsUseCase(bookingRepo, reviewRepo),
			review.NewListUserReviewsUseCase(reviewRepo),
		),
		Receivable:   handler.NewReceivableHandler(ledger),
		Notification: handler.NewNotificationHandler(notification.NewInboxUseCase(notificationRepo)),
	}

	engine := httpRouter.SetupRouter(cfg, handlers, tokenManager, idemStore)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("ошибка остановки http сервера")
		}
		sweeper.Stop(shutdownCtx)
	}()

	log.WithField("port", cfg.HTTPPort).Info("HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("сервер завершился с ошибкой")
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.WithComponent("main").WithError(err).Error("ошибка закрытия базы")
	}
}
