package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_reservation"
	getAvailableDatesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_available_dates"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_available_slots"
	getMyReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_my_reservations"
	getPopupReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_popup_reservations"
	getRefundableHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_refundable"
	getReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation"
	getSettingsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation_settings"
	markVisitedHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/mark_visited"
	updateSettingsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_reservation_settings"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	settingsCache "github.com/m04kA/SMC-ReservationService/internal/infra/cache/settings"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/payments"
	popupServiceClient "github.com/m04kA/SMC-ReservationService/internal/integrations/popupservice"
	"github.com/m04kA/SMC-ReservationService/internal/service/access"
	"github.com/m04kA/SMC-ReservationService/internal/service/ledger"
	reservationsService "github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	settingsService "github.com/m04kA/SMC-ReservationService/internal/service/settings"
	cancelReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/cancel_reservation"
	checkRefundableUC "github.com/m04kA/SMC-ReservationService/internal/usecase/check_refundable"
	createReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	getAvailableDatesUC "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_dates"
	getAvailableSlotsUC "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_slots"
	markVisitedUC "github.com/m04kA/SMC-ReservationService/internal/usecase/mark_visited"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/events"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ReservationService...")

	location, err := cfg.Reservation.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %s: %v", cfg.Reservation.Timezone, err)
	}

	// Метрики (nil, если выключены: все методы записи nil-safe)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)

	// Кеш настроек
	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	var cache settingsService.SettingsCache
	switch cfg.Cache.Driver {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// Кеш не обязателен: при ошибках чтения сервис идет в БД
			log.Warn("Redis ping failed (addr=%s), settings will be read from database on cache errors: %v",
				cfg.Redis.Addr, err)
		}
		cancel()

		cache = settingsCache.NewRedisCache(redisClient, cacheTTL, cfg.Cache.KeyPrefix)
		log.Info("Settings cache: redis (addr=%s, ttl=%s)", cfg.Redis.Addr, cacheTTL)
	default:
		cache = settingsCache.NewMemoryCache(cacheTTL)
		log.Info("Settings cache: memory (ttl=%s)", cacheTTL)
	}

	// Шина событий
	var publisher events.Publisher
	switch cfg.Events.Driver {
	case "nats":
		natsPublisher, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Metrics.ServiceName, cfg.Events.SubjectPrefix)
		if err != nil {
			log.Fatal("Failed to connect to NATS: %v", err)
		}
		publisher = natsPublisher
		log.Info("Events: nats (url=%s, prefix=%s)", cfg.Events.NATSURL, cfg.Events.SubjectPrefix)
	case "kafka":
		publisher = events.NewKafkaPublisher(cfg.Events.KafkaBrokers, cfg.Events.SubjectPrefix,
			time.Duration(cfg.Events.WriteTimeout)*time.Second)
		log.Info("Events: kafka (brokers=%v, prefix=%s)", cfg.Events.KafkaBrokers, cfg.Events.SubjectPrefix)
	default:
		publisher = events.NoopPublisher{}
		log.Info("Events: disabled")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher: %v", err)
		}
	}()

	// Платежи: проверка при создании и возврат при отмене
	var (
		refunder cancelReservationUC.Refunder
		verifier createReservationUC.PaymentVerifier
	)
	if cfg.Payments.StripeSecretKey != "" {
		timeout := time.Duration(cfg.Payments.RefundTimeout) * time.Second
		refunder = payments.NewStripeRefunder(cfg.Payments.StripeSecretKey, cfg.Payments.StripeAPIURL, timeout, log)
		verifier = payments.NewStripeVerifier(cfg.Payments.StripeSecretKey, cfg.Payments.StripeAPIURL, timeout, log)
		log.Info("Payments: stripe (timeout=%ds)", cfg.Payments.RefundTimeout)
	} else {
		refunder = payments.DisabledRefunder{}
		verifier = payments.DisabledVerifier{}
		log.Warn("Payments: disabled, paid reservations are rejected")
	}

	// Интеграции
	popupClient := popupServiceClient.NewClient(
		cfg.PopupService.URL,
		time.Duration(cfg.PopupService.Timeout)*time.Second,
		location,
		log,
	)
	log.Info("Integration clients initialized (PopupService=%s timeout=%ds)",
		cfg.PopupService.URL, cfg.PopupService.Timeout)

	// Сервисы
	accessChecker := access.NewChecker(popupClient, log)
	settingsSvc := settingsService.NewService(settingsRepository, cache, accessChecker, metricsCollector, log)
	capacityLedger := ledger.New(reservationRepository)
	reservationsSvc := reservationsService.NewService(reservationRepository, accessChecker, location, log)

	// Use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		accessChecker,
		settingsSvc,
		verifier,
		capacityLedger,
		txMgr,
		publisher,
		metricsCollector,
		location,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(accessChecker, settingsSvc, capacityLedger, location, log)
	getAvailableDatesUseCase := getAvailableDatesUC.NewUseCase(accessChecker, settingsSvc, location, log)
	cancelReservationUseCase := cancelReservationUC.NewUseCase(
		reservationRepository,
		settingsSvc,
		refunder,
		txMgr,
		publisher,
		metricsCollector,
		log,
	)
	markVisitedUseCase := markVisitedUC.NewUseCase(reservationRepository, accessChecker, txMgr, publisher, metricsCollector, log)
	checkRefundableUseCase := checkRefundableUC.NewUseCase(reservationRepository, settingsSvc, log)

	// Handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAvailableDates := getAvailableDatesHandler.NewHandler(getAvailableDatesUseCase, log)
	cancelReservation := cancelReservationHandler.NewHandler(cancelReservationUseCase, log)
	markVisited := markVisitedHandler.NewHandler(markVisitedUseCase, log)
	getRefundable := getRefundableHandler.NewHandler(checkRefundableUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	getMyReservations := getMyReservationsHandler.NewHandler(reservationsSvc, log)
	getPopupReservations := getPopupReservationsHandler.NewHandler(reservationsSvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/popups/{popupId}/reservations/available-dates",
		getAvailableDates.Handle).Methods(http.MethodGet)
	api.HandleFunc("/popups/{popupId}/reservations/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/popups/{popupId}/reservation-settings",
		getSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования гостя ---
	createHandler := http.Handler(http.HandlerFunc(createReservation.Handle))
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		createHandler = limiter.Limit(createHandler)
		log.Info("Rate limit on reservation create: %.1f/min, burst=%d",
			cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}
	protected.Handle("/popups/{popupId}/reservations", createHandler).Methods(http.MethodPost)

	// /reservations/mine регистрируется раньше /reservations/{reservationId}
	protected.HandleFunc("/reservations/mine", getMyReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId:[0-9]+}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId:[0-9]+}/cancel", cancelReservation.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/reservations/{reservationId:[0-9]+}/refundable", getRefundable.Handle).Methods(http.MethodGet)

	// --- Управление попапом (для участников бренда) ---
	protected.HandleFunc("/popups/{popupId}/reservations", getPopupReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId:[0-9]+}/visit", markVisited.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/popups/{popupId}/reservation-settings", updateSettings.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
