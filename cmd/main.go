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
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	approveAppointmentOp "github.com/m04kA/SMC-AppointmentService/internal/api/operations/approve_appointment"
	deleteAppointmentOp "github.com/m04kA/SMC-AppointmentService/internal/api/operations/delete_appointment"
	deleteAvailabilityOp "github.com/m04kA/SMC-AppointmentService/internal/api/operations/delete_availability"
	fetchTotalPendingsOp "github.com/m04kA/SMC-AppointmentService/internal/api/operations/fetch_total_pendings"
	fetchTotalSlotsOp "github.com/m04kA/SMC-AppointmentService/internal/api/operations/fetch_total_slots"
	getAppointmentOp "github.com/m04kA/SMC-AppointmentService/internal/api/operations/get_appointment"
	getAuditLogOp "github.com/m04kA/SMC-AppointmentService/internal/api/operations/get_audit_log"
	getAvailabilityOp "github.com/m04kA/SMC-AppointmentService/internal/api/operations/get_availability"
	getTimewindowOp "github.com/m04kA/SMC-AppointmentService/internal/api/operations/get_timewindow"
	getTransactionTypeOp "github.com/m04kA/SMC-AppointmentService/internal/api/operations/get_transaction_type"
	insertAppointmentOp "github.com/m04kA/SMC-AppointmentService/internal/api/operations/insert_appointment"
	insertAvailabilityOp "github.com/m04kA/SMC-AppointmentService/internal/api/operations/insert_availability"
	insertTransactionTypeOp "github.com/m04kA/SMC-AppointmentService/internal/api/operations/insert_transaction_type"
	updateAvailabilityOp "github.com/m04kA/SMC-AppointmentService/internal/api/operations/update_availability"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	auditRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/audit"
	availabilityRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/availability"
	timewindowRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/timewindow"
	transactionTypeRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/transactiontype"
	"github.com/m04kA/SMC-AppointmentService/internal/notify"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	availabilityService "github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	referenceService "github.com/m04kA/SMC-AppointmentService/internal/service/reference"
	decideAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/decide_appointment"
	submitAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/submit_appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/ws"
	"github.com/m04kA/SMC-AppointmentService/migrations"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

const modelSchedules = "schedulesModel"

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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции
	if cfg.Database.Migrate {
		goose.SetBaseFS(migrations.FS)
		if err := goose.SetDialect("postgres"); err != nil {
			log.Fatal("Failed to set migration dialect: %v", err)
		}
		if err := goose.Up(db, "."); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		availabilityRepository    *availabilityRepo.Repository
		timewindowRepository      *timewindowRepo.Repository
		appointmentRepository     *appointmentRepo.Repository
		transactionTypeRepository *transactionTypeRepo.Repository
		auditRepository           *auditRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		timewindowRepository = timewindowRepo.NewRepository(wrappedDB)
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		transactionTypeRepository = transactionTypeRepo.NewRepository(wrappedDB)
		auditRepository = auditRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		availabilityRepository = availabilityRepo.NewRepository(db)
		timewindowRepository = timewindowRepo.NewRepository(db)
		appointmentRepository = appointmentRepo.NewRepository(db)
		transactionTypeRepository = transactionTypeRepo.NewRepository(db)
		auditRepository = auditRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем websocket hub и диспетчер уведомлений
	hub := ws.NewHub(ws.Options{
		WriteTimeout:   time.Duration(cfg.Websocket.WriteTimeout) * time.Second,
		PingInterval:   time.Duration(cfg.Websocket.PingInterval) * time.Second,
		SendBufferSize: cfg.Websocket.SendBufferSize,
	}, log)
	dispatcher := notify.NewDispatcher(hub, auditRepository, log)

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		transactionTypeRepository,
		txMgr,
		dispatcher,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		timewindowRepository,
		txMgr,
		dispatcher,
		log,
	)
	referenceSvc := referenceService.NewService(
		transactionTypeRepository,
		dispatcher,
		log,
	)

	// Инициализируем use cases
	submitAppointmentUseCase := submitAppointmentUC.NewUseCase(
		appointmentRepository,
		timewindowRepository,
		txMgr,
		dispatcher,
		log,
	)
	decideAppointmentUseCase := decideAppointmentUC.NewUseCase(
		appointmentRepository,
		timewindowRepository,
		txMgr,
		dispatcher,
		dispatcher,
		log,
	)

	// Регистрируем операции модели schedulesModel
	router := dispatch.NewRouter(log)
	router.Register(modelSchedules, "insertAvailability", insertAvailabilityOp.NewHandler(availabilitySvc, log))
	router.Register(modelSchedules, "updateAvailability", updateAvailabilityOp.NewHandler(availabilitySvc, log))
	router.Register(modelSchedules, "getAvailability", getAvailabilityOp.NewHandler(availabilitySvc, log))
	router.Register(modelSchedules, "deleteAvailability", deleteAvailabilityOp.NewHandler(availabilitySvc, log))
	router.Register(modelSchedules, "insertAppointment", insertAppointmentOp.NewHandler(submitAppointmentUseCase, log))
	router.Register(modelSchedules, "getAppointment", getAppointmentOp.NewHandler(appointmentsSvc, log))
	router.Register(modelSchedules, "getTimewindow", getTimewindowOp.NewHandler(appointmentsSvc, log))
	router.Register(modelSchedules, "approveAppointment", approveAppointmentOp.NewHandler(decideAppointmentUseCase, log))
	router.Register(modelSchedules, "deleteAppointment", deleteAppointmentOp.NewHandler(appointmentsSvc, log))
	router.Register(modelSchedules, "getTransactionType", getTransactionTypeOp.NewHandler(referenceSvc, log))
	router.Register(modelSchedules, "insertTransactionType", insertTransactionTypeOp.NewHandler(referenceSvc, log))
	router.Register(modelSchedules, "fetchTotalSlots", fetchTotalSlotsOp.NewHandler(appointmentsSvc, log))
	router.Register(modelSchedules, "fetchTotalPendings", fetchTotalPendingsOp.NewHandler(appointmentsSvc, log))
	router.Register(modelSchedules, "getAuditLog", getAuditLogOp.NewHandler(dispatcher, log))

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Канал живых уведомлений (регистрация пользователя идет внутри соединения)
	r.HandleFunc("/ws", hub.Handler()).Methods(http.MethodGet)

	// Все операции идут через общий конверт и требуют X-User-ID
	api := r.PathPrefix("/api/v1").Subrouter()
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)
	protected.HandleFunc("/dispatch", router.ServeHTTP).Methods(http.MethodPost)

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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
