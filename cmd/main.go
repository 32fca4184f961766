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

	adminBookingTypesHandler "github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers/admin_booking_types"
	adminOverridesHandler "github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers/admin_overrides"
	adminSyncLedgerHandler "github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers/admin_sync_ledger"
	adminWindowsHandler "github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers/admin_windows"
	cancelReservationHandler "github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers/create_reservation"
	getAvailableSlotsHandler "github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers/get_available_slots"
	getCalendarHandler "github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers/get_calendar"
	getNextAvailableDateHandler "github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers/get_next_available_date"
	"github.com/bakesbycoral/bakesbycoral-sub000/internal/api/middleware"
	"github.com/bakesbycoral/bakesbycoral-sub000/internal/config"
	ledgerRepo "github.com/bakesbycoral/bakesbycoral-sub000/internal/infra/storage/ledger"
	reservationRepo "github.com/bakesbycoral/bakesbycoral-sub000/internal/infra/storage/reservation"
	rulesRepo "github.com/bakesbycoral/bakesbycoral-sub000/internal/infra/storage/rules"
	reservationsService "github.com/bakesbycoral/bakesbycoral-sub000/internal/service/reservations"
	rulesService "github.com/bakesbycoral/bakesbycoral-sub000/internal/service/rules"
	scheduleService "github.com/bakesbycoral/bakesbycoral-sub000/internal/service/schedule"
	cancelReservationUC "github.com/bakesbycoral/bakesbycoral-sub000/internal/usecase/cancel_reservation"
	getAvailableSlotsUC "github.com/bakesbycoral/bakesbycoral-sub000/internal/usecase/get_available_slots"
	reserveSlotUC "github.com/bakesbycoral/bakesbycoral-sub000/internal/usecase/reserve_slot"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/dbmetrics"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/logger"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/metrics"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/txmanager"
)

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting scheduling service...")
	log.Info("Configuration loaded from config.toml")

	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

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

	// Repositories share one executor; the metrics wrapper adds query timing
	// and pool gauges when metrics are on.
	var (
		executor   txmanager.DBExecutor
		txBeginner txmanager.TxBeginner
	)
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		executor = wrappedDB
		txBeginner = wrappedDB
		log.Info("Database metrics collection started")
	} else {
		executor = db
		txBeginner = txmanager.FromDB(db)
	}

	ruleRepository := rulesRepo.NewRepository(executor)
	ledgerRepository := ledgerRepo.NewRepository(executor)
	reservationRepository := reservationRepo.NewRepository(executor)
	txMgr := txmanager.NewTransactionManager(txBeginner)

	scheduleSvc := scheduleService.NewService(
		ruleRepository,
		reservationRepository,
		cfg.Scheduling.LeadTimes,
		cfg.Scheduling.ScanHorizonDays,
		log,
	)
	rulesSvc := rulesService.NewService(
		ruleRepository,
		reservationRepository,
		txMgr,
		log,
	)
	reservationsSvc := reservationsService.NewService(
		ledgerRepository,
		reservationRepository,
		scheduleSvc,
		txMgr,
		cfg.Scheduling.DefaultSlotCapacity,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		ruleRepository,
		scheduleSvc,
		ledgerRepository,
		cfg.Scheduling.DefaultSlotCapacity,
		log,
	)
	reserveSlotUseCase := reserveSlotUC.NewUseCase(
		ruleRepository,
		scheduleSvc,
		ledgerRepository,
		reservationRepository,
		txMgr,
		cfg.Scheduling.DefaultSlotCapacity,
		log,
	)
	cancelReservationUseCase := cancelReservationUC.NewUseCase(
		reservationRepository,
		ledgerRepository,
		txMgr,
		log,
	)

	// Handlers take the metrics collector through a nil-safe interface.
	var reservationMetrics createReservationHandler.ReservationMetrics
	var cancelMetrics cancelReservationHandler.ReservationMetrics
	if metricsCollector != nil {
		reservationMetrics = metricsCollector
		cancelMetrics = metricsCollector
	}

	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getNextAvailableDate := getNextAvailableDateHandler.NewHandler(ruleRepository, scheduleSvc, log)
	getCalendar := getCalendarHandler.NewHandler(reservationsSvc, log)
	createReservation := createReservationHandler.NewHandler(reserveSlotUseCase, reservationMetrics, log)
	cancelReservation := cancelReservationHandler.NewHandler(cancelReservationUseCase, cancelMetrics, log)
	adminWindows := adminWindowsHandler.NewHandler(rulesSvc, log)
	adminBookingTypes := adminBookingTypesHandler.NewHandler(rulesSvc, log)
	adminOverrides := adminOverridesHandler.NewHandler(rulesSvc, log)
	adminSyncLedger := adminSyncLedgerHandler.NewHandler(reservationsSvc, log)

	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Availability
	api.HandleFunc("/availability/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability/next-date", getNextAvailableDate.Handle).Methods(http.MethodGet)
	api.HandleFunc("/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// Reservations
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservations/cancel", cancelReservation.Handle).Methods(http.MethodPost)

	// Admin
	api.HandleFunc("/admin/schedule/windows", adminWindows.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/admin/schedule/windows", adminWindows.HandleReplace).Methods(http.MethodPut)
	api.HandleFunc("/admin/booking-types", adminBookingTypes.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/admin/booking-types", adminBookingTypes.HandleUpsert).Methods(http.MethodPost)
	api.HandleFunc("/admin/booking-types/{typeId}", adminBookingTypes.HandleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/admin/overrides", adminOverrides.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/admin/overrides", adminOverrides.HandleAdd).Methods(http.MethodPost)
	api.HandleFunc("/admin/overrides/{overrideId}", adminOverrides.HandleRemove).Methods(http.MethodDelete)
	api.HandleFunc("/admin/ledger/sync", adminSyncLedger.Handle).Methods(http.MethodPost)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

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
