package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/tmaly1980/banked/internal/config"
	"github.com/tmaly1980/banked/internal/handler"
	"github.com/tmaly1980/banked/internal/integrations/ofx"
	"github.com/tmaly1980/banked/internal/middleware"
	"github.com/tmaly1980/banked/internal/repository"
	"github.com/tmaly1980/banked/internal/scheduler"
	"github.com/tmaly1980/banked/internal/service"
	"github.com/tmaly1980/banked/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	mailer := email.NewSender(cfg, logger)
	bank := ofx.NewClient(logger)
	svc := service.NewService(repo, mailer, bank, logger, cfg)
	h := handler.NewHandler(svc, logger)

	// Background jobs
	sched := scheduler.New(svc, logger)
	if err := sched.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger))

	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/health", h.Health).Methods("GET")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))

	authRouter.HandleFunc("/ledger", h.GetLedger).Methods("GET")

	authRouter.HandleFunc("/accounts", h.ListAccounts).Methods("GET")
	authRouter.HandleFunc("/accounts", h.CreateAccount).Methods("POST")
	authRouter.HandleFunc("/accounts/{id}/link", h.LinkAccount).Methods("POST")
	authRouter.HandleFunc("/accounts/{id}/refresh", h.RefreshAccount).Methods("POST")

	authRouter.HandleFunc("/bills", h.CreateBill).Methods("POST")
	authRouter.HandleFunc("/bills/later", h.ListLaterBills).Methods("GET")
	authRouter.HandleFunc("/bills/{id}", h.UpdateBill).Methods("PUT")
	authRouter.HandleFunc("/bills/{id}", h.DeleteBill).Methods("DELETE")
	authRouter.HandleFunc("/bills/{id}/payments", h.RecordPayment).Methods("POST")
	authRouter.HandleFunc("/bills/{id}/defer", h.DeferBill).Methods("POST")

	authRouter.HandleFunc("/income-sources", h.ListIncomeSources).Methods("GET")
	authRouter.HandleFunc("/income-sources", h.CreateIncomeSource).Methods("POST")
	authRouter.HandleFunc("/income-sources/{id}", h.UpdateIncomeSource).Methods("PUT")
	authRouter.HandleFunc("/income-sources/{id}", h.DeleteIncomeSource).Methods("DELETE")

	authRouter.HandleFunc("/paychecks", h.ListPaychecks).Methods("GET")
	authRouter.HandleFunc("/paychecks", h.CreatePaycheck).Methods("POST")
	authRouter.HandleFunc("/paychecks/{id}", h.DeletePaycheck).Methods("DELETE")

	authRouter.HandleFunc("/time-off", h.ListTimeOff).Methods("GET")
	authRouter.HandleFunc("/time-off", h.CreateTimeOff).Methods("POST")
	authRouter.HandleFunc("/time-off/{id}", h.DeleteTimeOff).Methods("DELETE")

	authRouter.HandleFunc("/planned-expenses", h.ListPlannedExpenses).Methods("GET")
	authRouter.HandleFunc("/planned-expenses", h.CreatePlannedExpense).Methods("POST")
	authRouter.HandleFunc("/planned-expenses/{id}", h.UpdatePlannedExpense).Methods("PUT")
	authRouter.HandleFunc("/planned-expenses/{id}", h.DeletePlannedExpense).Methods("DELETE")

	authRouter.HandleFunc("/preferences/{key}", h.GetPreference).Methods("GET")
	authRouter.HandleFunc("/preferences/{key}", h.SetPreference).Methods("PUT")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
