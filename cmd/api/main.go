package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/koliada1973/credit-service/internal/cache"
	"github.com/koliada1973/credit-service/internal/config"
	"github.com/koliada1973/credit-service/internal/handler"
	"github.com/koliada1973/credit-service/internal/integrations/nbu"
	"github.com/koliada1973/credit-service/internal/middleware"
	"github.com/koliada1973/credit-service/internal/repository"
	"github.com/koliada1973/credit-service/internal/scheduler"
	"github.com/koliada1973/credit-service/internal/service"
	"github.com/koliada1973/credit-service/internal/utils/email"
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

	// Initialize schedule cache
	redisCache := cache.NewRedis(cfg.RedisAddr)
	defer redisCache.Close()
	if err := redisCache.Ping(context.Background()); err != nil {
		logger.Warnf("Redis unavailable, plans will be recomputed every time: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc, err := service.NewService(repo, redisCache, logger, cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize service: %v", err)
	}
	h := handler.NewHandler(svc, logger)
	nbuClient := nbu.NewClient(cfg, logger)

	// Start payment reminder scheduler
	sched := scheduler.New(repo, email.NewSender(cfg, logger), logger, cfg.ReminderDays)
	if err := sched.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/calculator", h.Calculate).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/loans", h.CreateLoan).Methods("POST")
	authRouter.HandleFunc("/loans", h.ListLoans).Methods("GET")
	authRouter.HandleFunc("/loans/{id:[0-9]+}", h.GetLoan).Methods("GET")
	authRouter.HandleFunc("/loans/{id:[0-9]+}/payments", h.RecordPayment).Methods("POST")
	authRouter.HandleFunc("/loans/{id:[0-9]+}/payments", h.ListPayments).Methods("GET")
	// NBU reference rate endpoint
	r.HandleFunc("/exchange-rate", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("valcode")
		if code == "" {
			code = "USD"
		}
		rate, err := nbuClient.GetExchangeRate(code)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get exchange rate: %v", err), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]float64{"rate": rate})
	}).Methods("GET")

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
