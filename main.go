package main

import (
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/username/expensio/backend/src/config"
	"github.com/username/expensio/backend/src/database"
	"github.com/username/expensio/backend/src/handlers"
	"github.com/username/expensio/backend/src/logger"
	"github.com/username/expensio/backend/src/messaging"
	"github.com/username/expensio/backend/src/services"
)

func main() {
	cfg := config.Load()
	logger.InitLogger(cfg.LogLevel)
	logger.L.Info("Expensio backend server starting...")

	logger.L.Info("Initializing database...", "path", cfg.DatabasePath)
	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		logger.L.Error("Failed to open database", "error", err)
		stdlog.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var publisher messaging.EventPublisher = messaging.NoopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := messaging.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			logger.L.Error("Failed to connect to AMQP, expense events disabled", "error", err)
		} else {
			publisher = amqpPublisher
			defer amqpPublisher.Close()
			logger.L.Info("AMQP publisher initialized", "queue", cfg.AMQPQueue)
		}
	}

	logger.L.Info("Initializing services and handlers...")
	emailService := services.NewEmailService(cfg)
	reportService := services.NewReportService(db, emailService)

	expenseHandler := handlers.NewExpenseHandler(db, reportService, publisher)
	userHandler := handlers.NewUserHandler(db)

	mux := chi.NewRouter()
	handlers.RegisterRoutes(mux, expenseHandler, userHandler)

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
