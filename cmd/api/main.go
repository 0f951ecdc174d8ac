package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/shiftboard/shift-scheduler/backend/internal/config"
	"github.com/shiftboard/shift-scheduler/backend/internal/database"
	"github.com/shiftboard/shift-scheduler/backend/internal/handler"
	"github.com/shiftboard/shift-scheduler/backend/internal/mailer"
	"github.com/shiftboard/shift-scheduler/backend/internal/otp"
	"github.com/shiftboard/shift-scheduler/backend/internal/seed"
	"github.com/shopspring/decimal"
	"github.com/ulule/limiter/v3"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

func main() {
	/**********************************************
	 * Logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * Configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return
	}

	// hourly rates go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	/**********************************************
	 * Database
	 **********************************************/
	repo, err := database.Open(cfg)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		return
	}
	defer repo.Close()

	/**********************************************
	 * Initial manager
	 **********************************************/
	if cfg.InitialAdmin.Email != "" && cfg.InitialAdmin.Password != "" {
		created, err := seed.EnsureInitialManager(repo, cfg.InitialAdmin.Name, cfg.InitialAdmin.Email, cfg.InitialAdmin.Password)
		if err != nil {
			logger.Error("failed to ensure initial manager", "error", err)
			return
		}
		if created {
			logger.Info("created initial manager", "email", cfg.InitialAdmin.Email)
		}
	}

	/**********************************************
	 * RabbitMQ
	 **********************************************/
	var notifier mailer.Notifier = mailer.LogNotifier{}
	if cfg.RabbitMQ.DSN != "" {
		conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			return
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			logger.Error("failed to open rabbitmq channel", "error", err)
			return
		}
		defer ch.Close()

		if _, err := mailer.DeclareQueue(ch, cfg.RabbitMQ.Queue); err != nil {
			logger.Error("failed to declare mail queue", "queue", cfg.RabbitMQ.Queue, "error", err)
			return
		}

		notifier = mailer.NewPublisher(ch, cfg.RabbitMQ.Queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
	} else {
		logger.Warn("RABBITMQ_DSN is not set, notification emails are only logged")
	}

	/**********************************************
	 * Redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	opTimeout := time.Duration(cfg.Redis.OperationTimeout) * time.Second
	otps := otp.NewStore(rdb, time.Duration(cfg.OTP.Expiration)*time.Second, opTimeout)

	var rateStore limiter.Store
	if cfg.RateLimit.Store == "redis" {
		rateStore, err = sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: "ratelimit"})
		if err != nil {
			logger.Error("failed to create redis rate limit store", "error", err)
			return
		}
	}

	/**********************************************
	 * Handler
	 **********************************************/
	h, err := handler.NewHandler(cfg, repo, notifier, otps, rateStore)
	if err != nil {
		logger.Error("failed to create handler", "error", err)
		return
	}
	h.RegisterRoutes()

	/**********************************************
	 * HTTP server
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      h.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", "port", cfg.Server.Port, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", slog.String("error", err.Error()))
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("failed to shut down server", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}
