package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"etegie-bot/backend/internal/telegram"
	"etegie-bot/backend/pkg/config"
	"etegie-bot/backend/pkg/di"
	"etegie-bot/backend/pkg/logger"
	"etegie-bot/backend/pkg/router"
	"etegie-bot/backend/shared/observability"

	"google.golang.org/grpc"
)

func main() {
	// config.New loads .env before reading the environment
	cfg := config.New()

	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.JSON = cfg.Logging.Format != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting application",
		"version", os.Getenv("APP_VERSION"),
		"env", cfg.Server.Env,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.TracingEnabled {
		shutdownTracing, err := observability.SetupTracing("etegie-bot", os.Stdout)
		if err != nil {
			log.LogError(err, "Failed to initialize tracing")
			os.Exit(1)
		}
		defer shutdownTracing(context.Background())
	}

	container, err := di.New(ctx, cfg, log)
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}
	container.Run(ctx)

	r := router.New(container)
	if err := r.SetupRoutes(); err != nil {
		log.LogError(err, "Failed to set up routes")
		os.Exit(1)
	}
	r.Run(ctx)

	srv := r.Server()
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	var grpcServer *grpc.Server
	if cfg.Server.GRPCPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.Server.GRPCPort)
		if err != nil {
			log.LogError(err, "Failed to listen for gRPC", "port", cfg.Server.GRPCPort)
			os.Exit(1)
		}
		grpcServer = r.Health.NewGRPCServer()
		go func() {
			log.Info("gRPC health server starting", "port", cfg.Server.GRPCPort)
			if err := grpcServer.Serve(lis); err != nil {
				log.LogError(err, "gRPC server stopped")
			}
		}()
	}

	if cfg.Telegram.Token != "" {
		bot, err := telegram.Connect(cfg.Telegram.Token, cfg.Telegram.Debug)
		if err != nil {
			log.LogError(err, "Telegram channel disabled")
		} else {
			channel := telegram.New(bot, container.ChatService, cfg.Telegram.CompanyID, container.KnowledgeBase.Greeting(), log)
			go channel.Run(ctx)
		}
	}

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}
	if err := container.Close(shutdownCtx); err != nil {
		log.LogError(err, "Failed to release resources")
	}

	log.Info("Server exited gracefully")
}
