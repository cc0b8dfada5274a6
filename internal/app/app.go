package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/embedplay/bridge/internal/controller"
	positionRedis "github.com/embedplay/bridge/internal/repository/position/redis"
	"github.com/embedplay/bridge/internal/service/session"
	"github.com/embedplay/bridge/pkg/ctxlogger"
	"github.com/embedplay/bridge/pkg/redisclient"
)

type AppConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	LogLevel       string `json:"log_level"`
	PlayerBaseURL  string `json:"player_base_url"`
	UserAgent      string `json:"user_agent"`
	SessionTTLSec  int    `json:"session_ttl_sec"`
	PositionTTLDay int    `json:"position_ttl_day"`
	RedisPort      int    `json:"redis_port"`
	RedisHost      string `json:"redis_host"`
	RedisPassword  string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.SessionTTLSec < 1 {
		return fmt.Errorf("session ttl must be greater than 0")
	}
	if cfg.PositionTTLDay < 1 {
		return fmt.Errorf("position ttl must be greater than 0")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	positionRepo := positionRedis.NewRepo(rc, time.Duration(cfg.PositionTTLDay)*24*time.Hour)
	sessionService := session.NewService(positionRepo, logger, time.Duration(cfg.SessionTTLSec)*time.Second, session.Defaults{
		BaseURL:   cfg.PlayerBaseURL,
		UserAgent: cfg.UserAgent,
	})
	defer sessionService.Close()

	controller := controller.NewController(sessionService, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.Mux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
