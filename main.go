package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/yeremiapane/junkeats-app/config"
	"github.com/yeremiapane/junkeats-app/database"
	"github.com/yeremiapane/junkeats-app/events"
	"github.com/yeremiapane/junkeats-app/live"
	"github.com/yeremiapane/junkeats-app/metrics"
	"github.com/yeremiapane/junkeats-app/router"
	"github.com/yeremiapane/junkeats-app/services"
	"github.com/yeremiapane/junkeats-app/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}

	utils.InitLogger(cfg.LogFormat)
	utils.SetJWTSecret(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if cfg.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize DB
	db, err := config.InitDB(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Setup(db, cfg.Orders.Tables); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	publisher := newPublisher(cfg.Broker)
	defer publisher.Close()

	deps := router.Wire(cfg, db, newModel(cfg.AI), publisher, metrics.New(), live.NewHub())

	monitor := services.NewOrderMonitor(deps.Orders, cfg.Orders.MonitorInterval)
	monitor.Reservations = deps.Reservations
	monitor.Start()
	defer monitor.Stop()

	stopCleanup := startBlacklistCleanup(time.Hour)
	defer stopCleanup()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.SetupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.InfoLogger.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Forced shutdown: %v", err)
	}
	utils.InfoLogger.Println("Server exited")
}

// newModel returns nil when no API key is configured; suggestions then
// answer with 503.
func newModel(cfg config.AIConfig) llms.Model {
	if cfg.APIKey == "" {
		utils.InfoLogger.Println("OPENAI_API_KEY not set, combo suggestions disabled")
		return nil
	}

	opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		utils.ErrorLogger.Printf("Combo suggestions disabled: %v", err)
		return nil
	}
	return llm
}

func newPublisher(cfg config.BrokerConfig) events.Publisher {
	if cfg.URL == "" {
		return events.NopPublisher{}
	}
	p, err := events.DialAMQP(cfg.URL, cfg.Exchange)
	if err != nil {
		utils.ErrorLogger.Printf("Order events disabled, broker unreachable: %v", err)
		return events.NopPublisher{}
	}
	utils.InfoLogger.Printf("Publishing order events to exchange %s", cfg.Exchange)
	return p
}

func startBlacklistCleanup(every time.Duration) func() {
	ticker := time.NewTicker(every)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				if n := utils.CleanupBlacklist(time.Now()); n > 0 {
					utils.InfoLogger.Printf("Removed %d expired tokens from blacklist", n)
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}
