package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rankcraft/backend/analyzer"
	"github.com/rankcraft/backend/api"
	"github.com/rankcraft/backend/cache"
	"github.com/rankcraft/backend/config"
	"github.com/rankcraft/backend/generator"
	"github.com/rankcraft/backend/keywords"
	"github.com/rankcraft/backend/logging"
	"github.com/rankcraft/backend/middleware"
	"github.com/rankcraft/backend/stats"
	"github.com/rankcraft/backend/store"
)

const (
	shutdownTimeout = 10 * time.Second
	cleanupInterval = 24 * time.Hour
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "HTTP port (overrides PORT)")
}

func newGenerator(cfg config.Config, usage *stats.Storage) *generator.Generator {
	llm, err := generator.NewOpenAIClient(generator.LLMSettings{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		logging.Log.WithError(err).Warn("article generation disabled")
		return nil
	}
	return generator.New(llm, usage)
}

func serve(ctx context.Context, cfg config.Config) error {
	gin.SetMode(cfg.GinMode)

	reportCache, err := cache.Open(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer reportCache.Close()

	usage, err := stats.NewStorage(cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := usage.Shutdown(); err != nil {
			logging.Log.WithError(err).Error("failed to flush usage stats")
		}
	}()

	db, err := store.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	statistics := logging.NewStatistics(cfg.StatisticsPath(), cfg.DevMode)
	defer func() {
		if err := statistics.Save(); err != nil {
			logging.Log.WithError(err).Error("failed to save request statistics")
		}
	}()

	seoAnalyzer := analyzer.New(reportCache, usage, cfg.CacheTTL)
	defer seoAnalyzer.Shutdown()
	if cfg.AllowPrivateFetch {
		logging.Log.Warn("URL analysis may fetch loopback and private addresses")
		seoAnalyzer.AllowPrivateNetworks()
	}

	if cfg.JWTSecret == "" {
		logging.Log.Warn("JWT_SECRET is not set; authenticated routes will reject every request")
	}

	server := &api.Server{
		Analyzer:    seoAnalyzer,
		DB:          db,
		Suggester:   keywords.NewSuggester(cfg.SuggestURL, reportCache, cfg.CacheTTL, usage),
		Generator:   newGenerator(cfg, usage),
		Statistics:  statistics,
		Usage:       usage,
		Auth:        middleware.NewAuthenticator(cfg.JWTSecret),
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}

	go cleanupLoop(ctx, usage)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Log.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// cleanupLoop drops usage months past the retention window once a day
func cleanupLoop(ctx context.Context, usage *stats.Storage) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	usage.Cleanup()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			usage.Cleanup()
		}
	}
}
