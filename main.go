package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pdf_image_extractor/api"
)

const (
	// DefaultMaxFileSize is the default maximum upload size (50MB)
	DefaultMaxFileSize = 50 * 1024 * 1024

	// DefaultPort is the default server port
	DefaultPort = "8080"

	// DefaultTempDir is where uploaded PDFs are staged
	DefaultTempDir = "./uploads"

	// DefaultOutputDir is the root for per-job extracted images
	DefaultOutputDir = "./extracted_images"

	// ServerReadTimeout is the HTTP server read timeout
	ServerReadTimeout = 30 * time.Second

	// ServerWriteTimeout is the HTTP server write timeout
	ServerWriteTimeout = 60 * time.Second

	// ServerIdleTimeout is the HTTP server idle timeout
	ServerIdleTimeout = 60 * time.Second

	// GracefulShutdownTimeout is the timeout for graceful shutdown
	GracefulShutdownTimeout = 10 * time.Second
)

func main() {
	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	setupLogging(getEnv("LOG_LEVEL", "info"), getEnv("LOG_FORMAT", "console"))

	config := &api.Config{
		Port:           getEnv("PORT", DefaultPort),
		MaxFileSize:    getEnvInt64("MAX_FILE_SIZE", DefaultMaxFileSize),
		TempDir:        getEnv("TEMP_DIR", DefaultTempDir),
		OutputDir:      getEnv("OUTPUT_DIR", DefaultOutputDir),
		MinImageSizeKB: int(getEnvInt64("MIN_IMAGE_SIZE_KB", 1)),
		FilterLogos:    getEnvBool("FILTER_LOGOS", true),
	}

	// Leftovers from a previous process are worthless without their job store.
	if err := os.RemoveAll(config.OutputDir); err != nil {
		log.Warn().Err(err).Str("dir", config.OutputDir).Msg("failed to clear output directory")
	}
	for _, dir := range []string{config.TempDir, config.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("failed to create directory")
		}
	}

	store := api.NewStore(api.JobTTL)

	r := gin.Default()

	// Static files for web UI
	r.Static("/static", "./static")
	r.LoadHTMLGlob("templates/*")

	api.SetupRoutes(r, config, store)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "pdf_image_extractor",
		})
	})

	// Web UI route
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"title": "PDF Image Extractor",
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", config.Port),
		Handler:      r,
		ReadTimeout:  ServerReadTimeout,
		WriteTimeout: ServerWriteTimeout,
		IdleTimeout:  ServerIdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Int64("max_file_size", config.MaxFileSize).
			Str("temp_dir", config.TempDir).
			Str("output_dir", config.OutputDir).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited gracefully")
}

// setupLogging configures the global zerolog logger.
func setupLogging(level, format string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
