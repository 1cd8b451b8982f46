// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/solidwrite/pseo/internal/api"
	"github.com/solidwrite/pseo/internal/app"
	"github.com/solidwrite/pseo/internal/config"
	"github.com/solidwrite/pseo/internal/di"
	"github.com/solidwrite/pseo/internal/utils"
)

func main() {
	// 1. configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := config.GetCurrentConfig()

	// 2. directories and logging
	createDirectories(cfg)
	if err := app.InitLogging(cfg); err != nil {
		log.Fatalf("init logging: %v", err)
	}
	logger := utils.GetLogger()

	// 3. services, in dependency order
	container := di.GetContainer()
	if err := app.InitServices(); err != nil {
		logger.Fatal("init services failed", map[string]interface{}{"error": err.Error()})
	}
	defer app.Shutdown(container)

	if err := performHealthCheck(container); err != nil {
		logger.Warn("health check", map[string]interface{}{"error": err.Error()})
	}

	// 4. router; it only resolves services, never creates them
	router, err := api.SetupRouter()
	if err != nil {
		logger.Fatal("setup router failed", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("server starting", map[string]interface{}{
		"port":     cfg.Port,
		"site_url": cfg.SiteURL,
		"services": len(container.GetNames()),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.RunMaintenance(ctx, container)

	if err := serve(ctx, router, cfg.Port); err != nil {
		logger.Error("server stopped with error", map[string]interface{}{"error": err.Error()})
	}
}

// performHealthCheck verifies the services the router needs are registered.
func performHealthCheck(container *di.Container) error {
	critical := []string{di.ServiceManifest, di.ServicePage, di.ServiceBatch, di.ServiceSitemap}
	for _, name := range critical {
		if !container.Has(name) {
			return fmt.Errorf("critical service not registered: %s", name)
		}
	}
	return nil
}

// serve runs the server until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, router *gin.Engine, port string) error {
	logger := utils.GetLogger()
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
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

	logger.Info("shutting down server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server stopped", nil)
	return nil
}

// createDirectories creates the directories the server writes to.
func createDirectories(cfg *config.Config) {
	for _, dir := range []string{cfg.DataDir, cfg.ExportDir, cfg.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("create directory %s: %v", dir, err)
		}
	}
}
