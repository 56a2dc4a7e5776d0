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

	"github.com/spf13/cobra"

	"selenex/internal/api/handlers"
	"selenex/internal/api/routes"
	"selenex/internal/config"
	"selenex/internal/generator"
	"selenex/internal/recorder"
	"selenex/internal/services"
	"selenex/pkg/database"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the recording and script generation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}
}

func runServe(cfg *config.Config) error {
	if err := database.InitDatabase(cfg); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	gen, err := generator.FromConfig(cfg.Generator)
	if err != nil {
		return fmt.Errorf("failed to load generator: %w", err)
	}
	handlers.Configure(cfg, gen)

	recorder.Manager.Configure(recorder.ChromeOptions{
		ExecPath: cfg.Chrome.ExecPath,
		Headless: cfg.Chrome.HeadlessMode,
	})

	if err := services.InitScheduler(cfg.Retention.CleanupCron, services.DatabaseStore, recorder.Manager, cfg.RetentionWindow()); err != nil {
		return fmt.Errorf("failed to initialize scheduler: %w", err)
	}
	statusSync := services.NewStatusSyncService(services.DatabaseStore, recorder.Manager)
	statusSync.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      routes.SetupRoutes(cfg),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-quit:
		log.Println("Shutting down server...")
	}

	services.GlobalScheduler.Stop()
	statusSync.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server shutdown complete")
	return nil
}
