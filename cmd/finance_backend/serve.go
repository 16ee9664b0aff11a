package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/handlers"
	"github.com/SscSPs/facility_finance_app/internal/jobs"
	"github.com/SscSPs/facility_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var flagPort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = flagPort
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx, cfg, false)
		if err != nil {
			return err
		}
		defer a.close()

		if cfg.IsProduction {
			gin.SetMode(gin.ReleaseMode)
		}

		r := gin.New()

		// Global middleware (logging, recovery)
		r.Use(middleware.StructuredLoggingMiddleware(a.logger), gin.Recovery())

		if err := r.SetTrustedProxies(nil); err != nil {
			return err
		}
		if err := handlers.RegisterRoutes(r, cfg, a.services); err != nil {
			return err
		}

		if cfg.AuditCron != "" {
			scheduler, err := jobs.NewScheduler(cfg.AuditCron, jobs.NewAuditJob(a.services.Cashbook, a.logger), a.logger)
			if err != nil {
				return err
			}
			scheduler.Start()
			defer func() {
				stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				scheduler.Stop(stopCtx)
			}()
		}

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			a.logger.Info("Server starting", slog.String("port", cfg.Port))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		a.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagPort, "port", "", "Override PORT")
	rootCmd.AddCommand(serveCmd)
}
