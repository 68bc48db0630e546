// Package cmd - CLI command: diaria serve
package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/camara-itapoa/diaria-engine/api"
	"github.com/camara-itapoa/diaria-engine/calc"
	"github.com/camara-itapoa/diaria-engine/diaria"
	"github.com/camara-itapoa/diaria-engine/distance"
	"github.com/camara-itapoa/diaria-engine/logging"
	"github.com/camara-itapoa/diaria-engine/notify"
	"github.com/camara-itapoa/diaria-engine/store/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the API server: calculation previews, request submission,
the approval workflow, holiday administration, and PDF documents.

The distance lookup and email notifications are optional; without their
credentials the server runs with degraded calculations and silent
notifications. JWT_SECRET is required.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(command *cobra.Command, args []string) error {
	defer logging.Sync()

	if cfg.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := command.Context()
	if err := seedParameters(ctx, store); err != nil {
		return err
	}

	var resolver calc.DistanceResolver
	if cfg.IsDistanceConfigured() {
		resolver = distance.New(distance.Config{
			Endpoint: cfg.Distance.Endpoint,
			APIKey:   cfg.Distance.APIKey,
			Origin:   cfg.Distance.Origin,
			Timeout:  cfg.Distance.Timeout,
		})
	} else {
		logging.Warn("distance API not configured, calculations run without displacement")
	}

	mailer := notify.New(notify.Config{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.SMTPUsername,
		Password: cfg.Email.SMTPPassword,
		From:     cfg.Email.FromEmail,
		FromName: cfg.Email.FromName,
	})
	if !cfg.IsEmailConfigured() {
		logging.Warn("SMTP not configured, notifications disabled")
	}

	capitals := diaria.DefaultCapitalSet()
	service := calc.New(store, resolver, capitals, nil)
	handler := api.NewHandler(store, service, mailer, capitals, nil)
	router := api.NewRouter(handler, api.RouterConfig{
		JWTSecret:      cfg.JWT.Secret,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logging.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logging.Info("server stopped")
	return nil
}

// seedParameters writes the configured defaults on first run so the
// calculation endpoints work before an administrator tunes them.
func seedParameters(ctx context.Context, store *sqlite.Store) error {
	_, err := store.GetParameters(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sqlite.ErrNotFound) {
		return err
	}

	params := sqlite.Parameters{
		UnitValue: cfg.Defaults.UnitValue,
		FuelPrice: cfg.Defaults.FuelPrice,
	}
	if err := store.SaveParameters(ctx, params); err != nil {
		return err
	}
	logging.Info("seeded default parameters",
		zap.String("upm", params.UnitValue.String()),
		zap.String("fuel", params.FuelPrice.String()))
	return nil
}
