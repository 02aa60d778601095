package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/evcraddock/smartvisit/internal/advisor"
	"github.com/evcraddock/smartvisit/internal/auth"
	"github.com/evcraddock/smartvisit/internal/config"
	"github.com/evcraddock/smartvisit/internal/db"
	"github.com/evcraddock/smartvisit/internal/logging"
	"github.com/evcraddock/smartvisit/internal/metrics"
	"github.com/evcraddock/smartvisit/internal/slot"
	"github.com/evcraddock/smartvisit/internal/visitor"
	"github.com/evcraddock/smartvisit/internal/web"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP API server. Settings come from --config, $SV_CONFIG and SV_* environment variables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg, os.Stdout)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on (overrides config)")

	return cmd
}

// service is the assembled server and the resources it owns.
type service struct {
	handler   http.Handler
	scheduler *cron.Cron
	closers   []func() error
	log       *slog.Logger
}

// Close releases the service's resources in reverse order of acquisition.
func (s *service) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.log.Warn("closing resource", "error", err)
		}
	}
}

// buildService opens storage, restores the visitor records and wires the
// HTTP handler. The caller must Close the result.
func buildService(cfg *config.Config, logger *slog.Logger) (*service, error) {
	svc := &service{log: logger}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	svc.closers = append(svc.closers, database.Close)

	slots, err := slot.Open(cfg.Storage, database, cfg.StoragePath)
	if err != nil {
		svc.Close()
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage, err)
	}
	if c, ok := slots.(io.Closer); ok {
		svc.closers = append(svc.closers, c.Close)
	}

	store := visitor.NewStore(slots, logger)
	store.Load()

	ctrl := visitor.NewController(store, visitor.WithLogger(logger))
	m := metrics.New()

	adv, err := newAdvisor(cfg.LLM, logger, m)
	if err != nil {
		svc.Close()
		return nil, err
	}

	sessions := auth.NewSessionStore(database)
	svc.scheduler = cron.New()
	if _, err := auth.ScheduleCleanup(svc.scheduler, sessions, cfg.SessionCleanup, logger); err != nil {
		svc.Close()
		return nil, err
	}

	srv, err := web.NewServer(web.Options{
		Store:           store,
		Controller:      ctrl,
		Advisor:         adv,
		Sessions:        sessions,
		Gate:            auth.NewGate(cfg.StaffPassword),
		Metrics:         m,
		RegistrationURL: cfg.RegistrationURL,
		Logger:          logger,
	})
	if err != nil {
		svc.Close()
		return nil, err
	}
	svc.handler = srv

	return svc, nil
}

// newAdvisor returns an advisor backed by the Anthropic API, or one that
// always falls back when no API key is configured.
func newAdvisor(cfg config.LLMConfig, logger *slog.Logger, m *metrics.Metrics) (*advisor.Advisor, error) {
	opts := []advisor.Option{
		advisor.WithLogger(logger),
		advisor.WithFallbackHook(m.AdvisorFallback),
	}

	if !cfg.Enabled() {
		logger.Info("advisor disabled, no LLM API key configured")
		return advisor.New(nil, opts...), nil
	}

	var reqOpts []option.RequestOption
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}

	gen, err := advisor.NewAnthropic(cfg.APIKey, cfg.Model, reqOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	logger.Info("advisor enabled", "model", cfg.Model)
	return advisor.New(gen, opts...), nil
}

func runServe(ctx context.Context, cfg *config.Config, logOut io.Writer) error {
	logger := logging.Setup(logOut, cfg.DevMode, cfg.LogLevel)

	svc, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	svc.scheduler.Start()
	defer func() {
		<-svc.scheduler.Stop().Done()
	}()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           svc.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	logger.Info("server listening", "addr", httpServer.Addr, "base_url", cfg.BaseURL, "storage", cfg.Storage)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", httpServer.Addr, err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
