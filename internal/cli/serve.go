package cli

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mytodos/internal/handlers"
	"mytodos/internal/theme"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(configPath *string, assets Assets) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the to-do screen over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, *configPath, assets)
		},
	}
}

func runServe(cmd *cobra.Command, configPath string, assets Assets) error {
	a, err := newApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var tmpl *template.Template
	if assets.Templates != nil {
		tmpl, err = handlers.ParseTemplates(assets.Templates)
		if err != nil {
			a.close(context.Background())
			return fmt.Errorf("failed to parse templates: %w", err)
		}
	}

	appearance := theme.NewAppearance(theme.Light)
	unsubscribe := appearance.Subscribe(func(s theme.Scheme) {
		a.logger.Info("appearance changed", slog.String("scheme", string(s)))
	})
	defer unsubscribe()

	h := handlers.New(a.tasks, appearance, theme.Preference(a.cfg.Theme), tmpl, a.logger)
	srv := &http.Server{
		Addr: a.cfg.Addr(),
		Handler: h.Router(handlers.RouterOptions{
			Static:    assets.Static,
			Metrics:   a.metrics.Handler(),
			AccessLog: true,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.tasks.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting server", slog.String("addr", srv.Addr), slog.String("backend", a.cfg.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if a.cfg.AppearanceFile != "" {
		source := theme.NewFileSource(a.cfg.AppearanceFile, appearance, a.logger.With(slog.String("component", "appearance")))
		g.Go(func() error {
			return source.Run(gctx)
		})
	}

	runErr := g.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	closeErr := a.close(closeCtx)

	a.logger.Info("server stopped")
	return errors.Join(runErr, closeErr)
}
