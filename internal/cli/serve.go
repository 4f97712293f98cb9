package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"zonetrack/internal/httpserver"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the schema and serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.cfg.RequireSecret(); err != nil {
				return err
			}
			a.lg.Infow("config loaded", "config", a.cfg.String())
			if !a.cfg.Auth.Required {
				a.lg.Warnw("authentication disabled", "env", "AUTH_REQUIRED")
			}

			router := httpserver.NewRouter(a.svc, a.lg, httpserver.Options{
				Issuer:       a.issuer,
				AuthRequired: a.cfg.Auth.Required,
				BodyLimit:    int64(a.cfg.HTTP.BodyLimitMB) << 20,
			})
			srv := &http.Server{
				Addr:              ":" + a.cfg.HTTP.Port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			errCh := make(chan error, 1)
			go func() {
				a.lg.Infow("listening", "port", a.cfg.HTTP.Port)
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
			a.lg.Infow("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
