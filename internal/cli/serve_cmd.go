package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/estudio/internal/httpapi"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Servir a API HTTP do estúdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.ServerAddr
			}
			api := httpapi.New(httpapi.Deps{
				Auth:         app.Auth,
				Admin:        app.Admin,
				Calendar:     app.Calendar,
				Collaborator: app.Collaborator,
				Metrics:      app.Metrics,
				Logger:       app.logger(),
				HasKey:       app.LLMConfig.Enabled,
				CORSOrigins:  app.CORSOrigins,
				Probe: func(ctx context.Context) bool {
					return app.LLM != nil && app.LLM.Available(ctx)
				},
			})
			srv := &http.Server{
				Addr:              addr,
				Handler:           api.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				app.logger().Info("http server listening", "addr", addr)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			app.logger().Info("http server shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Endereço de escuta (padrão: server.addr)")
	return cmd
}
