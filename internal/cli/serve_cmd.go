package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/edt-api/internal/service"
	"github.com/noah-isme/edt-api/pkg/database"
	"github.com/noah-isme/edt-api/pkg/jobs"
)

func newServeCmd(env *Env) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if migrate {
				if err := database.Migrate(ctx, app.DB); err != nil {
					return err
				}
			}

			queue := newSweepQueue(app)
			queue.Start(ctx)
			defer queue.Stop()
			if env.Config.Attributions.SweepEnabled {
				if err := queue.Every(env.Config.Attributions.SweepInterval, service.JobTypeAttributionSweep); err != nil {
					return err
				}
				env.Logger.Info("attribution sweep scheduled", zap.Duration("interval", env.Config.Attributions.SweepInterval))
			}

			server := &http.Server{
				Addr:              fmt.Sprintf(":%d", env.Config.Port),
				Handler:           NewRouter(app),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				env.Logger.Sugar().Infow("server starting", "addr", server.Addr, "env", env.Config.Env)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			env.Logger.Info("server shutting down")
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply the schema before serving")

	return cmd
}

func newSweepQueue(app *App) *jobs.Queue {
	return jobs.NewQueue("attributions", func(ctx context.Context, job jobs.Job) error {
		switch job.Type {
		case service.JobTypeAttributionSweep:
			return app.Attributions.HandleSweepJob(ctx, job)
		default:
			return fmt.Errorf("unknown job type %q", job.Type)
		}
	}, jobs.QueueConfig{Workers: 1, Logger: app.Logger})
}
