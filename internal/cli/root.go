package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/edt-api/pkg/config"
)

// bootstrapFunc opens connections and wires services for one command run.
type bootstrapFunc func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error)

// Env carries what every command needs before services exist.
type Env struct {
	Config    *config.Config
	Logger    *zap.Logger
	bootstrap bootstrapFunc
}

// NewEnv returns an Env that bootstraps against the configured PostgreSQL and Redis.
func NewEnv(cfg *config.Config, logger *zap.Logger) *Env {
	return &Env{Config: cfg, Logger: logger, bootstrap: Bootstrap}
}

// NewRootCmd creates the top-level "edt" command and registers all subcommands.
func NewRootCmd(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:           "edt",
		Short:         "University timetable generation and conflict management",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(env),
		newMigrateCmd(env),
		newGenerateCmd(env),
		newSweepCmd(env),
		newCreateUserCmd(env),
	)

	return root
}

func (e *Env) open(ctx context.Context) (*App, error) {
	return e.bootstrap(ctx, e.Config, e.Logger)
}
