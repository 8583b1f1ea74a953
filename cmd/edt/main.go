package main

import (
	"context"
	"fmt"
	"os"

	"github.com/noah-isme/edt-api/internal/cli"
	"github.com/noah-isme/edt-api/pkg/config"
	"github.com/noah-isme/edt-api/pkg/logger"
)

// @title EDT API
// @version 1.0.0
// @description University timetable generation and conflict management
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	return cli.NewRootCmd(cli.NewEnv(cfg, logr)).ExecuteContext(context.Background())
}
