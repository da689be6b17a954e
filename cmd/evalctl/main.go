// Command evalctl prints stored evaluations, statistics and the rubric from
// the evaluator database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/fadilmartias/presentation-evaluator/internal/cli"
	"github.com/fadilmartias/presentation-evaluator/internal/config"
	"github.com/fadilmartias/presentation-evaluator/internal/database"
	"github.com/joho/godotenv"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: evalctl [-env file] <%s>\n", strings.Join(cli.Commands, "|"))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	logger := clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := clog.WithLogger(context.Background(), logger)

	if err := run(ctx, *envFile, flag.Arg(0)); err != nil {
		clog.FromContext(ctx).Errorf("evalctl: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, envFile, command string) error {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load(envFile)

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	db, err := database.Connect(ctx, cfg.DB, cfg.App.IsProduction())
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	return cli.Run(ctx, db, command, os.Stdout)
}
