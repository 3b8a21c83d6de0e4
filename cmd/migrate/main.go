package main

import (
	"fmt"
	"os"

	"github.com/0xsj/overwatch-pkg/log"

	"github.com/0xsj/overwatch-profile/db"
	"github.com/0xsj/overwatch-profile/internal/config"
	migrations "github.com/0xsj/overwatch-profile/internal/db"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate <up|down|version|force N>")
	}

	cfg, err := config.LoadMigrate()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := log.NewPretty(log.DefaultConfig())

	return migrations.Run(logger, cfg.Database.URL(), db.MigrationsFS, "migrations", args[0], args[1:])
}
