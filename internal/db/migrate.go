// Package db applies the embedded schema migrations.
package db

import (
	"fmt"
	"io/fs"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/0xsj/overwatch-pkg/log"
)

// Migrate commands.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandVersion = "version"
	CommandForce   = "force"
)

// Run applies or rolls back migrations read from migrationsFS against dsn.
// migrationsFS must hold the .sql files in the directory named by dir.
func Run(logger log.Logger, dsn string, migrationsFS fs.FS, dir, command string, args []string) error {
	switch command {
	case CommandUp, CommandDown, CommandVersion, CommandForce:
	default:
		return fmt.Errorf("unknown migrate command: %s (use: up, down, version, force)", command)
	}
	if command == CommandForce && len(args) == 0 {
		return fmt.Errorf("force requires a version number argument")
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer m.Close()

	m.Log = &migrateLogger{logger: logger}

	switch command {
	case CommandUp:
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("migrate up: %w", err)
		}
		ver, dirty, _ := m.Version()
		logger.Info("migration complete",
			log.Any("version", ver),
			log.Any("dirty", dirty),
		)

	case CommandDown:
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("migrate down: %w", err)
		}
		logger.Info("all migrations rolled back")

	case CommandVersion:
		ver, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("migrate version: %w", err)
		}
		logger.Info("current version",
			log.Any("version", ver),
			log.Any("dirty", dirty),
		)

	case CommandForce:
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version: %w", err)
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("migrate force: %w", err)
		}
		logger.Info("forced version", log.Any("version", version))
	}

	return nil
}

type migrateLogger struct {
	logger log.Logger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
