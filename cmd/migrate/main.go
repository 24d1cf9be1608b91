// Command migrate applies the versioned SQL files under migrations/.
//
//	migrate [-config config.yaml] [-path migrations] up|down|version|force N
package main

import (
	"errors"
	"flag"
	"log"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"rachas/hub/internal/config"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	dir := flag.String("path", "migrations", "directory holding *.up.sql / *.down.sql")
	steps := flag.Int("steps", 0, "apply only N steps (up) or roll back N steps (down)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	m, err := migrate.New("file://"+*dir, cfg.Database.Postgres.URL())
	if err != nil {
		logger.Fatal("failed to init migrate", zap.Error(err))
	}
	defer m.Close()

	cmd := flag.Arg(0)
	switch cmd {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	case "force":
		v, convErr := strconv.Atoi(flag.Arg(1))
		if convErr != nil {
			logger.Fatal("force needs a version number", zap.String("arg", flag.Arg(1)))
		}
		err = m.Force(v)
	case "version":
	default:
		logger.Fatal("unknown command, want up|down|version|force", zap.String("command", cmd))
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("migration failed", zap.String("command", cmd), zap.Error(err))
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		logger.Fatal("failed to read version", zap.Error(err))
	}
	logger.Info("migration state", zap.Uint("version", version), zap.Bool("dirty", dirty))
}
