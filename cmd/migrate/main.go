// migrate aplica, revierte o lista las migraciones goose de la base configurada.
//
// Uso: go run ./cmd/migrate [up|down|status]
// Sin argumento ejecuta "up". Lee DATABASE_URL / DB_* y MIGRATIONS_PATH como la API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/Coins-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Coins-api/pkg/config"
	"github.com/jhoicas/Coins-api/pkg/logger"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), cfg.DB.MigrationsPath, log.Named("migrate"))
	if err != nil {
		log.Fatal().Err(err).Msg("migrator")
	}

	ctx := context.Background()
	switch cmd {
	case "up":
		err = m.Up(ctx)
	case "down":
		err = m.Down(ctx)
	case "status":
		err = m.Status(ctx)
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q (up|down|status)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("migraciones")
	}
}
