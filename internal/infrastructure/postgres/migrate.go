package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver "pgx" para database/sql
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/Coins-api/migrations"
	"github.com/jhoicas/Coins-api/pkg/logger"
)

// Migrator aplica las migraciones goose sobre el DSN configurado.
type Migrator struct {
	dsn string
	fs  fs.FS
	log *logger.Logger
}

// NewMigrator usa las migraciones embebidas, o las de dir si no está vacío.
func NewMigrator(dsn, dir string, log *logger.Logger) (*Migrator, error) {
	if dsn == "" {
		return nil, errors.New("migrate: dsn vacío")
	}
	var source fs.FS = migrations.FS
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("locate migrations dir: %w", err)
		}
		source = os.DirFS(dir)
	}
	return &Migrator{dsn: dsn, fs: source, log: logger.OrNop(log)}, nil
}

// Up aplica las migraciones pendientes.
func (m *Migrator) Up(ctx context.Context) error {
	return m.withProvider(func(p *goose.Provider) error {
		runCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		results, err := p.Up(runCtx)
		if err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		for _, r := range results {
			m.log.Info().Int64("version", r.Source.Version).Dur("duration", r.Duration).Msg("migración aplicada")
		}
		return nil
	})
}

// Down revierte la última migración aplicada.
func (m *Migrator) Down(ctx context.Context) error {
	return m.withProvider(func(p *goose.Provider) error {
		r, err := p.Down(ctx)
		if err != nil {
			return fmt.Errorf("rollback migration: %w", err)
		}
		m.log.Info().Int64("version", r.Source.Version).Msg("migración revertida")
		return nil
	})
}

// Status registra el estado de cada migración.
func (m *Migrator) Status(ctx context.Context) error {
	return m.withProvider(func(p *goose.Provider) error {
		statuses, err := p.Status(ctx)
		if err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		for _, s := range statuses {
			m.log.Info().Int64("version", s.Source.Version).Str("state", string(s.State)).Msg("estado de migración")
		}
		return nil
	})
}

func (m *Migrator) withProvider(fn func(p *goose.Provider) error) error {
	db, err := sql.Open("pgx", m.dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, m.fs)
	if err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}
	return fn(provider)
}
