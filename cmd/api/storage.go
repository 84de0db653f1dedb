package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/Coins-api/internal/application/auth"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
	"github.com/jhoicas/Coins-api/internal/infrastructure/memory"
	"github.com/jhoicas/Coins-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Coins-api/pkg/config"
	"github.com/jhoicas/Coins-api/pkg/logger"
)

// storage repositorios del driver elegido en STORAGE_DRIVER.
type storage struct {
	tx           auth.TxRunner
	accounts     repository.AccountRepository
	users        repository.UserRepository
	roles        repository.RoleRepository
	companies    repository.CompanyRepository
	teams        repository.TeamRepository
	categories   repository.CategoryRepository
	transactions repository.TransactionRepository
	close        func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.Storage == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			tx:           s,
			accounts:     s.Accounts(),
			users:        s.Users(),
			roles:        s.Roles(),
			companies:    s.Companies(),
			teams:        s.Teams(),
			categories:   s.Categories(),
			transactions: s.Transactions(),
			close:        func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), cfg.DB.MigrationsPath, log.Named("migrate"))
		if err != nil {
			return nil, err
		}
		if err := m.Up(ctx); err != nil {
			return nil, err
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return &storage{
		tx:           postgres.NewTxRunner(pool),
		accounts:     postgres.NewAccountRepository(pool),
		users:        postgres.NewUserRepository(pool),
		roles:        postgres.NewRoleRepository(pool),
		companies:    postgres.NewCompanyRepository(pool),
		teams:        postgres.NewTeamRepository(pool),
		categories:   postgres.NewCategoryRepository(pool),
		transactions: postgres.NewTransactionRepository(pool),
		close:        pool.Close,
	}, nil
}
