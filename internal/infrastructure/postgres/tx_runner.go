package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Coins-api/internal/application/auth"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
)

var _ auth.TxRunner = (*TxRunner)(nil)

// Beginner abre transacciones. *pgxpool.Pool lo implementa.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool Beginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool Beginner) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	accounts repository.AccountRepository,
	users repository.UserRepository,
	roles repository.RoleRepository,
	teams repository.TeamRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewAccountRepository(tx), NewUserRepository(tx), NewRoleRepository(tx), NewTeamRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
