package auth

import (
	"context"

	"github.com/jhoicas/Coins-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una unidad de trabajo atómica. Si fn devuelve error no se
// persiste ninguna de sus escrituras.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		accounts repository.AccountRepository,
		users repository.UserRepository,
		roles repository.RoleRepository,
		teams repository.TeamRepository,
	) error) error
}

// PasswordHasher abstrae bcrypt para poder abaratar el costo en tests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
