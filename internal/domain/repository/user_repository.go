package repository

import (
	"context"

	"github.com/jhoicas/Coins-api/internal/domain/entity"
)

// AccountRepository puerto de persistencia para credenciales (lado proveedor de identidad).
// Los métodos Get* devuelven (nil, nil) si no existe.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error // domain.ErrConflict si el email ya existe
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}

// UserRepository puerto de persistencia para perfiles.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
	// UpdateEmail actualiza el espejo desnormalizado del email de la cuenta.
	UpdateEmail(ctx context.Context, id, email string) error
	Delete(ctx context.Context, id string) error
}
