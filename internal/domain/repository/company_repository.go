package repository

import (
	"context"

	"github.com/jhoicas/Coins-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// Delete elimina en cascada los equipos de la empresa y deja sin empresa a perfiles y roles.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	Delete(ctx context.Context, id string) error
}
