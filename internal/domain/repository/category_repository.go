package repository

import (
	"context"

	"github.com/jhoicas/Coins-api/internal/domain/entity"
)

// CategoryRepository categorías del ledger. Delete no borra movimientos: su referencia queda vacía.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error) // más recientes primero
	Delete(ctx context.Context, id string) error
}
