package repository

import (
	"context"

	"github.com/jhoicas/Coins-api/internal/domain/entity"
)

// RoleRepository almacena la única asignación de rol activa por usuario.
type RoleRepository interface {
	// Get devuelve (nil, nil) cuando el usuario no tiene rol.
	Get(ctx context.Context, userID string) (*entity.RoleAssignment, error)
	// Upsert reemplaza la asignación existente (no agrega una segunda).
	Upsert(ctx context.Context, assignment *entity.RoleAssignment) error
	Delete(ctx context.Context, userID string) error
	List(ctx context.Context) ([]*entity.RoleAssignment, error)
}
