package repository

import (
	"context"

	"github.com/jhoicas/Coins-api/internal/domain/entity"
)

// TeamRepository equipos y membresías.
type TeamRepository interface {
	Create(ctx context.Context, team *entity.Team) error
	GetByID(ctx context.Context, id string) (*entity.Team, error)
	Update(ctx context.Context, team *entity.Team) error
	// List filtra por empresa cuando companyID no está vacío.
	List(ctx context.Context, companyID string) ([]*entity.Team, error)
	ListByManager(ctx context.Context, managerID string) ([]*entity.Team, error)
	Delete(ctx context.Context, id string) error

	AddMember(ctx context.Context, membership *entity.TeamMembership) error // domain.ErrConflict si ya es miembro
	RemoveMember(ctx context.Context, teamID, userID string) error          // domain.ErrNotFound si no lo era
	ListMemberIDs(ctx context.Context, teamID string) ([]string, error)
	// RemoveUser borra las membresías del usuario y lo quita como gerente de sus equipos.
	RemoveUser(ctx context.Context, userID string) error
}
