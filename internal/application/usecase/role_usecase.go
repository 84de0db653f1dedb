package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Coins-api/internal/application/dto"
	"github.com/jhoicas/Coins-api/internal/application/guard"
	"github.com/jhoicas/Coins-api/internal/domain"
	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
	"github.com/jhoicas/Coins-api/pkg/logger"
)

// RoleUseCase Role & Scope Store: una asignación activa por usuario.
type RoleUseCase struct {
	guard     *guard.Guard
	roles     repository.RoleRepository
	users     repository.UserRepository
	companies repository.CompanyRepository
	log       *logger.Logger
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(g *guard.Guard, roles repository.RoleRepository, users repository.UserRepository, companies repository.CompanyRepository, log *logger.Logger) *RoleUseCase {
	return &RoleUseCase{guard: g, roles: roles, users: users, companies: companies, log: logger.OrNop(log).Named("role")}
}

// RoleOf asignación vigente o nil si el usuario no tiene rol.
func (uc *RoleUseCase) RoleOf(ctx context.Context, userID string) (*entity.RoleAssignment, error) {
	return uc.roles.Get(ctx, userID)
}

// Assign reemplaza el rol del usuario. manager y user necesitan empresa: si no se indica se
// usa la del perfil. admin es global y la empresa es opcional.
func (uc *RoleUseCase) Assign(ctx context.Context, caller *guard.Caller, userID string, in dto.AssignRoleRequest) (*dto.RoleResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpManageRoles, SubjectID: userID}); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, userID)
	}

	companyID := in.CompanyID
	if companyID == "" {
		companyID = user.CompanyID
	}
	if companyID == "" && in.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("%w: el rol %s requiere company_id", domain.ErrInvalidInput, in.Role)
	}
	if companyID != "" {
		company, err := uc.companies.GetByID(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, companyID)
		}
	}

	assignment := &entity.RoleAssignment{
		UserID:    userID,
		Role:      in.Role,
		CompanyID: companyID,
		UpdatedAt: time.Now(),
	}
	if err := uc.roles.Upsert(ctx, assignment); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Str("role", in.Role).Str("assigned_by", caller.UserID).Msg("rol asignado")
	return &dto.RoleResponse{UserID: userID, Role: assignment.Role, CompanyID: assignment.CompanyID}, nil
}
