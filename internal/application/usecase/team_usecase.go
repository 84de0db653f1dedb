package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Coins-api/internal/application/dto"
	"github.com/jhoicas/Coins-api/internal/application/guard"
	"github.com/jhoicas/Coins-api/internal/domain"
	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
	"github.com/jhoicas/Coins-api/pkg/logger"
)

// TeamUseCase equipos, membresías y vistas del gerente.
type TeamUseCase struct {
	guard     *guard.Guard
	teams     repository.TeamRepository
	companies repository.CompanyRepository
	users     repository.UserRepository
	roles     repository.RoleRepository
	txs       repository.TransactionRepository
	log       *logger.Logger
}

// NewTeamUseCase construye el caso de uso.
func NewTeamUseCase(
	g *guard.Guard,
	teams repository.TeamRepository,
	companies repository.CompanyRepository,
	users repository.UserRepository,
	roles repository.RoleRepository,
	txs repository.TransactionRepository,
	log *logger.Logger,
) *TeamUseCase {
	return &TeamUseCase{
		guard:     g,
		teams:     teams,
		companies: companies,
		users:     users,
		roles:     roles,
		txs:       txs,
		log:       logger.OrNop(log).Named("team"),
	}
}

// Create da de alta un equipo. El gerente, si se indica, debe tener rol manager.
func (uc *TeamUseCase) Create(ctx context.Context, caller *guard.Caller, in dto.CreateTeamRequest) (*dto.TeamResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpManageTeams}); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.checkCompany(ctx, in.CompanyID); err != nil {
		return nil, err
	}
	if err := uc.checkManager(ctx, in.ManagerID); err != nil {
		return nil, err
	}
	now := time.Now()
	team := &entity.Team{
		ID:        uuid.New().String(),
		CompanyID: in.CompanyID,
		Name:      in.Name,
		ManagerID: in.ManagerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.teams.Create(ctx, team); err != nil {
		return nil, err
	}
	uc.log.Info().Str("team_id", team.ID).Str("company_id", team.CompanyID).Msg("equipo creado")
	return toTeamResponse(team), nil
}

// Get obtiene un equipo.
func (uc *TeamUseCase) Get(ctx context.Context, caller *guard.Caller, id string) (*dto.TeamResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpManageTeams}); err != nil {
		return nil, err
	}
	team, err := uc.mustTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTeamResponse(team), nil
}

// List equipos, filtrados por empresa cuando companyID no está vacío.
func (uc *TeamUseCase) List(ctx context.Context, caller *guard.Caller, companyID string) (*dto.TeamListResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpManageTeams}); err != nil {
		return nil, err
	}
	list, err := uc.teams.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TeamResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTeamResponse(t))
	}
	return &dto.TeamListResponse{Items: items}, nil
}

// Update aplica los campos presentes. manager_id "" quita el gerente.
func (uc *TeamUseCase) Update(ctx context.Context, caller *guard.Caller, id string, in dto.UpdateTeamRequest) (*dto.TeamResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpManageTeams}); err != nil {
		return nil, err
	}
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		in.Name = &n
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	team, err := uc.mustTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		team.Name = *in.Name
	}
	if in.CompanyID != nil && *in.CompanyID != team.CompanyID {
		if err := uc.checkCompany(ctx, *in.CompanyID); err != nil {
			return nil, err
		}
		team.CompanyID = *in.CompanyID
	}
	if in.ManagerID != nil {
		if err := uc.checkManager(ctx, *in.ManagerID); err != nil {
			return nil, err
		}
		team.ManagerID = *in.ManagerID
	}
	team.UpdatedAt = time.Now()
	if err := uc.teams.Update(ctx, team); err != nil {
		return nil, err
	}
	return toTeamResponse(team), nil
}

// Delete elimina el equipo y sus membresías.
func (uc *TeamUseCase) Delete(ctx context.Context, caller *guard.Caller, id string) error {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpManageTeams}); err != nil {
		return err
	}
	if err := uc.teams.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("team_id", id).Msg("equipo eliminado")
	return nil
}

// AddMember agrega un usuario al equipo. Ya miembro -> ErrConflict.
func (uc *TeamUseCase) AddMember(ctx context.Context, caller *guard.Caller, teamID string, in dto.AddMemberRequest) error {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpManageMembership, TeamID: teamID}); err != nil {
		return err
	}
	if err := dto.Validate(in); err != nil {
		return err
	}
	if _, err := uc.mustTeam(ctx, teamID); err != nil {
		return err
	}
	user, err := uc.users.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, in.UserID)
	}
	// La empresa del usuario no se compara con la del equipo.
	return uc.teams.AddMember(ctx, &entity.TeamMembership{TeamID: teamID, UserID: in.UserID, CreatedAt: time.Now()})
}

// RemoveMember quita un usuario del equipo. No era miembro -> ErrNotFound.
func (uc *TeamUseCase) RemoveMember(ctx context.Context, caller *guard.Caller, teamID, userID string) error {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpManageMembership, TeamID: teamID}); err != nil {
		return err
	}
	return uc.teams.RemoveMember(ctx, teamID, userID)
}

// Roster miembros del equipo con su saldo. Solo el gerente del equipo (o admin).
func (uc *TeamUseCase) Roster(ctx context.Context, caller *guard.Caller, teamID string) (*dto.TeamRosterResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpViewTeamRoster, TeamID: teamID}); err != nil {
		return nil, err
	}
	ids, err := uc.teams.ListMemberIDs(ctx, teamID)
	if err != nil {
		return nil, err
	}
	users, err := uc.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	balances, err := uc.txs.SumByUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	members := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		b := balances[u.ID]
		members = append(members, dto.UserResponse{
			ID:        u.ID,
			Email:     u.Email,
			FullName:  u.FullName,
			CompanyID: u.CompanyID,
			Balance:   &b,
			CreatedAt: u.CreatedAt,
		})
	}
	return &dto.TeamRosterResponse{TeamID: teamID, Members: members}, nil
}

// ManagedTeams equipos que gestiona el llamante, con cantidad de miembros y total de monedas.
// Cada equipo pasa por la misma verificación que Roster: un gerente degradado no ve nada.
func (uc *TeamUseCase) ManagedTeams(ctx context.Context, caller *guard.Caller) (*dto.TeamListResponse, error) {
	if caller == nil || caller.UserID == "" {
		return nil, fmt.Errorf("%w: credencial requerida", domain.ErrUnauthenticated)
	}
	list, err := uc.teams.ListByManager(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TeamResponse, 0, len(list))
	for _, t := range list {
		d := uc.guard.Evaluate(ctx, caller, guard.Request{Op: guard.OpViewTeamRoster, TeamID: t.ID})
		if !d.Allowed() {
			continue
		}
		ids, err := uc.teams.ListMemberIDs(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		balances, err := uc.txs.SumByUsers(ctx, ids)
		if err != nil {
			return nil, err
		}
		var total int64
		for _, b := range balances {
			total += b
		}
		count := len(ids)
		resp := toTeamResponse(t)
		resp.MemberCount = &count
		resp.TotalCoins = &total
		items = append(items, *resp)
	}
	return &dto.TeamListResponse{Items: items}, nil
}

func (uc *TeamUseCase) mustTeam(ctx context.Context, id string) (*entity.Team, error) {
	team, err := uc.teams.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, fmt.Errorf("%w: equipo %s", domain.ErrNotFound, id)
	}
	return team, nil
}

func (uc *TeamUseCase) checkCompany(ctx context.Context, companyID string) error {
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return fmt.Errorf("%w: empresa %s", domain.ErrNotFound, companyID)
	}
	return nil
}

func (uc *TeamUseCase) checkManager(ctx context.Context, managerID string) error {
	if managerID == "" {
		return nil
	}
	role, err := uc.roles.Get(ctx, managerID)
	if err != nil {
		return err
	}
	if role == nil {
		user, err := uc.users.GetByID(ctx, managerID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, managerID)
		}
	}
	if !role.Is(entity.RoleManager) {
		return fmt.Errorf("%w: el gerente debe tener rol manager", domain.ErrInvalidInput)
	}
	return nil
}

func toTeamResponse(t *entity.Team) *dto.TeamResponse {
	return &dto.TeamResponse{
		ID:        t.ID,
		Name:      t.Name,
		CompanyID: t.CompanyID,
		ManagerID: t.ManagerID,
		CreatedAt: t.CreatedAt,
	}
}
