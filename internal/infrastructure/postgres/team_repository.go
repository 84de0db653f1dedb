package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
)

var _ repository.TeamRepository = (*TeamRepo)(nil)

// TeamRepo equipos (teams) y membresías (team_members).
type TeamRepo struct {
	q Querier
}

// NewTeamRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTeamRepository(q Querier) *TeamRepo {
	return &TeamRepo{q: q}
}

const selectTeam = `SELECT id, company_id, name, manager_id, created_at, updated_at FROM teams`

func (r *TeamRepo) Create(ctx context.Context, t *entity.Team) error {
	query := `
		INSERT INTO teams (id, company_id, name, manager_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, t.ID, t.CompanyID, t.Name, nullable(t.ManagerID), t.CreatedAt, t.UpdatedAt)
	return mapError("insert team", err)
}

func (r *TeamRepo) GetByID(ctx context.Context, id string) (*entity.Team, error) {
	var t entity.Team
	var managerID *string
	err := r.q.QueryRow(ctx, selectTeam+` WHERE id = $1`, id).
		Scan(&t.ID, &t.CompanyID, &t.Name, &managerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	t.ManagerID = deref(managerID)
	return &t, nil
}

func (r *TeamRepo) Update(ctx context.Context, t *entity.Team) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE teams SET company_id = $2, name = $3, manager_id = $4, updated_at = $5 WHERE id = $1`,
		t.ID, t.CompanyID, t.Name, nullable(t.ManagerID), t.UpdatedAt,
	)
	if err != nil {
		return mapError("update team", err)
	}
	return expectRow(tag, "equipo", t.ID)
}

func (r *TeamRepo) List(ctx context.Context, companyID string) ([]*entity.Team, error) {
	if companyID == "" {
		return r.list(ctx, selectTeam+` ORDER BY name, id`)
	}
	return r.list(ctx, selectTeam+` WHERE company_id = $1 ORDER BY name, id`, companyID)
}

func (r *TeamRepo) ListByManager(ctx context.Context, managerID string) ([]*entity.Team, error) {
	return r.list(ctx, selectTeam+` WHERE manager_id = $1 ORDER BY name, id`, managerID)
}

func (r *TeamRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Team, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()
	var list []*entity.Team
	for rows.Next() {
		var t entity.Team
		var managerID *string
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Name, &managerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		t.ManagerID = deref(managerID)
		list = append(list, &t)
	}
	return list, rows.Err()
}

func (r *TeamRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return mapError("delete team", err)
	}
	return expectRow(tag, "equipo", id)
}

// AddMember inserta la membresía; PK duplicada -> ErrConflict, FK inexistente -> ErrNotFound.
func (r *TeamRepo) AddMember(ctx context.Context, m *entity.TeamMembership) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO team_members (team_id, user_id, created_at) VALUES ($1, $2, $3)`,
		m.TeamID, m.UserID, m.CreatedAt,
	)
	return mapError("insert team member", err)
}

func (r *TeamRepo) RemoveMember(ctx context.Context, teamID, userID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)
	if err != nil {
		return mapError("delete team member", err)
	}
	return expectRow(tag, "miembro", userID)
}

func (r *TeamRepo) ListMemberIDs(ctx context.Context, teamID string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT user_id FROM team_members WHERE team_id = $1 ORDER BY user_id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RemoveUser borra membresías y desasigna al usuario como gerente. Dentro de la transacción
// de borrado se ejecuta antes de eliminar el perfil.
func (r *TeamRepo) RemoveUser(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM team_members WHERE user_id = $1`, userID); err != nil {
		return mapError("delete memberships", err)
	}
	if _, err := r.q.Exec(ctx, `UPDATE teams SET manager_id = NULL WHERE manager_id = $1`, userID); err != nil {
		return mapError("clear team manager", err)
	}
	return nil
}
