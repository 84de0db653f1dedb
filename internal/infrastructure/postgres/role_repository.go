package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo asignaciones de rol (tabla user_roles, PK user_id).
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

func (r *RoleRepo) Get(ctx context.Context, userID string) (*entity.RoleAssignment, error) {
	var a entity.RoleAssignment
	var companyID *string
	err := r.q.QueryRow(ctx,
		`SELECT user_id, role, company_id, updated_at FROM user_roles WHERE user_id = $1`, userID,
	).Scan(&a.UserID, &a.Role, &companyID, &a.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, mapError("get role", err)
	}
	a.CompanyID = deref(companyID)
	return &a, nil
}

// Upsert reemplaza la asignación activa: nunca quedan dos filas para el mismo usuario.
func (r *RoleRepo) Upsert(ctx context.Context, a *entity.RoleAssignment) error {
	query := `
		INSERT INTO user_roles (user_id, role, company_id, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		   SET role = EXCLUDED.role, company_id = EXCLUDED.company_id, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, a.UserID, a.Role, nullable(a.CompanyID), a.UpdatedAt)
	return mapError("upsert role", err)
}

func (r *RoleRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID)
	return mapError("delete role", err)
}

func (r *RoleRepo) List(ctx context.Context) ([]*entity.RoleAssignment, error) {
	rows, err := r.q.Query(ctx, `SELECT user_id, role, company_id, updated_at FROM user_roles ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var list []*entity.RoleAssignment
	for rows.Next() {
		var a entity.RoleAssignment
		var companyID *string
		if err := rows.Scan(&a.UserID, &a.Role, &companyID, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		a.CompanyID = deref(companyID)
		list = append(list, &a)
	}
	return list, rows.Err()
}
