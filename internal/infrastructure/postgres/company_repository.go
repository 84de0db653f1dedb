package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, logo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, c.ID, c.Name, nullable(c.LogoURL), c.CreatedAt, c.UpdatedAt)
	return mapError("insert company", err)
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	var c entity.Company
	var logo *string
	err := r.q.QueryRow(ctx,
		`SELECT id, name, logo_url, created_at, updated_at FROM companies WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &logo, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	c.LogoURL = deref(logo)
	return &c, nil
}

// Update actualiza nombre y logo.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE companies SET name = $2, logo_url = $3, updated_at = $4 WHERE id = $1`,
		c.ID, c.Name, nullable(c.LogoURL), c.UpdatedAt,
	)
	if err != nil {
		return mapError("update company", err)
	}
	return expectRow(tag, "empresa", c.ID)
}

// List devuelve empresas ordenadas por nombre con paginación.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, name, logo_url, created_at, updated_at FROM companies ORDER BY name, id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		var c entity.Company
		var logo *string
		if err := rows.Scan(&c.ID, &c.Name, &logo, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		c.LogoURL = deref(logo)
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Delete elimina una empresa. Equipos en cascada; perfiles y roles quedan sin empresa.
func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return mapError("delete company", err)
	}
	return expectRow(tag, "empresa", id)
}
