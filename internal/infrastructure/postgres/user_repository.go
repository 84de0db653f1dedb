package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
)

var (
	_ repository.AccountRepository = (*AccountRepo)(nil)
	_ repository.UserRepository    = (*UserRepo)(nil)
)

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// Create persiste una cuenta. Email duplicado -> domain.ErrConflict.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, a.ID, a.Email, a.PasswordHash, a.CreatedAt, a.UpdatedAt)
	return mapError("insert account", err)
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, created_at, updated_at FROM accounts WHERE id = $1`, id)
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, created_at, updated_at FROM accounts WHERE lower(email) = lower($1)`, email)
}

func (r *AccountRepo) getOne(ctx context.Context, query, arg string) (*entity.Account, error) {
	var a entity.Account
	err := r.q.QueryRow(ctx, query, arg).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

func (r *AccountRepo) UpdateEmail(ctx context.Context, id, email string) error {
	tag, err := r.q.Exec(ctx, `UPDATE accounts SET email = $2, updated_at = $3 WHERE id = $1`, id, email, time.Now())
	if err != nil {
		return mapError("update account email", err)
	}
	return expectRow(tag, "cuenta", id)
}

func (r *AccountRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	tag, err := r.q.Exec(ctx, `UPDATE accounts SET password_hash = $2, updated_at = $3 WHERE id = $1`, id, hash, time.Now())
	if err != nil {
		return mapError("update account password", err)
	}
	return expectRow(tag, "cuenta", id)
}

func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return mapError("delete account", err)
	}
	return expectRow(tag, "cuenta", id)
}

// UserRepo implementación del puerto UserRepository (tabla profiles).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de perfiles.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const selectProfile = `SELECT id, company_id, full_name, email, created_at, updated_at FROM profiles`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var companyID *string
	if err := row.Scan(&u.ID, &companyID, &u.FullName, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.CompanyID = deref(companyID)
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO profiles (id, company_id, full_name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, u.ID, nullable(u.CompanyID), u.FullName, u.Email, u.CreatedAt, u.UpdatedAt)
	return mapError("insert profile", err)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, selectProfile+` WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, selectProfile+` WHERE lower(email) = lower($1) LIMIT 1`, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile by email: %w", err)
	}
	return u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, selectProfile+` ORDER BY created_at DESC, id DESC`)
}

func (r *UserRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, selectProfile+` WHERE id = ANY($1::uuid[]) ORDER BY created_at DESC, id DESC`, ids)
}

func (r *UserRepo) list(ctx context.Context, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *UserRepo) UpdateEmail(ctx context.Context, id, email string) error {
	tag, err := r.q.Exec(ctx, `UPDATE profiles SET email = $2, updated_at = $3 WHERE id = $1`, id, email, time.Now())
	if err != nil {
		return mapError("update profile email", err)
	}
	return expectRow(tag, "usuario", id)
}

// Delete borra el perfil; user_roles y team_members caen por ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return mapError("delete profile", err)
	}
	return expectRow(tag, "usuario", id)
}
