package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Coins-api/internal/domain"
	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
)

var (
	_ repository.AccountRepository = (*AccountRepo)(nil)
	_ repository.UserRepository    = (*UserRepo)(nil)
)

// AccountRepo credenciales en memoria.
type AccountRepo struct{ s *Store }

func emailTaken(st *state, email, exceptID string) bool {
	for id, a := range st.accounts {
		if a.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

// Create persiste una cuenta; email e ID son únicos.
func (r *AccountRepo) Create(_ context.Context, a *entity.Account) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.accounts[a.ID]; ok {
			return fmt.Errorf("%w: cuenta %s ya existe", domain.ErrConflict, a.ID)
		}
		if emailTaken(st, a.Email, "") {
			return fmt.Errorf("%w: el email ya está registrado", domain.ErrConflict)
		}
		st.accounts[a.ID] = *a
		return nil
	})
}

func (r *AccountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	var out *entity.Account
	err := r.s.read(func(st *state) error {
		if a, ok := st.accounts[id]; ok {
			out = &a
		}
		return nil
	})
	return out, err
}

func (r *AccountRepo) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	var out *entity.Account
	err := r.s.read(func(st *state) error {
		for _, a := range st.accounts {
			if a.Email == email {
				a := a
				out = &a
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *AccountRepo) UpdateEmail(_ context.Context, id, email string) error {
	return r.s.write(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return notFound("cuenta", id)
		}
		if emailTaken(st, email, id) {
			return fmt.Errorf("%w: el email ya está registrado", domain.ErrConflict)
		}
		a.Email = email
		a.UpdatedAt = time.Now()
		st.accounts[id] = a
		return nil
	})
}

func (r *AccountRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	return r.s.write(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return notFound("cuenta", id)
		}
		a.PasswordHash = hash
		a.UpdatedAt = time.Now()
		st.accounts[id] = a
		return nil
	})
}

func (r *AccountRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.accounts[id]; !ok {
			return notFound("cuenta", id)
		}
		delete(st.accounts, id)
		return nil
	})
}

// UserRepo perfiles en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.users[u.ID]; ok {
			return fmt.Errorf("%w: usuario %s ya existe", domain.ErrConflict, u.ID)
		}
		if u.CompanyID != "" {
			if _, ok := st.companies[u.CompanyID]; !ok {
				return notFound("empresa", u.CompanyID)
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.s.read(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.s.read(func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

// List devuelve los perfiles ordenados por fecha de alta (y por ID ante empates).
func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	err := r.s.read(func(st *state) error {
		for _, u := range st.users {
			u := u
			out = append(out, &u)
		}
		return nil
	})
	sortUsers(out)
	return out, err
}

func (r *UserRepo) ListByIDs(_ context.Context, ids []string) ([]*entity.User, error) {
	var out []*entity.User
	err := r.s.read(func(st *state) error {
		for _, id := range ids {
			if u, ok := st.users[id]; ok {
				out = append(out, &u)
			}
		}
		return nil
	})
	sortUsers(out)
	return out, err
}

func (r *UserRepo) UpdateEmail(_ context.Context, id, email string) error {
	return r.s.write(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return notFound("usuario", id)
		}
		u.Email = email
		u.UpdatedAt = time.Now()
		st.users[id] = u
		return nil
	})
}

// Delete borra el perfil con la cascada del esquema: rol y membresías. Los movimientos
// del ledger se conservan.
func (r *UserRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return notFound("usuario", id)
		}
		delete(st.users, id)
		delete(st.roles, id)
		removeUserFromTeams(st, id)
		return nil
	})
}

// sortUsers más recientes primero.
func sortUsers(list []*entity.User) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}
