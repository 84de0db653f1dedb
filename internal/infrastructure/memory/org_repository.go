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
	_ repository.RoleRepository    = (*RoleRepo)(nil)
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
	_ repository.TeamRepository    = (*TeamRepo)(nil)
)

// RoleRepo asignaciones de rol en memoria (una por usuario).
type RoleRepo struct{ s *Store }

func (r *RoleRepo) Get(_ context.Context, userID string) (*entity.RoleAssignment, error) {
	var out *entity.RoleAssignment
	err := r.s.read(func(st *state) error {
		if a, ok := st.roles[userID]; ok {
			out = &a
		}
		return nil
	})
	return out, err
}

func (r *RoleRepo) Upsert(_ context.Context, a *entity.RoleAssignment) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.users[a.UserID]; !ok {
			return notFound("usuario", a.UserID)
		}
		if a.CompanyID != "" {
			if _, ok := st.companies[a.CompanyID]; !ok {
				return notFound("empresa", a.CompanyID)
			}
		}
		st.roles[a.UserID] = *a
		return nil
	})
}

func (r *RoleRepo) Delete(_ context.Context, userID string) error {
	return r.s.write(func(st *state) error {
		delete(st.roles, userID)
		return nil
	})
}

func (r *RoleRepo) List(_ context.Context) ([]*entity.RoleAssignment, error) {
	var out []*entity.RoleAssignment
	err := r.s.read(func(st *state) error {
		for _, a := range st.roles {
			a := a
			out = append(out, &a)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, err
}

// CompanyRepo empresas en memoria.
type CompanyRepo struct{ s *Store }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.companies[c.ID]; ok {
			return fmt.Errorf("%w: empresa %s ya existe", domain.ErrConflict, c.ID)
		}
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.s.read(func(st *state) error {
		if c, ok := st.companies[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.companies[c.ID]; !ok {
			return notFound("empresa", c.ID)
		}
		st.companies[c.ID] = *c
		return nil
	})
}

// List ordena por nombre y pagina.
func (r *CompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	var all []*entity.Company
	err := r.s.read(func(st *state) error {
		for _, c := range st.companies {
			c := c
			all = append(all, &c)
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	if offset >= len(all) {
		return nil, err
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], err
}

// Delete borra la empresa, sus equipos (con membresías) y deja sin empresa a perfiles y roles.
func (r *CompanyRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.companies[id]; !ok {
			return notFound("empresa", id)
		}
		delete(st.companies, id)
		for teamID, t := range st.teams {
			if t.CompanyID == id {
				delete(st.teams, teamID)
				delete(st.members, teamID)
			}
		}
		for uid, u := range st.users {
			if u.CompanyID == id {
				u.CompanyID = ""
				st.users[uid] = u
			}
		}
		for uid, a := range st.roles {
			if a.CompanyID == id {
				a.CompanyID = ""
				st.roles[uid] = a
			}
		}
		return nil
	})
}

// TeamRepo equipos y membresías en memoria.
type TeamRepo struct{ s *Store }

func checkTeamRefs(st *state, t *entity.Team) error {
	if _, ok := st.companies[t.CompanyID]; !ok {
		return notFound("empresa", t.CompanyID)
	}
	if t.ManagerID != "" {
		if _, ok := st.users[t.ManagerID]; !ok {
			return notFound("usuario", t.ManagerID)
		}
	}
	return nil
}

func (r *TeamRepo) Create(_ context.Context, t *entity.Team) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.teams[t.ID]; ok {
			return fmt.Errorf("%w: equipo %s ya existe", domain.ErrConflict, t.ID)
		}
		if err := checkTeamRefs(st, t); err != nil {
			return err
		}
		st.teams[t.ID] = *t
		return nil
	})
}

func (r *TeamRepo) GetByID(_ context.Context, id string) (*entity.Team, error) {
	var out *entity.Team
	err := r.s.read(func(st *state) error {
		if t, ok := st.teams[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *TeamRepo) Update(_ context.Context, t *entity.Team) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.teams[t.ID]; !ok {
			return notFound("equipo", t.ID)
		}
		if err := checkTeamRefs(st, t); err != nil {
			return err
		}
		st.teams[t.ID] = *t
		return nil
	})
}

func (r *TeamRepo) List(_ context.Context, companyID string) ([]*entity.Team, error) {
	return r.filter(func(t entity.Team) bool { return companyID == "" || t.CompanyID == companyID })
}

func (r *TeamRepo) ListByManager(_ context.Context, managerID string) ([]*entity.Team, error) {
	return r.filter(func(t entity.Team) bool { return t.ManagerID != "" && t.ManagerID == managerID })
}

func (r *TeamRepo) filter(keep func(entity.Team) bool) ([]*entity.Team, error) {
	var out []*entity.Team
	err := r.s.read(func(st *state) error {
		for _, t := range st.teams {
			if keep(t) {
				t := t
				out = append(out, &t)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *TeamRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.teams[id]; !ok {
			return notFound("equipo", id)
		}
		delete(st.teams, id)
		delete(st.members, id)
		return nil
	})
}

func (r *TeamRepo) AddMember(_ context.Context, m *entity.TeamMembership) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.teams[m.TeamID]; !ok {
			return notFound("equipo", m.TeamID)
		}
		if _, ok := st.users[m.UserID]; !ok {
			return notFound("usuario", m.UserID)
		}
		set := st.members[m.TeamID]
		if set == nil {
			set = map[string]time.Time{}
			st.members[m.TeamID] = set
		}
		if _, ok := set[m.UserID]; ok {
			return fmt.Errorf("%w: el usuario ya es miembro del equipo", domain.ErrConflict)
		}
		set[m.UserID] = m.CreatedAt
		return nil
	})
}

func (r *TeamRepo) RemoveMember(_ context.Context, teamID, userID string) error {
	return r.s.write(func(st *state) error {
		set := st.members[teamID]
		if _, ok := set[userID]; !ok {
			return fmt.Errorf("%w: el usuario no es miembro del equipo", domain.ErrNotFound)
		}
		delete(set, userID)
		return nil
	})
}

// ListMemberIDs devuelve los IDs ordenados.
func (r *TeamRepo) ListMemberIDs(_ context.Context, teamID string) ([]string, error) {
	var out []string
	err := r.s.read(func(st *state) error {
		for uid := range st.members[teamID] {
			out = append(out, uid)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func (r *TeamRepo) RemoveUser(_ context.Context, userID string) error {
	return r.s.write(func(st *state) error {
		removeUserFromTeams(st, userID)
		return nil
	})
}

func removeUserFromTeams(st *state, userID string) {
	for _, set := range st.members {
		delete(set, userID)
	}
	for id, t := range st.teams {
		if t.ManagerID == userID {
			t.ManagerID = ""
			st.teams[id] = t
		}
	}
}
