package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Coins-api/internal/domain/entity"
)

// Helpers de siembra para tests y desarrollo local. Escriben directo en el estado, sin Guard
// ni validaciones; el llamador es responsable de que las referencias existan.

// SeedCompany inserta una empresa.
func (s *Store) SeedCompany(name string) entity.Company {
	now := s.tick()
	c := entity.Company{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	_ = s.write(func(st *state) error {
		st.companies[c.ID] = c
		return nil
	})
	return c
}

// SeedUser inserta cuenta, perfil y rol. role "" deja al usuario sin asignación.
func (s *Store) SeedUser(companyID, fullName, email, role string) entity.User {
	now := s.tick()
	u := entity.User{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		FullName:  fullName,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_ = s.write(func(st *state) error {
		st.accounts[u.ID] = entity.Account{ID: u.ID, Email: email, PasswordHash: "seed", CreatedAt: now, UpdatedAt: now}
		st.users[u.ID] = u
		if role != "" {
			st.roles[u.ID] = entity.RoleAssignment{UserID: u.ID, Role: role, CompanyID: companyID, UpdatedAt: now}
		}
		return nil
	})
	return u
}

// SeedTeam inserta un equipo con sus miembros.
func (s *Store) SeedTeam(companyID, name, managerID string, memberIDs ...string) entity.Team {
	now := s.tick()
	t := entity.Team{ID: uuid.New().String(), CompanyID: companyID, Name: name, ManagerID: managerID, CreatedAt: now, UpdatedAt: now}
	_ = s.write(func(st *state) error {
		st.teams[t.ID] = t
		set := make(map[string]time.Time, len(memberIDs))
		for _, id := range memberIDs {
			set[id] = now
		}
		st.members[t.ID] = set
		return nil
	})
	return t
}

// SeedCategory inserta una categoría con los valores de presentación por defecto.
func (s *Store) SeedCategory(name string) entity.Category {
	c := entity.Category{
		ID:        uuid.New().String(),
		Name:      name,
		Icon:      entity.DefaultCategoryIcon,
		Color:     entity.DefaultCategoryColor,
		CreatedAt: s.tick(),
	}
	_ = s.write(func(st *state) error {
		st.categories[c.ID] = c
		return nil
	})
	return c
}

// SeedTransaction agrega un movimiento al ledger.
func (s *Store) SeedTransaction(userID string, amount int64, createdBy string) entity.Transaction {
	t := entity.Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		Amount:      amount,
		Description: "seed",
		CreatedBy:   createdBy,
		CreatedAt:   s.tick(),
	}
	_ = s.write(func(st *state) error {
		st.transactions = append(st.transactions, t)
		return nil
	})
	return t
}

// tick devuelve instantes estrictamente crecientes para que el orden por fecha sea estable.
func (s *Store) tick() time.Time {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	now := time.Now()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}
