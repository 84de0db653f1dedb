// Package memory implementa los puertos de persistencia en memoria. Se usa en tests y con
// STORAGE_DRIVER=memory para desarrollo local. Replica las reglas de integridad del esquema
// PostgreSQL (cascadas y SET NULL).
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Coins-api/internal/domain"
	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
)

type state struct {
	accounts     map[string]entity.Account
	users        map[string]entity.User
	roles        map[string]entity.RoleAssignment
	companies    map[string]entity.Company
	teams        map[string]entity.Team
	members      map[string]map[string]time.Time // teamID -> userID -> alta
	categories   map[string]entity.Category
	transactions []entity.Transaction // orden de inserción
}

func newState() *state {
	return &state{
		accounts:   map[string]entity.Account{},
		users:      map[string]entity.User{},
		roles:      map[string]entity.RoleAssignment{},
		companies:  map[string]entity.Company{},
		teams:      map[string]entity.Team{},
		members:    map[string]map[string]time.Time{},
		categories: map[string]entity.Category{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.roles {
		c.roles[k] = v
	}
	for k, v := range s.companies {
		c.companies[k] = v
	}
	for k, v := range s.teams {
		c.teams[k] = v
	}
	for teamID, set := range s.members {
		cp := make(map[string]time.Time, len(set))
		for u, at := range set {
			cp[u] = at
		}
		c.members[teamID] = cp
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	c.transactions = append([]entity.Transaction(nil), s.transactions...)
	return c
}

// Store estado compartido protegido por un RWMutex. Las escrituras de Run se aplican sobre
// una copia y se publican solo si fn no devuelve error.
type Store struct {
	mu   sync.RWMutex
	st   *state
	inTx bool // true en la copia usada dentro de Run: el lock lo tiene el Store padre

	clockMu sync.Mutex
	last    time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(st *state) error) error {
	if !s.inTx {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return fn(s.st)
}

func (s *Store) write(fn func(st *state) error) error {
	if !s.inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

// Accounts, Users, Roles, Companies, Teams, Categories y Transactions devuelven los
// adaptadores de cada puerto sobre este store.
func (s *Store) Accounts() *AccountRepo         { return &AccountRepo{s: s} }
func (s *Store) Users() *UserRepo               { return &UserRepo{s: s} }
func (s *Store) Roles() *RoleRepo               { return &RoleRepo{s: s} }
func (s *Store) Companies() *CompanyRepo        { return &CompanyRepo{s: s} }
func (s *Store) Teams() *TeamRepo               { return &TeamRepo{s: s} }
func (s *Store) Categories() *CategoryRepo      { return &CategoryRepo{s: s} }
func (s *Store) Transactions() *TransactionRepo { return &TransactionRepo{s: s} }

// Run ejecuta fn con repositorios atados a una copia del estado y la publica si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(
	accounts repository.AccountRepository,
	users repository.UserRepository,
	roles repository.RoleRepository,
	teams repository.TeamRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := &Store{st: s.st.clone(), inTx: true}
	if err := fn(staged.Accounts(), staged.Users(), staged.Roles(), staged.Teams()); err != nil {
		return err
	}
	s.st = staged.st
	return nil
}

func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, what, id)
}
