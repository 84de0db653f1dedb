package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Coins-api/internal/domain"
	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
	"github.com/jhoicas/Coins-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_FalloDescartaTodo(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	now := time.Now()
	boom := errors.New("falla a mitad")

	err := s.Run(ctx, func(accounts repository.AccountRepository, users repository.UserRepository, _ repository.RoleRepository, _ repository.TeamRepository) error {
		require.NoError(t, accounts.Create(ctx, &entity.Account{ID: "u1", Email: "a@acme.test", CreatedAt: now}))
		require.NoError(t, users.Create(ctx, &entity.User{ID: "u1", Email: "a@acme.test", FullName: "A", CreatedAt: now}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	acc, err := s.Accounts().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, acc, "la cuenta no debe quedar publicada")
	u, err := s.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestRun_ExitoPublica(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	err := s.Run(ctx, func(accounts repository.AccountRepository, users repository.UserRepository, roles repository.RoleRepository, _ repository.TeamRepository) error {
		if err := accounts.Create(ctx, &entity.Account{ID: "u1", Email: "a@acme.test"}); err != nil {
			return err
		}
		if err := users.Create(ctx, &entity.User{ID: "u1", Email: "a@acme.test", FullName: "A"}); err != nil {
			return err
		}
		return roles.Upsert(ctx, &entity.RoleAssignment{UserID: "u1", Role: entity.RoleAdmin})
	})
	require.NoError(t, err)

	u, err := s.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u)

	role, err := s.Roles().Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, entity.RoleAdmin, role.Role)
}

func TestRun_ContextoCancelado(t *testing.T) {
	s := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Run(ctx, func(repository.AccountRepository, repository.UserRepository, repository.RoleRepository, repository.TeamRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cuentas y roles
// ──────────────────────────────────────────────────────────────────────────────

func TestAccountRepo_EmailDuplicado(t *testing.T) {
	s := memory.NewStore()
	co := s.SeedCompany("Acme")
	s.SeedUser(co.ID, "Ana", "ana@acme.test", entity.RoleUser)

	err := s.Accounts().Create(context.Background(), &entity.Account{ID: "otro", Email: "ana@acme.test"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepo_ListMasRecientesPrimero(t *testing.T) {
	s := memory.NewStore()
	co := s.SeedCompany("Acme")
	first := s.SeedUser(co.ID, "A", "a@acme.test", entity.RoleUser)
	second := s.SeedUser(co.ID, "B", "b@acme.test", entity.RoleUser)
	third := s.SeedUser(co.ID, "C", "c@acme.test", entity.RoleUser)

	list, err := s.Users().List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestRoleRepo_UpsertSinPerfil(t *testing.T) {
	s := memory.NewStore()
	err := s.Roles().Upsert(context.Background(), &entity.RoleAssignment{UserID: "u1", Role: entity.RoleUser})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoleRepo_UpsertReemplaza(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	co := s.SeedCompany("Acme")
	u := s.SeedUser(co.ID, "Ana", "ana@acme.test", entity.RoleUser)

	require.NoError(t, s.Roles().Upsert(ctx, &entity.RoleAssignment{UserID: u.ID, Role: entity.RoleManager, CompanyID: co.ID}))

	all, err := s.Roles().List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "un usuario tiene como máximo un rol")
	assert.Equal(t, entity.RoleManager, all[0].Role)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestTransactionRepo_SumByUsersIncluyeCeros(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	co := s.SeedCompany("Acme")
	a := s.SeedUser(co.ID, "A", "a@acme.test", entity.RoleUser)
	b := s.SeedUser(co.ID, "B", "b@acme.test", entity.RoleUser)
	s.SeedTransaction(a.ID, 40, "")
	s.SeedTransaction(a.ID, -15, "")

	sums, err := s.Transactions().SumByUsers(ctx, []string{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{a.ID: 25, b.ID: 0}, sums)

	one, err := s.Transactions().SumByUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), one)
}

func TestTransactionRepo_CategoriaInexistente(t *testing.T) {
	s := memory.NewStore()
	err := s.Transactions().Append(context.Background(), &entity.Transaction{ID: "t1", UserID: "u1", Amount: 5, CategoryID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryRepo_BorrarConservaMovimientos(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	cat := s.SeedCategory("Logro")
	now := time.Now()
	require.NoError(t, s.Transactions().Append(ctx, &entity.Transaction{ID: "t1", UserID: "u1", Amount: 10, CategoryID: cat.ID, CreatedAt: now}))

	require.NoError(t, s.Categories().Delete(ctx, cat.ID))

	var got []entity.Transaction
	for tx, err := range s.Transactions().ListByUser(ctx, "u1") {
		require.NoError(t, err)
		got = append(got, tx)
	}
	require.Len(t, got, 1)
	assert.Empty(t, got[0].CategoryID)
	assert.Empty(t, got[0].CategoryName)
	assert.Equal(t, int64(10), got[0].Amount)
}

func TestTransactionRepo_ListByUserCorteTemprano(t *testing.T) {
	s := memory.NewStore()
	for i := 0; i < 5; i++ {
		s.SeedTransaction("u1", int64(i), "")
	}
	n := 0
	for range s.Transactions().ListByUser(context.Background(), "u1") {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

// ──────────────────────────────────────────────────────────────────────────────
// Organización
// ──────────────────────────────────────────────────────────────────────────────

func TestTeamRepo_Membresias(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	co := s.SeedCompany("Acme")
	a := s.SeedUser(co.ID, "A", "a@acme.test", entity.RoleUser)
	team := s.SeedTeam(co.ID, "Ventas", "")
	teams := s.Teams()

	require.NoError(t, teams.AddMember(ctx, &entity.TeamMembership{TeamID: team.ID, UserID: a.ID}))
	assert.ErrorIs(t, teams.AddMember(ctx, &entity.TeamMembership{TeamID: team.ID, UserID: a.ID}), domain.ErrConflict)
	assert.ErrorIs(t, teams.AddMember(ctx, &entity.TeamMembership{TeamID: team.ID, UserID: "fantasma"}), domain.ErrNotFound)

	require.NoError(t, teams.RemoveUser(ctx, a.ID))
	ids, err := teams.ListMemberIDs(ctx, team.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.ErrorIs(t, teams.RemoveMember(ctx, team.ID, a.ID), domain.ErrNotFound)
}

func TestCompanyRepo_BorrarEliminaEquipos(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	co := s.SeedCompany("Acme")
	u := s.SeedUser(co.ID, "A", "a@acme.test", entity.RoleManager)
	team := s.SeedTeam(co.ID, "Ventas", u.ID, u.ID)

	require.NoError(t, s.Companies().Delete(ctx, co.ID))

	got, err := s.Teams().GetByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	profile, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, profile, "el perfil se conserva")
	assert.Empty(t, profile.CompanyID)
}
