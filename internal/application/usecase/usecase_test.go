package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Coins-api/internal/application/dto"
	"github.com/jhoicas/Coins-api/internal/application/guard"
	"github.com/jhoicas/Coins-api/internal/application/usecase"
	"github.com/jhoicas/Coins-api/internal/domain"
	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store    *memory.Store
	guard    *guard.Guard
	company  entity.Company
	admin    entity.User
	manager  entity.User
	other    entity.User
	alice    entity.User
	bob      entity.User
	team     entity.Team
	teams    *usecase.TeamUseCase
	ranking  *usecase.RankingUseCase
	category *usecase.CategoryUseCase
	roles    *usecase.RoleUseCase
	orgs     *usecase.CompanyUseCase
	stats    *usecase.StatsUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	f := &fixture{store: s}
	f.company = s.SeedCompany("Acme")
	f.admin = s.SeedUser(f.company.ID, "Ada Admin", "ada@acme.test", entity.RoleAdmin)
	f.manager = s.SeedUser(f.company.ID, "Mia Manager", "mia@acme.test", entity.RoleManager)
	f.other = s.SeedUser(f.company.ID, "Otto Manager", "otto@acme.test", entity.RoleManager)
	f.alice = s.SeedUser(f.company.ID, "Alice", "alice@acme.test", entity.RoleUser)
	f.bob = s.SeedUser(f.company.ID, "Bob", "bob@acme.test", entity.RoleUser)
	f.team = s.SeedTeam(f.company.ID, "Ventas", f.manager.ID, f.alice.ID, f.bob.ID)

	f.guard = guard.New(s.Roles(), s.Teams())
	f.teams = usecase.NewTeamUseCase(f.guard, s.Teams(), s.Companies(), s.Users(), s.Roles(), s.Transactions(), nil)
	f.ranking = usecase.NewRankingUseCase(f.guard, s.Users(), s.Teams(), s.Transactions())
	f.category = usecase.NewCategoryUseCase(f.guard, s.Categories(), nil)
	f.roles = usecase.NewRoleUseCase(f.guard, s.Roles(), s.Users(), s.Companies(), nil)
	f.orgs = usecase.NewCompanyUseCase(f.guard, s.Companies(), nil)
	f.stats = usecase.NewStatsUseCase(f.guard, s.Users(), s.Transactions(), s.Categories())
	return f
}

func as(u entity.User) *guard.Caller { return &guard.Caller{UserID: u.ID, Email: u.Email} }

func strPtr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Ranking
// ──────────────────────────────────────────────────────────────────────────────

// Escenario B: saldos 50, 50 y 20 -> posiciones 1, 2 y 3; empate por user_id ascendente.
func TestGlobalRanking_EmpatesPorUserID(t *testing.T) {
	f := newFixture(t)
	f.store.SeedTransaction(f.alice.ID, 50, f.admin.ID)
	f.store.SeedTransaction(f.bob.ID, 50, f.admin.ID)
	f.store.SeedTransaction(f.manager.ID, 20, f.admin.ID)

	resp, err := f.ranking.GlobalRanking(context.Background(), as(f.bob))
	require.NoError(t, err)

	require.Len(t, resp.Items, 5)
	firstID, secondID := f.alice.ID, f.bob.ID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	assert.Equal(t, firstID, resp.Items[0].UserID)
	assert.Equal(t, secondID, resp.Items[1].UserID)
	assert.Equal(t, f.manager.ID, resp.Items[2].UserID)
	for i, item := range resp.Items {
		assert.Equal(t, i+1, item.Rank)
	}
	assert.Equal(t, []int64{50, 50, 20, 0, 0}, []int64{
		resp.Items[0].Balance, resp.Items[1].Balance, resp.Items[2].Balance, resp.Items[3].Balance, resp.Items[4].Balance,
	})
	assert.Equal(t, int64(120), resp.TotalCoins)
	assert.NotEmpty(t, resp.Items[0].FullName)
}

func TestGlobalRanking_SinCredencial(t *testing.T) {
	f := newFixture(t)

	_, err := f.ranking.GlobalRanking(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

// Escenario C: el gerente ve el ranking de su equipo; otro gerente no.
func TestTeamRanking_SoloGerenteDelEquipo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.SeedTransaction(f.bob.ID, 30, f.admin.ID)
	f.store.SeedTransaction(f.alice.ID, 10, f.admin.ID)
	f.store.SeedTransaction(f.other.ID, 500, f.admin.ID) // fuera del equipo

	resp, err := f.ranking.TeamRanking(ctx, as(f.manager), f.team.ID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, f.team.ID, resp.TeamID)
	assert.Equal(t, f.bob.ID, resp.Items[0].UserID)
	assert.Equal(t, 1, resp.Items[0].Rank)
	assert.Equal(t, f.alice.ID, resp.Items[1].UserID)
	assert.Equal(t, 2, resp.Items[1].Rank)
	assert.Equal(t, int64(40), resp.TotalCoins)

	_, err = f.ranking.TeamRanking(ctx, as(f.other), f.team.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTeamRanking_SeRecalculaEnCadaLlamada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.SeedTransaction(f.alice.ID, 10, f.admin.ID)

	before, err := f.ranking.TeamRanking(ctx, as(f.admin), f.team.ID)
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, before.Items[0].UserID)

	f.store.SeedTransaction(f.bob.ID, 11, f.admin.ID)

	after, err := f.ranking.TeamRanking(ctx, as(f.admin), f.team.ID)
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, after.Items[0].UserID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Equipos
// ──────────────────────────────────────────────────────────────────────────────

func TestTeamCreate_GerenteDebeSerManager(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.teams.Create(ctx, as(f.admin), dto.CreateTeamRequest{Name: "Soporte", CompanyID: f.company.ID, ManagerID: f.alice.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	resp, err := f.teams.Create(ctx, as(f.admin), dto.CreateTeamRequest{Name: " Soporte ", CompanyID: f.company.ID, ManagerID: f.other.ID})
	require.NoError(t, err)
	assert.Equal(t, "Soporte", resp.Name)
	assert.Equal(t, f.other.ID, resp.ManagerID)
}

func TestTeamCreate_NoAdminEsForbidden(t *testing.T) {
	f := newFixture(t)

	_, err := f.teams.Create(context.Background(), as(f.manager), dto.CreateTeamRequest{Name: "X", CompanyID: f.company.ID})

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTeamUpdate_QuitarGerente(t *testing.T) {
	f := newFixture(t)

	resp, err := f.teams.Update(context.Background(), as(f.admin), f.team.ID, dto.UpdateTeamRequest{ManagerID: strPtr("")})

	require.NoError(t, err)
	assert.Empty(t, resp.ManagerID)
	_, err = f.ranking.TeamRanking(context.Background(), as(f.manager), f.team.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTeamMembers_AltaDuplicadaYBaja(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.teams.AddMember(ctx, as(f.admin), f.team.ID, dto.AddMemberRequest{UserID: f.other.ID}))
	err := f.teams.AddMember(ctx, as(f.admin), f.team.ID, dto.AddMemberRequest{UserID: f.other.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, f.teams.RemoveMember(ctx, as(f.admin), f.team.ID, f.other.ID))
	err = f.teams.RemoveMember(ctx, as(f.admin), f.team.ID, f.other.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTeamMembers_UsuarioDeOtraEmpresaSeAcepta(t *testing.T) {
	f := newFixture(t)
	otra := f.store.SeedCompany("Globex")
	externo := f.store.SeedUser(otra.ID, "Eve", "eve@globex.test", entity.RoleUser)

	err := f.teams.AddMember(context.Background(), as(f.admin), f.team.ID, dto.AddMemberRequest{UserID: externo.ID})

	assert.NoError(t, err)
}

func TestTeamRoster_ConSaldos(t *testing.T) {
	f := newFixture(t)
	f.store.SeedTransaction(f.alice.ID, 12, f.admin.ID)

	resp, err := f.teams.Roster(context.Background(), as(f.manager), f.team.ID)
	require.NoError(t, err)

	require.Len(t, resp.Members, 2)
	balances := map[string]int64{}
	for _, m := range resp.Members {
		balances[m.ID] = *m.Balance
	}
	assert.Equal(t, map[string]int64{f.alice.ID: 12, f.bob.ID: 0}, balances)

	_, err = f.teams.Roster(context.Background(), as(f.alice), f.team.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestManagedTeams_ConteoYTotal(t *testing.T) {
	f := newFixture(t)
	f.store.SeedTransaction(f.alice.ID, 12, f.admin.ID)
	f.store.SeedTransaction(f.bob.ID, 8, f.admin.ID)
	f.store.SeedTeam(f.company.ID, "Ajeno", f.other.ID, f.alice.ID)

	resp, err := f.teams.ManagedTeams(context.Background(), as(f.manager))
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, f.team.ID, resp.Items[0].ID)
	assert.Equal(t, 2, *resp.Items[0].MemberCount)
	assert.Equal(t, int64(20), *resp.Items[0].TotalCoins)
}

func TestManagedTeams_GerenteDegradadoNoVeEquipos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.roles.Assign(ctx, as(f.admin), f.manager.ID, dto.AssignRoleRequest{Role: entity.RoleUser})
	require.NoError(t, err)

	resp, err := f.teams.ManagedTeams(ctx, as(f.manager))

	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryCreate_ValoresPorDefectoYConflicto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.category.Create(ctx, as(f.admin), dto.CreateCategoryRequest{Name: "Innovación"})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultCategoryIcon, resp.Icon)
	assert.Equal(t, entity.DefaultCategoryColor, resp.Color)
	assert.Equal(t, f.admin.ID, resp.CreatedBy)

	_, err = f.category.Create(ctx, as(f.admin), dto.CreateCategoryRequest{Name: "INNOVACIÓN"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCategoryList_MasRecientesPrimero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.category.Create(ctx, as(f.admin), dto.CreateCategoryRequest{Name: "Primera"})
	require.NoError(t, err)
	_, err = f.category.Create(ctx, as(f.admin), dto.CreateCategoryRequest{Name: "Segunda", Color: "#112233"})
	require.NoError(t, err)

	resp, err := f.category.List(ctx, as(f.alice))
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Segunda", resp.Items[0].Name)
	assert.Equal(t, "#112233", resp.Items[0].Color)
}

func TestCategoryCreate_UsuarioEsForbidden(t *testing.T) {
	f := newFixture(t)

	_, err := f.category.Create(context.Background(), as(f.alice), dto.CreateCategoryRequest{Name: "Mía"})

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Roles y empresas
// ──────────────────────────────────────────────────────────────────────────────

func TestRoleAssign_ReemplazaSinDuplicar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.roles.Assign(ctx, as(f.admin), f.alice.ID, dto.AssignRoleRequest{Role: entity.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, f.company.ID, resp.CompanyID)

	role, err := f.roles.RoleOf(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, role.Role)

	all, err := f.store.Roles().List(ctx)
	require.NoError(t, err)
	count := 0
	for _, r := range all {
		if r.UserID == f.alice.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRoleAssign_ManagerSinEmpresaEsValidationError(t *testing.T) {
	f := newFixture(t)
	sinEmpresa := f.store.SeedUser("", "Nadie", "nadie@acme.test", "")

	_, err := f.roles.Assign(context.Background(), as(f.admin), sinEmpresa.ID, dto.AssignRoleRequest{Role: entity.RoleManager})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRoleAssign_AdminGlobalSinEmpresa(t *testing.T) {
	f := newFixture(t)
	sinEmpresa := f.store.SeedUser("", "Root", "root@acme.test", "")

	resp, err := f.roles.Assign(context.Background(), as(f.admin), sinEmpresa.ID, dto.AssignRoleRequest{Role: entity.RoleAdmin})

	require.NoError(t, err)
	assert.Empty(t, resp.CompanyID)
}

func TestRoleOf_SinAsignacionEsNil(t *testing.T) {
	f := newFixture(t)
	sinRol := f.store.SeedUser(f.company.ID, "Sin Rol", "sinrol@acme.test", "")

	role, err := f.roles.RoleOf(context.Background(), sinRol.ID)

	require.NoError(t, err)
	assert.Nil(t, role)
}

func TestCompany_CrudCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.orgs.Create(ctx, as(f.admin), dto.CreateCompanyRequest{Name: "Initech", LogoURL: "https://initech.test/logo.png"})
	require.NoError(t, err)

	updated, err := f.orgs.Update(ctx, as(f.admin), created.ID, dto.UpdateCompanyRequest{Name: strPtr("Initech SA")})
	require.NoError(t, err)
	assert.Equal(t, "Initech SA", updated.Name)
	assert.Equal(t, "https://initech.test/logo.png", updated.LogoURL)

	list, err := f.orgs.List(ctx, as(f.admin), dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 20, list.Page.Limit)

	require.NoError(t, f.orgs.Delete(ctx, as(f.admin), created.ID))
	_, err = f.orgs.GetByID(ctx, as(f.admin), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompany_LogoInvalido(t *testing.T) {
	f := newFixture(t)

	_, err := f.orgs.Create(context.Background(), as(f.admin), dto.CreateCompanyRequest{Name: "X", LogoURL: "no es url"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estadísticas
// ──────────────────────────────────────────────────────────────────────────────

func TestStats_TotalesDelPanel(t *testing.T) {
	f := newFixture(t)
	f.store.SeedCategory("Logro")
	f.store.SeedTransaction(f.alice.ID, 100, f.admin.ID)
	f.store.SeedTransaction(f.bob.ID, -30, f.admin.ID)
	// Movimiento de un usuario ya eliminado: sigue contando en el ledger.
	f.store.SeedTransaction("00000000-0000-0000-0000-00000000dead", 5, f.admin.ID)

	resp, err := f.stats.Get(context.Background(), as(f.admin))
	require.NoError(t, err)

	assert.Equal(t, 5, resp.TotalUsers)
	assert.Equal(t, int64(75), resp.TotalCoins)
	assert.Equal(t, 1, resp.TotalCategories)
}

func TestStats_SoloAdmin(t *testing.T) {
	f := newFixture(t)
	for _, u := range []entity.User{f.manager, f.alice} {
		_, err := f.stats.Get(context.Background(), as(u))
		assert.ErrorIs(t, err, domain.ErrForbidden)
	}
	_, err := f.stats.Get(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
