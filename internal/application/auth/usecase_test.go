package auth_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Coins-api/internal/application/auth"
	"github.com/jhoicas/Coins-api/internal/application/dto"
	"github.com/jhoicas/Coins-api/internal/application/guard"
	"github.com/jhoicas/Coins-api/internal/domain"
	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
	"github.com/jhoicas/Coins-api/internal/infrastructure/memory"
	"github.com/jhoicas/Coins-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store   *memory.Store
	uc      *auth.UserAdminUseCase
	company entity.Company
	admin   *guard.Caller
	user    entity.User
	logs    *bytes.Buffer
}

type options struct {
	users repository.UserRepository
}

func newFixture(t *testing.T, opts ...func(*options, *memory.Store)) *fixture {
	t.Helper()
	s := memory.NewStore()
	o := &options{users: s.Users()}
	for _, fn := range opts {
		fn(o, s)
	}
	co := s.SeedCompany("Acme")
	admin := s.SeedUser(co.ID, "Ada Admin", "ada@acme.test", entity.RoleAdmin)
	user := s.SeedUser(co.ID, "Uma User", "uma@acme.test", entity.RoleUser)
	buf := &bytes.Buffer{}

	uc := auth.NewUserAdminUseCase(auth.Deps{
		Guard:        guard.New(s.Roles(), s.Teams()),
		Tx:           s,
		Accounts:     s.Accounts(),
		Users:        o.users,
		Roles:        s.Roles(),
		Companies:    s.Companies(),
		Transactions: s.Transactions(),
		Hasher:       auth.BcryptHasher{Cost: bcrypt.MinCost},
		Logger:       logger.New(logger.Config{Env: "test", Level: "debug", Output: buf}),
	})
	return &fixture{
		store:   s,
		uc:      uc,
		company: co,
		admin:   &guard.Caller{UserID: admin.ID, Email: admin.Email},
		user:    user,
		logs:    buf,
	}
}

func (f *fixture) createReq(email string) dto.CreateUserRequest {
	return dto.CreateUserRequest{
		Email:     email,
		Password:  "secreto123",
		FullName:  "Nuevo Usuario",
		CompanyID: f.company.ID,
	}
}

// failingMirror hace fallar la escritura del espejo de email en el perfil.
type failingMirror struct {
	repository.UserRepository
}

func (failingMirror) UpdateEmail(context.Context, string, string) error {
	return errors.New("perfil no disponible")
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateUser
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateUser_CreaCuentaPerfilYRol(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.createReq("  Nuevo@Acme.Test ")
	in.Role = entity.RoleManager

	resp, err := f.uc.CreateUser(ctx, f.admin, in)
	require.NoError(t, err)

	assert.Equal(t, "nuevo@acme.test", resp.Email)
	assert.Equal(t, entity.RoleManager, resp.Role)

	acc, err := f.store.Accounts().GetByID(ctx, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.NotEqual(t, "secreto123", acc.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte("secreto123")))

	role, err := f.store.Roles().Get(ctx, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, entity.RoleManager, role.Role)
	assert.Equal(t, f.company.ID, role.CompanyID)
}

func TestCreateUser_RolPorDefectoUser(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.CreateUser(context.Background(), f.admin, f.createReq("nuevo@acme.test"))

	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, resp.Role)
}

// Escenario D: email duplicado -> Conflict y ninguna fila de rol nueva.
func TestCreateUser_EmailDuplicadoNoDejaFilasParciales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before, err := f.store.Roles().List(ctx)
	require.NoError(t, err)

	_, err = f.uc.CreateUser(ctx, f.admin, f.createReq("UMA@acme.test"))

	assert.ErrorIs(t, err, domain.ErrConflict)
	after, err := f.store.Roles().List(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
	users, err := f.store.Users().List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestCreateUser_NoAdminEsForbidden(t *testing.T) {
	f := newFixture(t)
	noAdmin := &guard.Caller{UserID: f.user.ID, Email: f.user.Email}

	_, err := f.uc.CreateUser(context.Background(), noAdmin, f.createReq("nuevo@acme.test"))

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateUser_SinCredencialEsUnauthenticated(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateUser(context.Background(), nil, f.createReq("nuevo@acme.test"))

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestCreateUser_EmpresaInexistente(t *testing.T) {
	f := newFixture(t)
	in := f.createReq("nuevo@acme.test")
	in.CompanyID = "00000000-0000-0000-0000-00000000beef"

	_, err := f.uc.CreateUser(context.Background(), f.admin, in)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateUser_PasswordCorta(t *testing.T) {
	f := newFixture(t)
	in := f.createReq("nuevo@acme.test")
	in.Password = "123"

	_, err := f.uc.CreateUser(context.Background(), f.admin, in)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// DeleteUser
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteUser_ConservaLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.SeedTransaction(f.user.ID, 40, f.admin.UserID)
	team := f.store.SeedTeam(f.company.ID, "Ventas", "", f.user.ID)

	require.NoError(t, f.uc.DeleteUser(ctx, f.admin, f.user.ID))

	acc, err := f.store.Accounts().GetByID(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Nil(t, acc)
	role, err := f.store.Roles().Get(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Nil(t, role)
	ids, err := f.store.Teams().ListMemberIDs(ctx, team.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	sum, err := f.store.Transactions().SumByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), sum)
}

func TestDeleteUser_Inexistente(t *testing.T) {
	f := newFixture(t)

	err := f.uc.DeleteUser(context.Background(), f.admin, "00000000-0000-0000-0000-00000000beef")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteUser_AdminNoSeEliminaASiMismo(t *testing.T) {
	f := newFixture(t)

	err := f.uc.DeleteUser(context.Background(), f.admin, f.admin.UserID)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// ResetPassword
// ──────────────────────────────────────────────────────────────────────────────

func TestResetPassword_PorEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.uc.ResetPassword(ctx, f.admin, dto.ResetPasswordRequest{Email: "Uma@Acme.test", NewPassword: "nueva-clave"})
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, resp.UserID)

	acc, err := f.store.Accounts().GetByID(ctx, f.user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte("nueva-clave")))
}

func TestResetPassword_PorUserID(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.ResetPassword(context.Background(), f.admin, dto.ResetPasswordRequest{UserID: f.user.ID, NewPassword: "nueva-clave"})

	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestResetPassword_SinIdentificador(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.ResetPassword(context.Background(), f.admin, dto.ResetPasswordRequest{NewPassword: "nueva-clave"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResetPassword_EmailDesconocido(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.ResetPassword(context.Background(), f.admin, dto.ResetPasswordRequest{Email: "nadie@acme.test", NewPassword: "nueva-clave"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateEmail
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateEmail_ActualizaCuentaYPerfil(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.uc.UpdateEmail(ctx, f.admin, f.user.ID, dto.UpdateEmailRequest{NewEmail: "Uma.Nueva@acme.test"})
	require.NoError(t, err)
	assert.Equal(t, "uma.nueva@acme.test", resp.Email)

	acc, _ := f.store.Accounts().GetByID(ctx, f.user.ID)
	assert.Equal(t, "uma.nueva@acme.test", acc.Email)
	profile, _ := f.store.Users().GetByID(ctx, f.user.ID)
	assert.Equal(t, "uma.nueva@acme.test", profile.Email)
}

func TestUpdateEmail_EspejoFallidoSoloAdvierte(t *testing.T) {
	f := newFixture(t, func(o *options, s *memory.Store) {
		o.users = failingMirror{UserRepository: s.Users()}
	})
	ctx := context.Background()

	resp, err := f.uc.UpdateEmail(ctx, f.admin, f.user.ID, dto.UpdateEmailRequest{NewEmail: "uma2@acme.test"})

	require.NoError(t, err)
	assert.Equal(t, "uma2@acme.test", resp.Email)
	acc, _ := f.store.Accounts().GetByID(ctx, f.user.ID)
	assert.Equal(t, "uma2@acme.test", acc.Email)
	assert.Contains(t, f.logs.String(), `"level":"warn"`)
	assert.Contains(t, f.logs.String(), "perfil no disponible")
}

func TestUpdateEmail_EmailEnUso(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.UpdateEmail(context.Background(), f.admin, f.user.ID, dto.UpdateEmailRequest{NewEmail: "ada@acme.test"})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// ListUsers / Me / Bootstrap
// ──────────────────────────────────────────────────────────────────────────────

func TestListUsers_IncluyeRolYSaldo(t *testing.T) {
	f := newFixture(t)
	f.store.SeedTransaction(f.user.ID, 25, f.admin.UserID)

	resp, err := f.uc.ListUsers(context.Background(), f.admin)
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, f.user.ID, resp.Items[0].ID, "más recientes primero")
	require.NotNil(t, resp.Items[0].Balance)
	assert.Equal(t, int64(25), *resp.Items[0].Balance)
	assert.Equal(t, entity.RoleAdmin, resp.Items[1].Role)
}

func TestMe_DevuelvePerfilRolYSaldo(t *testing.T) {
	f := newFixture(t)
	f.store.SeedTransaction(f.user.ID, 7, f.admin.UserID)

	resp, err := f.uc.Me(context.Background(), &guard.Caller{UserID: f.user.ID})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleUser, resp.Role)
	assert.Equal(t, int64(7), *resp.Balance)
}

func TestBootstrap_EsIdempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := auth.BootstrapInput{CompanyName: "Root", Email: "root@acme.test", Password: "root-pass"}

	first, err := f.uc.Bootstrap(ctx, in)
	require.NoError(t, err)
	assert.True(t, first.Created)
	role, err := f.store.Roles().Get(ctx, first.UserID)
	require.NoError(t, err)
	assert.True(t, role.Is(entity.RoleAdmin))

	second, err := f.uc.Bootstrap(ctx, in)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.UserID, second.UserID)
	assert.Equal(t, first.CompanyID, second.CompanyID)
}

type failingTx struct{ err error }

func (f failingTx) Run(context.Context, func(repository.AccountRepository, repository.UserRepository, repository.RoleRepository, repository.TeamRepository) error) error {
	return f.err
}

func TestBootstrap_FalloNoDejaEmpresaHuerfana(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	deps := auth.Deps{
		Guard:        guard.New(s.Roles(), s.Teams()),
		Tx:           failingTx{err: errors.New("conexión perdida")},
		Accounts:     s.Accounts(),
		Users:        s.Users(),
		Roles:        s.Roles(),
		Companies:    s.Companies(),
		Transactions: s.Transactions(),
		Hasher:       auth.BcryptHasher{Cost: bcrypt.MinCost},
	}
	in := auth.BootstrapInput{CompanyName: "Root", Email: "root@acme.test", Password: "root-pass"}

	_, err := auth.NewUserAdminUseCase(deps).Bootstrap(ctx, in)
	require.Error(t, err)
	companies, err := s.Companies().List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, companies, "la empresa creada se revierte")

	deps.Tx = s
	res, err := auth.NewUserAdminUseCase(deps).Bootstrap(ctx, in)
	require.NoError(t, err)
	assert.True(t, res.Created)
	companies, err = s.Companies().List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, res.CompanyID, companies[0].ID)
}

func TestBootstrap_ReutilizaEmpresaExistente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.uc.Bootstrap(ctx, auth.BootstrapInput{CompanyName: " acme ", Email: "root@acme.test", Password: "root-pass"})
	require.NoError(t, err)
	assert.Equal(t, f.company.ID, res.CompanyID)

	companies, err := f.store.Companies().List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, companies, 1)
}
