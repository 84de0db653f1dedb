package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Coins-api/internal/application/dto"
	"github.com/jhoicas/Coins-api/internal/application/guard"
	"github.com/jhoicas/Coins-api/internal/domain"
	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
	"github.com/jhoicas/Coins-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implementación de PasswordHasher con golang.org/x/crypto/bcrypt.
type BcryptHasher struct {
	Cost int // 0 = bcrypt.DefaultCost
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Deps dependencias de UserAdminUseCase.
type Deps struct {
	Guard        *guard.Guard
	Tx           TxRunner
	Accounts     repository.AccountRepository
	Users        repository.UserRepository
	Roles        repository.RoleRepository
	Companies    repository.CompanyRepository
	Transactions repository.TransactionRepository
	Hasher       PasswordHasher // nil = BcryptHasher{}
	Logger       *logger.Logger
}

// UserAdminUseCase operaciones privilegiadas sobre usuarios. Cada método vuelve a verificar
// identidad y rol del llamante antes de tocar el store.
type UserAdminUseCase struct {
	guard     *guard.Guard
	tx        TxRunner
	accounts  repository.AccountRepository
	users     repository.UserRepository
	roles     repository.RoleRepository
	companies repository.CompanyRepository
	txs       repository.TransactionRepository
	hasher    PasswordHasher
	log       *logger.Logger
	now       func() time.Time
}

// NewUserAdminUseCase construye el caso de uso.
func NewUserAdminUseCase(d Deps) *UserAdminUseCase {
	h := d.Hasher
	if h == nil {
		h = BcryptHasher{}
	}
	return &UserAdminUseCase{
		guard:     d.Guard,
		tx:        d.Tx,
		accounts:  d.Accounts,
		users:     d.Users,
		roles:     d.Roles,
		companies: d.Companies,
		txs:       d.Transactions,
		hasher:    h,
		log:       logger.OrNop(d.Logger).Named("user_admin"),
		now:       time.Now,
	}
}

// NormalizeEmail recorta y pasa a minúsculas; los emails se comparan siempre así.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser crea cuenta, perfil y rol en una sola transacción. Email duplicado -> ErrConflict
// sin dejar filas parciales. Rol por defecto "user".
func (uc *UserAdminUseCase) CreateUser(ctx context.Context, caller *guard.Caller, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpCreateUser}); err != nil {
		return nil, err
	}
	in.Email = NormalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}

	company, err := uc.companies.GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, in.CompanyID)
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	id := uuid.New().String()
	user := &entity.User{
		ID:        id,
		CompanyID: in.CompanyID,
		FullName:  in.FullName,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.tx.Run(ctx, func(accounts repository.AccountRepository, users repository.UserRepository, roles repository.RoleRepository, _ repository.TeamRepository) error {
		if err := accounts.Create(ctx, &entity.Account{
			ID: id, Email: in.Email, PasswordHash: hash, CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			return err
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		return roles.Upsert(ctx, &entity.RoleAssignment{
			UserID: id, Role: role, CompanyID: in.CompanyID, UpdatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("user_id", id).Str("role", role).Str("created_by", caller.UserID).Msg("usuario creado")
	resp := toUserResponse(user)
	resp.Role = role
	return resp, nil
}

// DeleteUser elimina cuenta, perfil, rol y membresías en una transacción. El ledger del
// usuario se conserva.
func (uc *UserAdminUseCase) DeleteUser(ctx context.Context, caller *guard.Caller, userID string) error {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpDeleteUser, SubjectID: userID}); err != nil {
		return err
	}
	if userID == caller.UserID {
		return fmt.Errorf("%w: un administrador no puede eliminarse a sí mismo", domain.ErrInvalidInput)
	}
	account, err := uc.accounts.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	profile, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if account == nil && profile == nil {
		return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, userID)
	}

	err = uc.tx.Run(ctx, func(accounts repository.AccountRepository, users repository.UserRepository, roles repository.RoleRepository, teams repository.TeamRepository) error {
		if err := teams.RemoveUser(ctx, userID); err != nil {
			return err
		}
		if err := roles.Delete(ctx, userID); err != nil {
			return err
		}
		if profile != nil {
			if err := users.Delete(ctx, userID); err != nil {
				return err
			}
		}
		if account != nil {
			return accounts.Delete(ctx, userID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("user_id", userID).Str("deleted_by", caller.UserID).Msg("usuario eliminado")
	return nil
}

// ResetPassword reemplaza la contraseña del usuario identificado por user_id o por email.
func (uc *UserAdminUseCase) ResetPassword(ctx context.Context, caller *guard.Caller, in dto.ResetPasswordRequest) (*dto.ResetPasswordResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpResetPassword}); err != nil {
		return nil, err
	}
	in.Email = NormalizeEmail(in.Email)
	in.UserID = strings.TrimSpace(in.UserID)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.UserID == "" && in.Email == "" {
		return nil, fmt.Errorf("%w: se requiere user_id o email", domain.ErrInvalidInput)
	}

	account, err := uc.findAccount(ctx, in.UserID, in.Email)
	if err != nil {
		return nil, err
	}
	hash, err := uc.hasher.Hash(in.NewPassword)
	if err != nil {
		return nil, err
	}
	if err := uc.accounts.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", account.ID).Str("reset_by", caller.UserID).Msg("contraseña restablecida")
	return &dto.ResetPasswordResponse{Success: true, UserID: account.ID}, nil
}

func (uc *UserAdminUseCase) findAccount(ctx context.Context, userID, email string) (*entity.Account, error) {
	var (
		account *entity.Account
		err     error
	)
	if userID != "" {
		account, err = uc.accounts.GetByID(ctx, userID)
	} else {
		account, err = uc.accounts.GetByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	if account == nil {
		if userID != "" {
			return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: no existe un usuario con email %s", domain.ErrNotFound, email)
	}
	return account, nil
}

// UpdateEmail cambia el email de la cuenta (escritura principal) y luego el espejo del perfil.
// Si el espejo falla se registra un warning y la operación se considera exitosa.
func (uc *UserAdminUseCase) UpdateEmail(ctx context.Context, caller *guard.Caller, userID string, in dto.UpdateEmailRequest) (*dto.UserResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpChangeEmail, SubjectID: userID}); err != nil {
		return nil, err
	}
	in.NewEmail = NormalizeEmail(in.NewEmail)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	account, err := uc.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, userID)
	}
	if err := uc.accounts.UpdateEmail(ctx, userID, in.NewEmail); err != nil {
		return nil, err
	}

	if err := uc.users.UpdateEmail(ctx, userID, in.NewEmail); err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo actualizar el email del perfil")
	}
	uc.log.Info().Str("user_id", userID).Str("updated_by", caller.UserID).Msg("email actualizado")

	profile, err := uc.users.GetByID(ctx, userID)
	if err != nil || profile == nil {
		return &dto.UserResponse{ID: userID, Email: in.NewEmail, CreatedAt: account.CreatedAt}, nil
	}
	resp := toUserResponse(profile)
	resp.Email = in.NewEmail
	return resp, nil
}

// ListUsers listado para administración con rol y saldo de cada usuario.
func (uc *UserAdminUseCase) ListUsers(ctx context.Context, caller *guard.Caller) (*dto.UserListResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpListUsers}); err != nil {
		return nil, err
	}
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := uc.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	roleOf := make(map[string]string, len(roles))
	for _, r := range roles {
		roleOf[r.UserID] = r.Role
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	balances, err := uc.txs.SumByUsers(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp := toUserResponse(u)
		resp.Role = roleOf[u.ID]
		b := balances[u.ID]
		resp.Balance = &b
		items = append(items, *resp)
	}
	return &dto.UserListResponse{Items: items}, nil
}

// Me perfil del llamante con su rol vigente. No requiere rol: un usuario sin asignación
// también puede consultarse.
func (uc *UserAdminUseCase) Me(ctx context.Context, caller *guard.Caller) (*dto.UserResponse, error) {
	if caller == nil || caller.UserID == "" {
		return nil, fmt.Errorf("%w: credencial requerida", domain.ErrUnauthenticated)
	}
	profile, err := uc.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: perfil %s", domain.ErrNotFound, caller.UserID)
	}
	resp := toUserResponse(profile)
	role, err := uc.roles.Get(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if role != nil {
		resp.Role = role.Role
	}
	balance, err := uc.txs.SumByUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	resp.Balance = &balance
	return resp, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CompanyID: u.CompanyID,
		CreatedAt: u.CreatedAt,
	}
}
