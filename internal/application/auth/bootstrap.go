package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/Coins-api/internal/domain"
	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
)

// BootstrapInput primer administrador y su empresa.
type BootstrapInput struct {
	CompanyName string
	Email       string
	Password    string
	FullName    string
}

// BootstrapResult IDs creados (o existentes).
type BootstrapResult struct {
	CompanyID string
	UserID    string
	Created   bool
}

// Bootstrap crea la empresa inicial y un admin sin pasar por el Guard: ninguna operación
// privilegiada puede ejecutarse antes de que exista un admin. Es idempotente por email.
func (uc *UserAdminUseCase) Bootstrap(ctx context.Context, in BootstrapInput) (*BootstrapResult, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || len(in.Password) < 6 {
		return nil, fmt.Errorf("%w: email y contraseña (mínimo 6) son obligatorios", domain.ErrInvalidInput)
	}
	existing, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		res := &BootstrapResult{UserID: existing.ID}
		if p, err := uc.users.GetByID(ctx, existing.ID); err == nil && p != nil {
			res.CompanyID = p.CompanyID
		}
		return res, nil
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	name := strings.TrimSpace(in.CompanyName)
	if name == "" {
		name = "Default"
	}
	company, err := uc.companyByName(ctx, name)
	if err != nil {
		return nil, err
	}
	createdCompany := company == nil
	if createdCompany {
		company = &entity.Company{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
		if err := uc.companies.Create(ctx, company); err != nil {
			return nil, err
		}
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		fullName = email
	}
	id := uuid.New().String()
	err = uc.tx.Run(ctx, func(accounts repository.AccountRepository, users repository.UserRepository, roles repository.RoleRepository, _ repository.TeamRepository) error {
		if err := accounts.Create(ctx, &entity.Account{ID: id, Email: email, PasswordHash: hash, CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		if err := users.Create(ctx, &entity.User{ID: id, CompanyID: company.ID, FullName: fullName, Email: email, CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		return roles.Upsert(ctx, &entity.RoleAssignment{UserID: id, Role: entity.RoleAdmin, CompanyID: company.ID, UpdatedAt: now})
	})
	if err != nil {
		// La empresa no entra en la unidad de trabajo; se compensa para no dejarla huérfana.
		if createdCompany {
			if derr := uc.companies.Delete(ctx, company.ID); derr != nil {
				uc.log.Warn().Err(derr).Str("company_id", company.ID).Msg("no se pudo revertir la empresa inicial")
			}
		}
		return nil, err
	}
	uc.log.Info().Str("user_id", id).Str("company_id", company.ID).Msg("administrador inicial creado")
	return &BootstrapResult{CompanyID: company.ID, UserID: id, Created: true}, nil
}

// companyByName busca una empresa con ese nombre (sin distinguir mayúsculas) para que un
// reintento del bootstrap reutilice la ya creada.
func (uc *UserAdminUseCase) companyByName(ctx context.Context, name string) (*entity.Company, error) {
	const page = 100
	for offset := 0; ; offset += page {
		list, err := uc.companies.List(ctx, page, offset)
		if err != nil {
			return nil, err
		}
		for _, c := range list {
			if strings.EqualFold(strings.TrimSpace(c.Name), name) {
				return c, nil
			}
		}
		if len(list) < page {
			return nil, nil
		}
	}
}
