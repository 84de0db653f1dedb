package usecase

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
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// CategoryUseCase categorías de movimientos.
type CategoryUseCase struct {
	guard *guard.Guard
	repo  repository.CategoryRepository
	log   *logger.Logger
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(g *guard.Guard, repo repository.CategoryRepository, log *logger.Logger) *CategoryUseCase {
	return &CategoryUseCase{guard: g, repo: repo, log: logger.OrNop(log).Named("category")}
}

// foldName clave de comparación: NFC + case folding ("Innovación" == "INNOVACIÓN").
func foldName(name string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}

// Create da de alta una categoría. Nombre repetido (sin distinguir mayúsculas) -> ErrConflict.
func (uc *CategoryUseCase) Create(ctx context.Context, caller *guard.Caller, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpManageCategories}); err != nil {
		return nil, err
	}
	in.Name = norm.NFC.String(strings.TrimSpace(in.Name))
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	key := foldName(in.Name)
	for _, c := range existing {
		if foldName(c.Name) == key {
			return nil, fmt.Errorf("%w: ya existe la categoría %q", domain.ErrConflict, c.Name)
		}
	}

	cat := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Icon:        in.Icon,
		Color:       in.Color,
		CreatedBy:   caller.UserID,
		CreatedAt:   time.Now(),
	}
	if cat.Icon == "" {
		cat.Icon = entity.DefaultCategoryIcon
	}
	if cat.Color == "" {
		cat.Color = entity.DefaultCategoryColor
	}
	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	uc.log.Info().Str("category_id", cat.ID).Str("name", cat.Name).Msg("categoría creada")
	return toCategoryResponse(cat), nil
}

// List todas las categorías, más recientes primero. Basta con estar autenticado.
func (uc *CategoryUseCase) List(ctx context.Context, caller *guard.Caller) (*dto.CategoryListResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpViewCategories}); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return &dto.CategoryListResponse{Items: items}, nil
}

// Delete elimina la categoría. Los movimientos que la usaban se conservan sin categoría.
func (uc *CategoryUseCase) Delete(ctx context.Context, caller *guard.Caller, id string) error {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpManageCategories}); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("category_id", id).Msg("categoría eliminada")
	return nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
	}
}
