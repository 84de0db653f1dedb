package usecase

import (
	"context"

	"github.com/jhoicas/Coins-api/internal/application/dto"
	"github.com/jhoicas/Coins-api/internal/application/guard"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
)

// StatsUseCase totales para el panel de administración.
type StatsUseCase struct {
	guard      *guard.Guard
	users      repository.UserRepository
	txs        repository.TransactionRepository
	categories repository.CategoryRepository
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(g *guard.Guard, users repository.UserRepository, txs repository.TransactionRepository, categories repository.CategoryRepository) *StatsUseCase {
	return &StatsUseCase{guard: g, users: users, txs: txs, categories: categories}
}

// Get cuenta perfiles y categorías y suma el ledger completo. Solo admin.
func (uc *StatsUseCase) Get(ctx context.Context, caller *guard.Caller) (*dto.StatsResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpViewStats}); err != nil {
		return nil, err
	}
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	total, err := uc.txs.SumAll(ctx)
	if err != nil {
		return nil, err
	}
	cats, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.StatsResponse{TotalUsers: len(users), TotalCoins: total, TotalCategories: len(cats)}, nil
}
