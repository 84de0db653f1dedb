package usecase

import (
	"context"

	"github.com/jhoicas/Coins-api/internal/application/dto"
	"github.com/jhoicas/Coins-api/internal/application/guard"
	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/domain/ranking"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
)

// RankingUseCase rankings global y por equipo. Se recalculan en cada llamada.
type RankingUseCase struct {
	guard *guard.Guard
	users repository.UserRepository
	teams repository.TeamRepository
	txs   repository.TransactionRepository
}

// NewRankingUseCase construye el caso de uso.
func NewRankingUseCase(g *guard.Guard, users repository.UserRepository, teams repository.TeamRepository, txs repository.TransactionRepository) *RankingUseCase {
	return &RankingUseCase{guard: g, users: users, teams: teams, txs: txs}
}

// GlobalRanking todos los perfiles ordenados por saldo. Basta con estar autenticado.
func (uc *RankingUseCase) GlobalRanking(ctx context.Context, caller *guard.Caller) (*dto.RankingResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpViewRanking}); err != nil {
		return nil, err
	}
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return uc.rank(ctx, users, "")
}

// TeamRanking miembros del equipo, reordenados desde la posición 1. Solo el gerente del
// equipo (o admin).
func (uc *RankingUseCase) TeamRanking(ctx context.Context, caller *guard.Caller, teamID string) (*dto.RankingResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpViewTeamRanking, TeamID: teamID}); err != nil {
		return nil, err
	}
	ids, err := uc.teams.ListMemberIDs(ctx, teamID)
	if err != nil {
		return nil, err
	}
	users, err := uc.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return uc.rank(ctx, users, teamID)
}

func (uc *RankingUseCase) rank(ctx context.Context, users []*entity.User, teamID string) (*dto.RankingResponse, error) {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	balances, err := uc.txs.SumByUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	entries := make([]entity.Standing, 0, len(users))
	for _, u := range users {
		entries = append(entries, entity.Standing{
			UserID:   u.ID,
			FullName: u.FullName,
			Email:    u.Email,
			Balance:  balances[u.ID],
		})
	}
	ranked := ranking.Compute(entries)

	items := make([]dto.StandingResponse, 0, len(ranked))
	for _, s := range ranked {
		items = append(items, dto.StandingResponse{
			Rank:     s.Rank,
			UserID:   s.UserID,
			FullName: s.FullName,
			Email:    s.Email,
			Balance:  s.Balance,
		})
	}
	return &dto.RankingResponse{TeamID: teamID, Items: items, TotalCoins: ranking.Total(ranked)}, nil
}
