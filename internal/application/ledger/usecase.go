// Package ledger registra movimientos de monedas y deriva saldos a partir de ellos.
package ledger

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Coins-api/internal/application/dto"
	"github.com/jhoicas/Coins-api/internal/application/guard"
	"github.com/jhoicas/Coins-api/internal/domain"
	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
	"github.com/jhoicas/Coins-api/pkg/logger"
)

// AppendRecorder recibe cada movimiento persistido (métricas).
type AppendRecorder interface {
	RecordAppend(amount int64)
}

// UseCase Ledger Store y Balance Aggregator. El saldo nunca se almacena: se suma en cada lectura.
type UseCase struct {
	guard      *guard.Guard
	txs        repository.TransactionRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	recorder   AppendRecorder
	log        *logger.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso. recorder puede ser nil.
func NewUseCase(
	g *guard.Guard,
	txs repository.TransactionRepository,
	users repository.UserRepository,
	categories repository.CategoryRepository,
	recorder AppendRecorder,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		guard:      g,
		txs:        txs,
		users:      users,
		categories: categories,
		recorder:   recorder,
		log:        logger.OrNop(log).Named("ledger"),
		now:        time.Now,
	}
}

// Append registra un movimiento emitido por el llamante. Amount > 0 otorga, < 0 descuenta,
// 0 se acepta y no altera el saldo.
func (uc *UseCase) Append(ctx context.Context, caller *guard.Caller, in dto.GrantCoinsRequest) (*dto.TransactionResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpGrantCoins}); err != nil {
		return nil, err
	}
	in.Description = strings.TrimSpace(in.Description)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	beneficiary, err := uc.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if beneficiary == nil {
		return nil, fmt.Errorf("%w: user_id %s no corresponde a un usuario", domain.ErrInvalidInput, in.UserID)
	}
	creator, err := uc.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, fmt.Errorf("%w: el emisor %s no tiene perfil", domain.ErrInvalidInput, caller.UserID)
	}

	var categoryName string
	if in.CategoryID != "" {
		cat, err := uc.categories.GetByID(ctx, in.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, in.CategoryID)
		}
		categoryName = cat.Name
	}

	tx := &entity.Transaction{
		ID:          uuid.New().String(),
		UserID:      in.UserID,
		CategoryID:  in.CategoryID,
		Amount:      *in.Amount,
		Description: in.Description,
		CreatedBy:   caller.UserID,
		CreatedAt:   uc.now(),
	}
	if err := uc.txs.Append(ctx, tx); err != nil {
		return nil, err
	}
	tx.CategoryName = categoryName
	if uc.recorder != nil {
		uc.recorder.RecordAppend(tx.Amount)
	}
	uc.log.Info().
		Str("transaction_id", tx.ID).
		Str("user_id", tx.UserID).
		Int64("amount", tx.Amount).
		Str("created_by", tx.CreatedBy).
		Msg("movimiento registrado")
	return toTransactionResponse(tx), nil
}

// ListFor secuencia perezosa de los movimientos del usuario, más recientes primero.
// Cada range vuelve a consultar el store.
func (uc *UseCase) ListFor(ctx context.Context, userID string) iter.Seq2[entity.Transaction, error] {
	return uc.txs.ListByUser(ctx, userID)
}

// History página del historial de userID. El llamante debe ser el propio usuario o admin.
func (uc *UseCase) History(ctx context.Context, caller *guard.Caller, userID string, page dto.PageRequest) (*dto.TransactionListResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpViewOwnHistory, SubjectID: userID}); err != nil {
		return nil, err
	}
	page.DefaultPage()

	items := make([]dto.TransactionResponse, 0, page.Limit)
	total := 0
	for t, err := range uc.ListFor(ctx, userID) {
		if err != nil {
			return nil, err
		}
		if total >= page.Offset && len(items) < page.Limit {
			items = append(items, *toTransactionResponse(&t))
		}
		total++
	}
	return &dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// BalanceOf suma fresca de los montos del usuario. Usuario sin movimientos (o inexistente) -> 0.
func (uc *UseCase) BalanceOf(ctx context.Context, userID string) (int64, error) {
	return uc.txs.SumByUser(ctx, userID)
}

// UserBalance saldo de userID para un llamante que es el propio usuario o admin.
func (uc *UseCase) UserBalance(ctx context.Context, caller *guard.Caller, userID string) (*dto.BalanceResponse, error) {
	if err := uc.guard.Authorize(ctx, caller, guard.Request{Op: guard.OpViewOwnBalance, SubjectID: userID}); err != nil {
		return nil, err
	}
	balance, err := uc.BalanceOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{UserID: userID, Balance: balance}, nil
}

func toTransactionResponse(t *entity.Transaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:           t.ID,
		UserID:       t.UserID,
		Amount:       t.Amount,
		Description:  t.Description,
		CategoryID:   t.CategoryID,
		CategoryName: t.CategoryName,
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
	}
}
