package repository

import (
	"context"
	"iter"

	"github.com/jhoicas/Coins-api/internal/domain/entity"
)

// TransactionRepository ledger de solo inserción. No expone Update ni Delete.
type TransactionRepository interface {
	Append(ctx context.Context, tx *entity.Transaction) error
	// ListByUser recorre los movimientos del usuario, más recientes primero. Cada recorrido
	// vuelve a consultar el estado actual; no guarda cursor entre recorridos.
	ListByUser(ctx context.Context, userID string) iter.Seq2[entity.Transaction, error]
	// SumByUser suma los montos del usuario; 0 si no tiene movimientos.
	SumByUser(ctx context.Context, userID string) (int64, error)
	// SumByUsers devuelve el saldo de cada ID pedido (0 para los que no tienen movimientos).
	SumByUsers(ctx context.Context, userIDs []string) (map[string]int64, error)
	// SumAll suma todo el ledger, incluidos movimientos de usuarios ya eliminados.
	SumAll(ctx context.Context) (int64, error)
}
