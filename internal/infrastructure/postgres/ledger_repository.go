package postgres

import (
	"context"
	"fmt"
	"iter"

	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository    = (*CategoryRepo)(nil)
	_ repository.TransactionRepository = (*TransactionRepo)(nil)
)

// CategoryRepo categorías del ledger.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categories (id, name, description, icon, color, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, nullable(c.Description), c.Icon, c.Color, nullable(c.CreatedBy), c.CreatedAt,
	)
	return mapError("insert category", err)
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	var desc, createdBy *string
	err := r.q.QueryRow(ctx,
		`SELECT id, name, description, icon, color, created_by, created_at FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &desc, &c.Icon, &c.Color, &createdBy, &c.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	c.Description, c.CreatedBy = deref(desc), deref(createdBy)
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, name, description, icon, color, created_by, created_at FROM categories ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		var desc, createdBy *string
		if err := rows.Scan(&c.ID, &c.Name, &desc, &c.Icon, &c.Color, &createdBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Description, c.CreatedBy = deref(desc), deref(createdBy)
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Delete elimina la categoría; transactions.category_id pasa a NULL por la FK.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapError("delete category", err)
	}
	return expectRow(tag, "categoría", id)
}

// TransactionRepo ledger sobre la tabla transactions (solo INSERT y SELECT).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador del ledger.
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

func (r *TransactionRepo) Append(ctx context.Context, tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, category_id, amount, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.UserID, nullable(tx.CategoryID), tx.Amount, tx.Description, tx.CreatedBy, tx.CreatedAt,
	)
	return mapError("insert transaction", err)
}

// ListByUser ejecuta la consulta al comenzar cada recorrido y libera las filas al terminar
// o cuando el consumidor corta el range.
func (r *TransactionRepo) ListByUser(ctx context.Context, userID string) iter.Seq2[entity.Transaction, error] {
	return func(yield func(entity.Transaction, error) bool) {
		rows, err := r.q.Query(ctx, `
			SELECT t.id, t.user_id, t.category_id, c.name, t.amount, t.description, t.created_by, t.created_at
			FROM transactions t
			LEFT JOIN categories c ON c.id = t.category_id
			WHERE t.user_id = $1
			ORDER BY t.created_at DESC, t.id DESC`, userID)
		if err != nil {
			yield(entity.Transaction{}, fmt.Errorf("list transactions: %w", err))
			return
		}
		defer rows.Close()
		for rows.Next() {
			var t entity.Transaction
			var categoryID, categoryName *string
			if err := rows.Scan(&t.ID, &t.UserID, &categoryID, &categoryName, &t.Amount,
				&t.Description, &t.CreatedBy, &t.CreatedAt); err != nil {
				yield(entity.Transaction{}, fmt.Errorf("scan transaction: %w", err))
				return
			}
			t.CategoryID, t.CategoryName = deref(categoryID), deref(categoryName)
			if !yield(t, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(entity.Transaction{}, fmt.Errorf("iterate transactions: %w", err))
		}
	}
}

func (r *TransactionRepo) SumByUser(ctx context.Context, userID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0)::BIGINT FROM transactions WHERE user_id = $1`, userID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum transactions: %w", err)
	}
	return sum, nil
}

func (r *TransactionRepo) SumAll(ctx context.Context) (int64, error) {
	var sum int64
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0)::BIGINT FROM transactions`).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum ledger: %w", err)
	}
	return sum, nil
}

func (r *TransactionRepo) SumByUsers(ctx context.Context, userIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	for _, id := range userIDs {
		out[id] = 0
	}
	rows, err := r.q.Query(ctx, `
		SELECT user_id, COALESCE(SUM(amount), 0)::BIGINT
		FROM transactions
		WHERE user_id = ANY($1::uuid[])
		GROUP BY user_id`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("sum transactions by user: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var sum int64
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		out[id] = sum
	}
	return out, rows.Err()
}
