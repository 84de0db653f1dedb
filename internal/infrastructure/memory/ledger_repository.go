package memory

import (
	"context"
	"fmt"
	"iter"
	"sort"

	"github.com/jhoicas/Coins-api/internal/domain"
	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository    = (*CategoryRepo)(nil)
	_ repository.TransactionRepository = (*TransactionRepo)(nil)
)

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.categories[c.ID]; ok {
			return fmt.Errorf("%w: categoría %s ya existe", domain.ErrConflict, c.ID)
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.s.read(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.s.read(func(st *state) error {
		for _, c := range st.categories {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

// Delete borra la categoría y deja vacía la referencia en los movimientos (ON DELETE SET NULL).
func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.categories[id]; !ok {
			return notFound("categoría", id)
		}
		delete(st.categories, id)
		for i := range st.transactions {
			if st.transactions[i].CategoryID == id {
				st.transactions[i].CategoryID = ""
			}
		}
		return nil
	})
}

// TransactionRepo ledger en memoria, solo inserción.
type TransactionRepo struct{ s *Store }

func (r *TransactionRepo) Append(_ context.Context, tx *entity.Transaction) error {
	return r.s.write(func(st *state) error {
		if tx.CategoryID != "" {
			if _, ok := st.categories[tx.CategoryID]; !ok {
				return notFound("categoría", tx.CategoryID)
			}
		}
		st.transactions = append(st.transactions, *tx)
		return nil
	})
}

// ListByUser toma una instantánea al iniciar cada recorrido; el yield ocurre fuera del lock.
func (r *TransactionRepo) ListByUser(ctx context.Context, userID string) iter.Seq2[entity.Transaction, error] {
	return func(yield func(entity.Transaction, error) bool) {
		var snapshot []entity.Transaction
		_ = r.s.read(func(st *state) error {
			for i := len(st.transactions) - 1; i >= 0; i-- {
				t := st.transactions[i]
				if t.UserID == userID {
					if c, ok := st.categories[t.CategoryID]; ok {
						t.CategoryName = c.Name
					}
					snapshot = append(snapshot, t)
				}
			}
			return nil
		})
		// Empates de fecha: el último insertado primero.
		sort.SliceStable(snapshot, func(i, j int) bool {
			return snapshot[i].CreatedAt.After(snapshot[j].CreatedAt)
		})
		for _, t := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(entity.Transaction{}, err)
				return
			}
			if !yield(t, nil) {
				return
			}
		}
	}
}

func (r *TransactionRepo) SumByUser(_ context.Context, userID string) (int64, error) {
	var sum int64
	err := r.s.read(func(st *state) error {
		for _, t := range st.transactions {
			if t.UserID == userID {
				sum += t.Amount
			}
		}
		return nil
	})
	return sum, err
}

func (r *TransactionRepo) SumAll(_ context.Context) (int64, error) {
	var sum int64
	err := r.s.read(func(st *state) error {
		for _, t := range st.transactions {
			sum += t.Amount
		}
		return nil
	})
	return sum, err
}

func (r *TransactionRepo) SumByUsers(_ context.Context, userIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(userIDs))
	for _, id := range userIDs {
		out[id] = 0
	}
	err := r.s.read(func(st *state) error {
		for _, t := range st.transactions {
			if _, ok := out[t.UserID]; ok {
				out[t.UserID] += t.Amount
			}
		}
		return nil
	})
	return out, err
}
