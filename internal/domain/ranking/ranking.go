// Package ranking contiene el cálculo puro de posiciones a partir de saldos.
package ranking

import (
	"sort"

	"github.com/jhoicas/Coins-api/internal/domain/entity"
)

// Compute ordena por saldo descendente (desempate por UserID ascendente) y asigna
// Rank = posición 1-based. Saldos iguales ocupan posiciones consecutivas distintas.
// No modifica el slice recibido.
func Compute(entries []entity.Standing) []entity.Standing {
	out := make([]entity.Standing, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].UserID < out[j].UserID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Total suma los saldos de un conjunto de posiciones.
func Total(entries []entity.Standing) int64 {
	var sum int64
	for _, e := range entries {
		sum += e.Balance
	}
	return sum
}
