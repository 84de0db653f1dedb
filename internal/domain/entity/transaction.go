package entity

import "time"

// Transaction movimiento del ledger. Inmutable una vez persistido: no existe
// operación de actualización ni borrado.
// Amount positivo = otorgamiento, negativo = descuento, cero es válido y no tiene efecto.
type Transaction struct {
	ID          string
	UserID      string // beneficiario
	CategoryID  string // vacío si no tiene categoría o si la categoría fue eliminada
	Amount      int64
	Description string
	CreatedBy   string // admin que emitió el movimiento
	CreatedAt   time.Time

	// Solo lectura, resuelto al listar.
	CategoryName string
}
