package entity

import "time"

// Valores por defecto de presentación para categorías.
const (
	DefaultCategoryIcon  = "coins"
	DefaultCategoryColor = "#F59E0B"
)

// Category etiqueta descriptiva para movimientos del ledger.
type Category struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Color       string
	CreatedBy   string
	CreatedAt   time.Time
}
