package entity

import "time"

// Company raíz de la jerarquía organizacional.
type Company struct {
	ID        string
	Name      string
	LogoURL   string // opcional
	CreatedAt time.Time
	UpdatedAt time.Time
}
