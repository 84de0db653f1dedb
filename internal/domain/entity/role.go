package entity

import "time"

// Roles válidos. Son disjuntos: un usuario tiene exactamente uno.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// RoleAssignment asignación activa de rol. CompanyID vacío para admin (alcance global).
type RoleAssignment struct {
	UserID    string
	Role      string
	CompanyID string
	UpdatedAt time.Time
}

// IsValidRole indica si r es uno de los roles conocidos.
func IsValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// Is indica si la asignación existe y corresponde al rol dado.
func (a *RoleAssignment) Is(role string) bool {
	return a != nil && a.Role == role
}
