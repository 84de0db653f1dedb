package entity

import "time"

// Team equipo de una empresa con un gerente opcional.
type Team struct {
	ID        string
	CompanyID string
	Name      string
	ManagerID string // vacío si no tiene gerente
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsManagedBy indica si userID es el gerente registrado del equipo.
func (t *Team) IsManagedBy(userID string) bool {
	return t != nil && t.ManagerID != "" && t.ManagerID == userID
}

// TeamMembership par (equipo, usuario). No se valida contra la empresa del usuario.
type TeamMembership struct {
	TeamID    string
	UserID    string
	CreatedAt time.Time
}
