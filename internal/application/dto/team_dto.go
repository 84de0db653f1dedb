package dto

import "time"

// CreateTeamRequest alta de equipo. ManagerID opcional (usuario con rol manager).
type CreateTeamRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	CompanyID string `json:"company_id" validate:"required,uuid"`
	ManagerID string `json:"manager_id" validate:"omitempty,uuid"`
}

// UpdateTeamRequest campos opcionales. ManagerID con "" quita el gerente.
type UpdateTeamRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	CompanyID *string `json:"company_id" validate:"omitempty,uuid"`
	ManagerID *string `json:"manager_id" validate:"omitempty,uuid|len=0"`
}

// AddMemberRequest agrega un usuario al equipo.
type AddMemberRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// TeamResponse salida de un equipo.
type TeamResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CompanyID   string    `json:"company_id"`
	ManagerID   string    `json:"manager_id,omitempty"`
	MemberCount *int      `json:"member_count,omitempty"`
	TotalCoins  *int64    `json:"total_coins,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TeamListResponse lista de equipos.
type TeamListResponse struct {
	Items []TeamResponse `json:"items"`
}

// TeamRosterResponse miembros de un equipo.
type TeamRosterResponse struct {
	TeamID  string         `json:"team_id"`
	Members []UserResponse `json:"members"`
}
