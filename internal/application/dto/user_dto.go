package dto

import "time"

// CreateUserRequest alta de usuario por un admin. Role por defecto "user".
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FullName  string `json:"full_name" validate:"required,min=1,max=200"`
	Role      string `json:"role" validate:"omitempty,oneof=admin manager user"`
	CompanyID string `json:"company_id" validate:"required,uuid"`
}

// ResetPasswordRequest identifica al usuario por user_id o por email (al menos uno).
type ResetPasswordRequest struct {
	UserID      string `json:"user_id" validate:"omitempty,uuid"`
	Email       string `json:"email" validate:"omitempty,email"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

// UpdateEmailRequest cambio de email de un usuario (user_id viaja en la ruta).
type UpdateEmailRequest struct {
	NewEmail string `json:"new_email" validate:"required,email"`
}

// AssignRoleRequest reemplaza el rol activo del usuario.
type AssignRoleRequest struct {
	Role      string `json:"role" validate:"required,oneof=admin manager user"`
	CompanyID string `json:"company_id" validate:"omitempty,uuid"`
}

// UserResponse salida de un usuario (sin credenciales).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CompanyID string    `json:"company_id,omitempty"`
	Role      string    `json:"role,omitempty"`
	Balance   *int64    `json:"balance,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserListResponse listado de usuarios para administración.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
}

// RoleResponse asignación de rol vigente.
type RoleResponse struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	CompanyID string `json:"company_id,omitempty"`
}

// ResetPasswordResponse confirma el cambio de contraseña.
type ResetPasswordResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id"`
}
