package entity

import "time"

// User representa el perfil de un colaborador. Pertenece a lo sumo a una Company
// (CompanyID vacío durante el alta).
type User struct {
	ID        string
	CompanyID string // vacío si aún no tiene empresa
	FullName  string
	Email     string // espejo desnormalizado del email de la cuenta
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account credenciales gestionadas por el proveedor de identidad. Comparte ID con User.
type Account struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca plano
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
