package dto

import "time"

// GrantCoinsRequest otorgamiento (amount > 0) o descuento (amount < 0) de monedas.
// Amount es puntero para distinguir "ausente" de cero, que es válido.
type GrantCoinsRequest struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	Amount      *int64 `json:"amount" validate:"required"`
	CategoryID  string `json:"category_id" validate:"omitempty,uuid"`
	Description string `json:"description" validate:"required,min=1,max=500"`
}

// TransactionResponse movimiento del ledger.
type TransactionResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Amount       int64     `json:"amount"`
	Description  string    `json:"description"`
	CategoryID   string    `json:"category_id,omitempty"`
	CategoryName string    `json:"category_name,omitempty"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// TransactionListResponse historial de un usuario.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// BalanceResponse saldo derivado del ledger.
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

// CreateCategoryRequest alta de categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Icon        string `json:"icon" validate:"omitempty,max=50"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryListResponse lista de categorías, más recientes primero.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
}
