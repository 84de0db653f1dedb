package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Coins-api/internal/application/dto"
	"github.com/jhoicas/Coins-api/internal/domain"
)

func int64Ptr(v int64) *int64 { return &v }

func TestValidate_GrantCoinsCampoAusente(t *testing.T) {
	err := dto.Validate(dto.GrantCoinsRequest{
		UserID:      "7b0c6f0e-6f5e-4b39-9a11-2f4f6b8f1a10",
		Description: "Logro",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "amount es requerido")
}

func TestValidate_GrantCoinsMontoCeroEsValido(t *testing.T) {
	err := dto.Validate(dto.GrantCoinsRequest{
		UserID:      "7b0c6f0e-6f5e-4b39-9a11-2f4f6b8f1a10",
		Amount:      int64Ptr(0),
		Description: "Ajuste",
	})
	assert.NoError(t, err)
}

func TestValidate_CreateUserRolDesconocido(t *testing.T) {
	err := dto.Validate(dto.CreateUserRequest{
		Email:     "ana@acme.io",
		Password:  "secreto123",
		FullName:  "Ana",
		Role:      "superuser",
		CompanyID: "7b0c6f0e-6f5e-4b39-9a11-2f4f6b8f1a10",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role debe ser uno de")
}

func TestValidate_ResetPasswordUserIDMalFormado(t *testing.T) {
	err := dto.Validate(dto.ResetPasswordRequest{UserID: "no-es-uuid", NewPassword: "nueva-clave"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "user_id debe ser un UUID")

	assert.NoError(t, dto.Validate(dto.ResetPasswordRequest{Email: "ana@acme.io", NewPassword: "nueva-clave"}))
}

func TestValidate_CategoryColorHex(t *testing.T) {
	assert.NoError(t, dto.Validate(dto.CreateCategoryRequest{Name: "Logro", Color: "#10B981"}))
	assert.ErrorIs(t, dto.Validate(dto.CreateCategoryRequest{Name: "Logro", Color: "verde"}), domain.ErrInvalidInput)
}

func TestPageRequest_DefaultPage(t *testing.T) {
	p := dto.PageRequest{Limit: 500, Offset: -3}
	p.DefaultPage()
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, 0, p.Offset)
}
