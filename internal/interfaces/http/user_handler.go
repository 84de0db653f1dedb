package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Coins-api/internal/application/auth"
	"github.com/jhoicas/Coins-api/internal/application/dto"
	"github.com/jhoicas/Coins-api/internal/application/usecase"
)

// UserHandler operaciones privilegiadas sobre cuentas y el perfil del llamante.
type UserHandler struct {
	users *auth.UserAdminUseCase
	roles *usecase.RoleUseCase
	teams *usecase.TeamUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(users *auth.UserAdminUseCase, roles *usecase.RoleUseCase, teams *usecase.TeamUseCase) *UserHandler {
	return &UserHandler{users: users, roles: roles, teams: teams}
}

// Create godoc
// @Summary      Crear usuario (admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateUserRequest  true  "Datos del usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := decodeStrict(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.users.CreateUser(c.UserContext(), GetCaller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar usuarios con rol y saldo (admin)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.users.ListUsers(c.UserContext(), GetCaller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar usuario (admin)
// @Description  Borra la cuenta, el perfil, el rol y las membresías. El historial de monedas se conserva.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.users.DeleteUser(c.UserContext(), GetCaller(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "usuario eliminado"})
}

// ResetPassword godoc
// @Summary      Restablecer contraseña (admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ResetPasswordRequest  true  "user_id o email y la nueva contraseña"
// @Success      200   {object}  dto.ResetPasswordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/reset-password [post]
func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := decodeStrict(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.users.ResetPassword(c.UserContext(), GetCaller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateEmail godoc
// @Summary      Cambiar email (admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "ID del usuario"
// @Param        body  body  dto.UpdateEmailRequest  true  "Nuevo email"
// @Success      200   {object}  dto.UserResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/email [put]
func (h *UserHandler) UpdateEmail(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateEmailRequest
	if err := decodeStrict(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.users.UpdateEmail(c.UserContext(), GetCaller(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AssignRole godoc
// @Summary      Asignar rol (admin)
// @Description  Reemplaza el rol vigente; cada usuario tiene como máximo uno.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.AssignRoleRequest  true  "Rol y empresa"
// @Success      200   {object}  dto.RoleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/role [put]
func (h *UserHandler) AssignRole(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.AssignRoleRequest
	if err := decodeStrict(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.roles.Assign(c.UserContext(), GetCaller(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Perfil del llamante con rol y saldo
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	out, err := h.users.Me(c.UserContext(), GetCaller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MyTeams godoc
// @Summary      Equipos que gestiona el llamante
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.TeamListResponse
// @Router       /api/me/teams [get]
func (h *UserHandler) MyTeams(c *fiber.Ctx) error {
	out, err := h.teams.ManagedTeams(c.UserContext(), GetCaller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
