package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Coins-api/internal/application/dto"
	"github.com/jhoicas/Coins-api/internal/application/usecase"
)

// TeamHandler equipos, gerentes y membresías.
type TeamHandler struct {
	uc *usecase.TeamUseCase
}

func NewTeamHandler(uc *usecase.TeamUseCase) *TeamHandler {
	return &TeamHandler{uc: uc}
}

// Create godoc
// @Summary      Crear equipo (admin)
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateTeamRequest  true  "Datos del equipo"
// @Success      201   {object}  dto.TeamResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/teams [post]
func (h *TeamHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTeamRequest
	if err := decodeStrict(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetCaller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar equipos (admin)
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        company_id  query  string  false  "Filtrar por empresa"
// @Success      200         {object}  dto.TeamListResponse
// @Router       /api/teams [get]
func (h *TeamHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCaller(c), c.Query("company_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener equipo (admin)
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del equipo"
// @Success      200  {object}  dto.TeamResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/teams/{id} [get]
func (h *TeamHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Get(c.UserContext(), GetCaller(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar equipo (admin)
// @Description  manager_id "" quita el gerente.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "ID del equipo"
// @Param        body  body  dto.UpdateTeamRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.TeamResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/teams/{id} [put]
func (h *TeamHandler) Update(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateTeamRequest
	if err := decodeStrict(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetCaller(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar equipo (admin)
// @Tags         teams
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del equipo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/teams/{id} [delete]
func (h *TeamHandler) Delete(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), GetCaller(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Roster godoc
// @Summary      Miembros del equipo con saldo (admin o su gerente)
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del equipo"
// @Success      200  {object}  dto.TeamRosterResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/teams/{id}/members [get]
func (h *TeamHandler) Roster(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Roster(c.UserContext(), GetCaller(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddMember godoc
// @Summary      Agregar miembro (admin)
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                true  "ID del equipo"
// @Param        body  body  dto.AddMemberRequest  true  "Usuario"
// @Success      201   {object}  dto.SuccessResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/teams/{id}/members [post]
func (h *TeamHandler) AddMember(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.AddMemberRequest
	if err := decodeStrict(c, &in); err != nil {
		return respondError(c, err)
	}
	if err := h.uc.AddMember(c.UserContext(), GetCaller(c), id, in); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{Success: true, Message: "miembro agregado"})
}

// RemoveMember godoc
// @Summary      Quitar miembro (admin)
// @Tags         teams
// @Security     BearerAuth
// @Param        id      path  string  true  "ID del equipo"
// @Param        userId  path  string  true  "ID del usuario"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/teams/{id}/members/{userId} [delete]
func (h *TeamHandler) RemoveMember(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	userID, err := paramUUID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.RemoveMember(c.UserContext(), GetCaller(c), id, userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
