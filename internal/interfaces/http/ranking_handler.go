package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Coins-api/internal/application/usecase"
)

// RankingHandler rankings global y por equipo. Se recalculan en cada petición.
type RankingHandler struct {
	uc *usecase.RankingUseCase
}

func NewRankingHandler(uc *usecase.RankingUseCase) *RankingHandler {
	return &RankingHandler{uc: uc}
}

// Global godoc
// @Summary      Ranking global
// @Tags         ranking
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.RankingResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/ranking [get]
func (h *RankingHandler) Global(c *fiber.Ctx) error {
	out, err := h.uc.GlobalRanking(c.UserContext(), GetCaller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Team godoc
// @Summary      Ranking de un equipo (admin o su gerente)
// @Tags         ranking
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del equipo"
// @Success      200  {object}  dto.RankingResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/teams/{id}/ranking [get]
func (h *RankingHandler) Team(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.TeamRanking(c.UserContext(), GetCaller(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
