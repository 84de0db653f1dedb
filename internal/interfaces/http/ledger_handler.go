package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Coins-api/internal/application/dto"
	"github.com/jhoicas/Coins-api/internal/application/ledger"
)

// LedgerHandler movimientos de monedas y saldos.
type LedgerHandler struct {
	uc *ledger.UseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.UseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// Append godoc
// @Summary      Otorgar o descontar monedas (admin)
// @Description  amount > 0 otorga, amount < 0 descuenta. Debe ser un entero.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.GrantCoinsRequest  true  "Movimiento"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *LedgerHandler) Append(c *fiber.Ctx) error {
	var in dto.GrantCoinsRequest
	if err := decodeStrict(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Append(c.UserContext(), GetCaller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Balance godoc
// @Summary      Saldo de un usuario (propio o admin)
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/balance [get]
func (h *LedgerHandler) Balance(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	return h.balance(c, id)
}

// History godoc
// @Summary      Historial de un usuario (propio o admin)
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id      path   string  true   "ID del usuario"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.TransactionListResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/users/{id}/transactions [get]
func (h *LedgerHandler) History(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	return h.history(c, id)
}

// MyBalance godoc
// @Summary      Saldo del llamante
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.BalanceResponse
// @Router       /api/me/balance [get]
func (h *LedgerHandler) MyBalance(c *fiber.Ctx) error {
	return h.balance(c, GetUserID(c))
}

// MyHistory godoc
// @Summary      Historial del llamante
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.TransactionListResponse
// @Router       /api/me/transactions [get]
func (h *LedgerHandler) MyHistory(c *fiber.Ctx) error {
	return h.history(c, GetUserID(c))
}

func (h *LedgerHandler) balance(c *fiber.Ctx, userID string) error {
	out, err := h.uc.UserBalance(c.UserContext(), GetCaller(c), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *LedgerHandler) history(c *fiber.Ctx, userID string) error {
	out, err := h.uc.History(c.UserContext(), GetCaller(c), userID, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
