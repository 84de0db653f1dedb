package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/Coins-api/internal/application/auth"
	"github.com/jhoicas/Coins-api/internal/application/ledger"
	"github.com/jhoicas/Coins-api/internal/application/usecase"
	"github.com/jhoicas/Coins-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Coins-api/internal/infrastructure/ratelimit"
	"github.com/jhoicas/Coins-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Resolver   IdentityResolver
	UsersUC    *auth.UserAdminUseCase
	RoleUC     *usecase.RoleUseCase
	LedgerUC   *ledger.UseCase
	RankingUC  *usecase.RankingUseCase
	CompanyUC  *usecase.CompanyUseCase
	TeamUC     *usecase.TeamUseCase
	CategoryUC *usecase.CategoryUseCase
	StatsUC    *usecase.StatsUseCase

	Limiter   ratelimit.Limiter // nil = sin límite
	PerMinute int
	Metrics   *metrics.Metrics // nil = sin /metrics
	Logger    *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	var (
		reqRecorder RequestRecorder
		hitRecorder RateLimitRecorder
	)
	if deps.Metrics != nil {
		reqRecorder, hitRecorder = deps.Metrics, deps.Metrics
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	app.Use(AccessLog(deps.Logger, reqRecorder))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Todo /api requiere Bearer Token.
	api := app.Group("/api", AuthMiddleware(deps.Resolver), RateLimit(deps.Limiter, deps.PerMinute, hitRecorder))

	userHandler := NewUserHandler(deps.UsersUC, deps.RoleUC, deps.TeamUC)
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	rankingHandler := NewRankingHandler(deps.RankingUC)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	teamHandler := NewTeamHandler(deps.TeamUC)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	statsHandler := NewStatsHandler(deps.StatsUC)

	// Users (admin, salvo saldo e historial propios)
	users := api.Group("/users")
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Post("/reset-password", userHandler.ResetPassword)
	users.Delete("/:id", userHandler.Delete)
	users.Put("/:id/email", userHandler.UpdateEmail)
	users.Put("/:id/role", userHandler.AssignRole)
	users.Get("/:id/balance", ledgerHandler.Balance)
	users.Get("/:id/transactions", ledgerHandler.History)

	// Me
	me := api.Group("/me")
	me.Get("/", userHandler.Me)
	me.Get("/balance", ledgerHandler.MyBalance)
	me.Get("/transactions", ledgerHandler.MyHistory)
	me.Get("/teams", userHandler.MyTeams)

	// Ledger y ranking
	api.Post("/transactions", ledgerHandler.Append)
	api.Get("/ranking", rankingHandler.Global)
	api.Get("/stats", statsHandler.Get)

	// Companies
	companies := api.Group("/companies")
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)
	companies.Delete("/:id", companyHandler.Delete)

	// Teams
	teams := api.Group("/teams")
	teams.Get("/", teamHandler.List)
	teams.Post("/", teamHandler.Create)
	teams.Get("/:id", teamHandler.Get)
	teams.Put("/:id", teamHandler.Update)
	teams.Delete("/:id", teamHandler.Delete)
	teams.Get("/:id/ranking", rankingHandler.Team)
	teams.Get("/:id/members", teamHandler.Roster)
	teams.Post("/:id/members", teamHandler.AddMember)
	teams.Delete("/:id/members/:userId", teamHandler.RemoveMember)

	// Categories
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Delete("/:id", categoryHandler.Delete)
}
