// seed prepara una base recién migrada: empresa inicial, primer admin y el catálogo básico
// de categorías. Se puede ejecutar varias veces; lo existente no se duplica.
//
// Uso: BOOTSTRAP_ADMIN_EMAIL=... BOOTSTRAP_ADMIN_PASSWORD=... go run ./cmd/seed
package main

import (
	"context"
	"errors"

	"github.com/jhoicas/Coins-api/internal/application/auth"
	"github.com/jhoicas/Coins-api/internal/application/dto"
	"github.com/jhoicas/Coins-api/internal/application/guard"
	"github.com/jhoicas/Coins-api/internal/application/usecase"
	"github.com/jhoicas/Coins-api/internal/domain"
	"github.com/jhoicas/Coins-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Coins-api/pkg/config"
	"github.com/jhoicas/Coins-api/pkg/logger"
)

var defaultCategories = []dto.CreateCategoryRequest{
	{Name: "Reconocimiento", Description: "Reconocimiento de un compañero o líder", Icon: "award", Color: "#F59E0B"},
	{Name: "Logro", Description: "Meta u objetivo cumplido", Icon: "trophy", Color: "#10B981"},
	{Name: "Ajuste", Description: "Corrección manual de saldo", Icon: "scale", Color: "#6B7280"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	if !cfg.Bootstrap.Enabled() || cfg.Bootstrap.AdminPassword == "" {
		log.Fatal().Msg("BOOTSTRAP_ADMIN_EMAIL y BOOTSTRAP_ADMIN_PASSWORD son requeridos")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	roles := postgres.NewRoleRepository(pool)
	g := guard.New(roles, postgres.NewTeamRepository(pool))
	users := auth.NewUserAdminUseCase(auth.Deps{
		Guard:        g,
		Tx:           postgres.NewTxRunner(pool),
		Accounts:     postgres.NewAccountRepository(pool),
		Users:        postgres.NewUserRepository(pool),
		Roles:        roles,
		Companies:    postgres.NewCompanyRepository(pool),
		Transactions: postgres.NewTransactionRepository(pool),
		Logger:       log,
	})

	res, err := users.Bootstrap(ctx, auth.BootstrapInput{
		CompanyName: cfg.Bootstrap.CompanyName,
		Email:       cfg.Bootstrap.AdminEmail,
		Password:    cfg.Bootstrap.AdminPassword,
		FullName:    cfg.Bootstrap.AdminName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap del admin inicial")
	}
	log.Info().Str("user_id", res.UserID).Str("company_id", res.CompanyID).Bool("created", res.Created).Msg("admin inicial")

	categories := usecase.NewCategoryUseCase(g, postgres.NewCategoryRepository(pool), log)
	admin := &guard.Caller{UserID: res.UserID, Email: cfg.Bootstrap.AdminEmail}
	for _, in := range defaultCategories {
		_, err := categories.Create(ctx, admin, in)
		switch {
		case err == nil:
			log.Info().Str("name", in.Name).Msg("categoría creada")
		case errors.Is(err, domain.ErrConflict):
			log.Debug().Str("name", in.Name).Msg("categoría ya existe")
		default:
			log.Fatal().Err(err).Str("name", in.Name).Msg("crear categoría")
		}
	}
}
