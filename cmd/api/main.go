package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/Coins-api/docs"
	"github.com/jhoicas/Coins-api/internal/application/auth"
	"github.com/jhoicas/Coins-api/internal/application/guard"
	"github.com/jhoicas/Coins-api/internal/application/ledger"
	"github.com/jhoicas/Coins-api/internal/application/usecase"
	"github.com/jhoicas/Coins-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Coins-api/internal/infrastructure/ratelimit"
	httpRouter "github.com/jhoicas/Coins-api/internal/interfaces/http"
	"github.com/jhoicas/Coins-api/pkg/config"
	"github.com/jhoicas/Coins-api/pkg/jwt"
	"github.com/jhoicas/Coins-api/pkg/logger"
)

// @title                       Coins API
// @version                     1.0
// @description                 Ledger de monedas, rankings y administración de usuarios por rol.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.close()

	var (
		m            *metrics.Metrics
		guardOpts    = []guard.Option{guard.WithLogger(log.Named("guard"))}
		appendMetric ledger.AppendRecorder
	)
	if cfg.Metrics.Enabled {
		m, err = metrics.New()
		if err != nil {
			log.Fatal().Err(err).Msg("métricas")
		}
		guardOpts = append(guardOpts, guard.WithRecorder(m))
		appendMetric = m
	}

	g := guard.New(store.roles, store.teams, guardOpts...)

	usersUC := auth.NewUserAdminUseCase(auth.Deps{
		Guard:        g,
		Tx:           store.tx,
		Accounts:     store.accounts,
		Users:        store.users,
		Roles:        store.roles,
		Companies:    store.companies,
		Transactions: store.transactions,
		Logger:       log,
	})
	if cfg.Bootstrap.Enabled() {
		res, err := usersUC.Bootstrap(ctx, auth.BootstrapInput{
			CompanyName: cfg.Bootstrap.CompanyName,
			Email:       cfg.Bootstrap.AdminEmail,
			Password:    cfg.Bootstrap.AdminPassword,
			FullName:    cfg.Bootstrap.AdminName,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("bootstrap del admin inicial")
		}
		log.Info().Str("user_id", res.UserID).Bool("created", res.Created).Msg("admin inicial listo")
	}

	ledgerUC := ledger.NewUseCase(g, store.transactions, store.users, store.categories, appendMetric, log)
	roleUC := usecase.NewRoleUseCase(g, store.roles, store.users, store.companies, log)
	rankingUC := usecase.NewRankingUseCase(g, store.users, store.teams, store.transactions)
	companyUC := usecase.NewCompanyUseCase(g, store.companies, log)
	teamUC := usecase.NewTeamUseCase(g, store.teams, store.companies, store.users, store.roles, store.transactions, log)
	categoryUC := usecase.NewCategoryUseCase(g, store.categories, log)
	statsUC := usecase.NewStatsUseCase(g, store.users, store.transactions, store.categories)

	// Rate limit compartido vía Redis; si no hay Redis, bucket local por proceso.
	var limiter ratelimit.Limiter
	if cfg.Redis.Addr != "" {
		rl, err := ratelimit.NewRedis(ctx, ratelimit.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, log)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, usando rate limiter local")
		} else {
			limiter = rl
		}
	}
	if limiter == nil {
		limiter = ratelimit.NewLocal()
	}
	defer limiter.Close()

	app := httpRouter.NewApp(cfg.App.Name)
	app.Use(recover.New())
	app.Use(requestid.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Coins API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Resolver:   jwt.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer),
		UsersUC:    usersUC,
		RoleUC:     roleUC,
		LedgerUC:   ledgerUC,
		RankingUC:  rankingUC,
		CompanyUC:  companyUC,
		TeamUC:     teamUC,
		CategoryUC: categoryUC,
		StatsUC:    statsUC,
		Limiter:    limiter,
		PerMinute:  cfg.RateLimit.PerMinute,
		Metrics:    m,
		Logger:     log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
