package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Suministros-api/internal/application/auth"
	"github.com/jhoicas/Suministros-api/internal/application/importer"
	"github.com/jhoicas/Suministros-api/internal/application/planning"
	"github.com/jhoicas/Suministros-api/internal/application/ports"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/marketplace"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Suministros-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/resilience"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/routing"
	httpRouter "github.com/jhoicas/Suministros-api/internal/interfaces/http"
	"github.com/jhoicas/Suministros-api/pkg/config"
	"github.com/jhoicas/Suministros-api/pkg/jwt"
	"github.com/jhoicas/Suministros-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	siteRepo := postgres.NewSiteRepository(pool)
	patientRepo := postgres.NewPatientRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	runRepo := postgres.NewPlanningRunRepository(pool)

	// Servicios externos opcionales: sin URL se usan los valores estáticos.
	var pricing ports.PricingLookup
	if cfg.Marketplace.Enabled() {
		pricing = marketplace.NewClient(
			cfg.Marketplace.URL, cfg.Marketplace.APIKey,
			time.Duration(cfg.Marketplace.TimeoutMS)*time.Millisecond,
			resilience.DefaultBreakerConfig("marketplace"),
		)
	}
	var routes ports.RouteLookup
	if cfg.Routing.Enabled() {
		routes = routing.NewClient(
			cfg.Routing.URL,
			time.Duration(cfg.Routing.TimeoutMS)*time.Millisecond,
			resilience.DefaultBreakerConfig("routing"),
		)
	}
	log.Info().
		Bool("marketplace", pricing != nil).
		Bool("routing", routes != nil).
		Msg("servicios externos")

	m := metrics.New()
	passUC := planning.NewPassUseCase(
		planning.Stores{
			Sites:     siteRepo,
			Inventory: postgres.NewInventoryRecordRepository(pool),
			Transfers: postgres.NewTransferRequestRepository(pool),
			Patients:  patientRepo,
			Catalog:   catalogRepo,
			Runs:      runRepo,
		},
		planning.NewPlannerFromConfig(cfg.Planner),
		pricing, routes, m, log,
		planning.OptionsFromConfig(cfg.Planner, cfg.Marketplace),
	)
	horizon := time.Duration(cfg.Planner.ForecastHorizonDays) * 24 * time.Hour
	forecastUC := planning.NewForecastUseCase(siteRepo, patientRepo, catalogRepo, horizon)
	reportUC := planning.NewReportUseCase(runRepo, siteRepo, infrapdf.NewMarotoPDFGenerator())
	importUC := importer.NewImportUseCase(postgres.NewTxRunner(pool), log)
	tokens, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiration)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("JWT_SECRET requerido")
	}
	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), tokens)
	if cfg.Bootstrap.Enabled() {
		created, err := authUC.EnsureAdmin(ctx, cfg.Bootstrap.NetworkID, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("administrador inicial")
		}
		if created {
			log.Info().Str("network_id", cfg.Bootstrap.NetworkID).Msg("administrador inicial creado")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Suministros API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		PassUC:         passUC,
		ForecastUC:     forecastUC,
		ReportUC:       reportUC,
		AuthUC:         authUC,
		ImportUC:       importUC,
		MetricsHandler: m.Handler(),
		ServiceName:    cfg.App.Name,
		Tokens:         tokens,
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
