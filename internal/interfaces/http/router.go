package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/Suministros-api/internal/application/auth"
	"github.com/jhoicas/Suministros-api/internal/application/importer"
	"github.com/jhoicas/Suministros-api/internal/application/planning"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PassUC         *planning.PassUseCase
	ForecastUC     *planning.ForecastUseCase
	ReportUC       *planning.ReportUseCase
	AuthUC         *auth.AuthUseCase
	ImportUC       *importer.ImportUseCase
	MetricsHandler nethttp.Handler // nil = sin /metrics
	ServiceName    string
	Tokens         TokenVerifier
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")

	// Auth pública: login
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.Tokens))
	protected.Post("/auth/register", RequireRole(RoleAdmin), authHandler.Register)

	// Importación de la red: solo admin
	networkHandler := NewNetworkHandler(deps.ImportUC)
	protected.Post("/network/import", RequireRole(RoleAdmin), networkHandler.Import)

	// Pasadas de planeación: ejecutar requiere admin o planner; consultar, cualquier rol
	planningHandler := NewPlanningHandler(deps.PassUC, deps.ReportUC)
	passes := protected.Group("/planning/passes")
	passes.Post("/", RequireRole(RoleAdmin, RolePlanner), planningHandler.RunPass)
	passes.Get("/", RequireRole(RoleAdmin, RolePlanner, RoleViewer), planningHandler.ListPasses)
	passes.Get("/:id", RequireRole(RoleAdmin, RolePlanner, RoleViewer), planningHandler.GetPass)
	passes.Get("/:id/report", RequireRole(RoleAdmin, RolePlanner, RoleViewer), planningHandler.GetReport)

	// Pronósticos
	forecastHandler := NewForecastHandler(deps.ForecastUC)
	protected.Get("/forecasts", RequireRole(RoleAdmin, RolePlanner, RoleViewer), forecastHandler.Get)
}
