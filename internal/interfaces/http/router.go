package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	appanalytics "github.com/jhoicas/activos-ti-api/internal/application/analytics"
	"github.com/jhoicas/activos-ti-api/internal/application/audit"
	"github.com/jhoicas/activos-ti-api/internal/application/auth"
	"github.com/jhoicas/activos-ti-api/internal/application/lifecycle"
	"github.com/jhoicas/activos-ti-api/internal/application/report"
	"github.com/jhoicas/activos-ti-api/internal/application/usecase"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	CatalogUC   *usecase.CatalogUseCase
	EquipmentUC *lifecycle.EquipmentUseCase
	RequestUC   *lifecycle.RequestUseCase
	LedgerUC    *audit.LedgerUseCase
	DashboardUC *appanalytics.DashboardUseCase
	ReportUC    *report.HistoryReportUseCase

	Log            *logger.Logger
	CORSOrigins    string // separados por comas; vacío = *
	LoginRateLimit int    // por minuto e IP; <= 0 desactiva el limitador
	HealthChecks   map[string]Pinger
}

// NewApp crea la aplicación Fiber con el manejador de errores de la API.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      name,
		ErrorHandler: ErrorHandler,
	})
}

// Router registra middlewares globales y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	origins := strings.TrimSpace(deps.CORSOrigins)
	if origins == "" {
		origins = "*"
	}

	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))

	app.Get("/health", Health(deps.HealthChecks))

	api := app.Group("/api")

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	if deps.LoginRateLimit > 0 {
		authGroup.Post("/login", limiter.New(limiter.Config{
			Max:          deps.LoginRateLimit,
			Expiration:   time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return fiber.ErrTooManyRequests
			},
		}), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.AuthUC))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	protected.Get("/catalog", NewCatalogHandler(deps.CatalogUC).Get)

	// Users: /me antes de /:id
	userHandler := NewUserHandler(deps.UserUC)
	adminOnly := RequireRole(entity.RoleAdmin)
	users := protected.Group("/users")
	users.Patch("/me", userHandler.UpdateSelf)
	users.Post("/", adminOnly, userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Patch("/:id", adminOnly, userHandler.Update)
	users.Delete("/:id", adminOnly, userHandler.Deactivate)

	auditHandler := NewAuditHandler(deps.LedgerUC, deps.ReportUC)

	equipmentHandler := NewEquipmentHandler(deps.EquipmentUC)
	equipment := protected.Group("/equipment")
	equipment.Post("/", equipmentHandler.Create)
	equipment.Get("/", equipmentHandler.List)
	equipment.Get("/:id", equipmentHandler.GetByID)
	equipment.Patch("/:id", equipmentHandler.Update)
	equipment.Post("/:id/transition", equipmentHandler.Transition)
	equipment.Get("/:id/history.pdf", auditHandler.EquipmentHistoryPDF)
	equipment.Get("/:id/history", auditHandler.EquipmentHistory)

	requestHandler := NewRequestHandler(deps.RequestUC)
	requests := protected.Group("/requests")
	requests.Post("/", requestHandler.Create)
	requests.Get("/", requestHandler.List)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Patch("/:id", requestHandler.Update)
	requests.Post("/:id/transition", requestHandler.Transition)
	requests.Get("/:id/history.pdf", auditHandler.RequestHistoryPDF)
	requests.Get("/:id/history", auditHandler.RequestHistory)

	auditGroup := protected.Group("/audit")
	auditGroup.Get("/logins", auditHandler.Logins)
	auditGroup.Get("/statistics", NewDashboardHandler(deps.DashboardUC).Statistics)
	auditGroup.Get("/verify/:kind/:id", auditHandler.Verify)
}
