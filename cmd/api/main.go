package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	appanalytics "github.com/jhoicas/activos-ti-api/internal/application/analytics"
	"github.com/jhoicas/activos-ti-api/internal/application/audit"
	"github.com/jhoicas/activos-ti-api/internal/application/auth"
	"github.com/jhoicas/activos-ti-api/internal/application/lifecycle"
	"github.com/jhoicas/activos-ti-api/internal/application/report"
	"github.com/jhoicas/activos-ti-api/internal/application/usecase"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
	"github.com/jhoicas/activos-ti-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/activos-ti-api/internal/infrastructure/pdf"
	"github.com/jhoicas/activos-ti-api/internal/infrastructure/postgres"
	"github.com/jhoicas/activos-ti-api/internal/infrastructure/revocation"
	httpRouter "github.com/jhoicas/activos-ti-api/internal/interfaces/http"
	"github.com/jhoicas/activos-ti-api/pkg/config"
	"github.com/jhoicas/activos-ti-api/pkg/logger"
)

// repos puertos de persistencia del driver elegido.
type repos struct {
	users     repository.UserRepository
	equipment repository.EquipmentRepository
	requests  repository.ServiceRequestRepository
	audit     repository.AuditRepository
	catalog   repository.CatalogRepository
	analytics repository.AnalyticsRepository
	tx        lifecycle.TxRunner
	ping      httpRouter.Pinger
	close     func()
}

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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	r, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer r.close()

	// Revocación de sesiones: Redis si hay URL; si no, en memoria del proceso.
	var revoker interface {
		auth.TokenRevoker
		httpRouter.Pinger
	}
	if cfg.Redis.URL != "" {
		rdb, err := revocation.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		revoker = revocation.NewRedisRevoker(rdb)
	} else {
		log.Warn().Msg("REDIS_URL vacío: la revocación de sesiones no sobrevive a un reinicio")
		revoker = revocation.NewMemoryRevoker()
	}

	ledgerUC := audit.NewLedgerUseCase(r.audit, r.equipment, r.requests)
	authUC := auth.NewAuthUseCase(r.users, ledgerUC, revoker, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	userUC := usecase.NewUserUseCase(r.users, r.catalog)
	catalogUC := usecase.NewCatalogUseCase(r.catalog)
	equipmentUC := lifecycle.NewEquipmentUseCase(r.equipment, r.catalog, r.tx, log)
	requestUC := lifecycle.NewRequestUseCase(r.requests, r.tx, log)
	dashboardUC := appanalytics.NewDashboardUseCase(r.analytics)

	// PDF: historial de equipos y solicitudes
	pdfGenerator := infrapdf.NewMarotoHistoryPDFGenerator(cfg.App.Name)
	reportUC := report.NewHistoryReportUseCase(ledgerUC, r.equipment, r.requests, r.users, pdfGenerator)

	if cfg.Bootstrap.AdminEmail != "" {
		created, err := userUC.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, "SIS")
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		if created {
			log.Info().Str("email", cfg.Bootstrap.AdminEmail).Msg("administrador inicial creado")
		}
	}

	app := httpRouter.NewApp(cfg.App.Name)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Activos TI API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         userUC,
		CatalogUC:      catalogUC,
		EquipmentUC:    equipmentUC,
		RequestUC:      requestUC,
		LedgerUC:       ledgerUC,
		DashboardUC:    dashboardUC,
		ReportUC:       reportUC,
		Log:            log,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		LoginRateLimit: cfg.HTTP.LoginRateLimit,
		HealthChecks: map[string]httpRouter.Pinger{
			"storage":    r.ping,
			"revocation": revoker,
		},
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

// openStorage construye los repositorios según STORAGE_DRIVER. Con postgres aplica
// las migraciones pendientes antes de servir.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repos, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.NewStore(nil)
		return &repos{
			users:     s.Users(),
			equipment: s.Equipment(),
			requests:  s.Requests(),
			audit:     s.Audit(),
			catalog:   s.Catalog(),
			analytics: s.Analytics(),
			tx:        s,
			ping:      s,
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	for _, name := range applied {
		log.Info().Str("migration", name).Msg("migración aplicada")
	}
	return &repos{
		users:     postgres.NewUserRepository(pool),
		equipment: postgres.NewEquipmentRepository(pool),
		requests:  postgres.NewServiceRequestRepository(pool),
		audit:     postgres.NewAuditRepository(pool),
		catalog:   postgres.NewCatalogRepository(pool),
		analytics: postgres.NewAnalyticsRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		ping:      httpRouter.PingFunc(pool.Ping),
		close:     pool.Close,
	}, nil
}
