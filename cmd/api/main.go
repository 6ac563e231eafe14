package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/templo-inventario/internal/application/auth"
	"github.com/jhoicas/templo-inventario/internal/application/inventory"
	"github.com/jhoicas/templo-inventario/internal/application/ports"
	"github.com/jhoicas/templo-inventario/internal/application/report"
	"github.com/jhoicas/templo-inventario/internal/application/request"
	"github.com/jhoicas/templo-inventario/internal/infrastructure/export"
	"github.com/jhoicas/templo-inventario/internal/infrastructure/kafka"
	"github.com/jhoicas/templo-inventario/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/templo-inventario/internal/infrastructure/pdf"
	"github.com/jhoicas/templo-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/templo-inventario/internal/infrastructure/recordstore"
	infraredis "github.com/jhoicas/templo-inventario/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/templo-inventario/internal/interfaces/http"
	"github.com/jhoicas/templo-inventario/pkg/config"
	"github.com/jhoicas/templo-inventario/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("la aplicación terminó con error")
	}
	log.Info().Msg("aplicación detenida")
}

// run arma las dependencias, sirve HTTP hasta SIGINT/SIGTERM y libera los recursos al volver.
// Los errores se devuelven en lugar de abortar para que los defer se ejecuten.
func run(cfg *config.Config, log *logger.Logger) error {
	seeds := recordstore.Seeds{}
	if cfg.Store.Seed {
		seeds = recordstore.DemoSeeds()
	}
	if cfg.Admin.Password != "" {
		hash, err := auth.HashPassword(cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("hash de la contraseña de administrador: %w", err)
		}
		seeds.Users = append(seeds.Users, recordstore.AdminSeed(cfg.Admin.Email, hash))
	} else {
		log.Warn().Msg("ADMIN_PASSWORD vacío: no hay administrador semilla")
	}

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("abrir almacén de registros: %w", err)
	}
	defer closeStore()

	txRunner := recordstore.NewTxRunner(store, recordstore.NewCollections(seeds, log.Component("collections")), log.Component("recordstore"))

	appMetrics := metrics.New()

	var events ports.EventPublisher = ports.NopPublisher{}
	if cfg.Kafka.Enabled() {
		publisher, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log.Component("kafka"))
		if err != nil {
			return fmt.Errorf("conexión a Kafka %v: %w", cfg.Kafka.Brokers, err)
		}
		defer func() { _ = publisher.Close() }()
		events = publisher
	}

	loc := cfg.App.Location()
	window := cfg.Ledger.ExpiryWindowDays
	ledgerUC := inventory.NewLedgerUseCase(txRunner, events, appMetrics, loc, log.Component("ledger"))
	// Las sumas SQL solo ven lotes persistidos: con lotes semilla el cruce daría falsos descuadres.
	if pg, ok := store.(*postgres.BlobStore); ok && len(seeds.Batches) == 0 {
		ledgerUC.WithStockTotals(pg)
	}
	itemUC := inventory.NewItemUseCase(txRunner, loc)
	replenishmentUC := inventory.NewReplenishmentUseCase(txRunner)
	requestUC := request.NewRequestUseCase(txRunner, appMetrics, log.Component("requests"))
	reportUC := report.NewReportUseCase(txRunner, loc, window,
		export.NewCSVExporter(),
		export.NewXLSXExporter(),
		infrapdf.NewStockReportPDF(cfg.App.Name),
	)
	authUC := auth.NewAuthUseCase(txRunner, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSOrigins}))
	app.Use(httpRouter.MetricsMiddleware(appMetrics))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario del Templo API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})
	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(appMetrics.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		ItemUC:           itemUC,
		LedgerUC:         ledgerUC,
		ReplenishmentUC:  replenishmentUC,
		RequestUC:        requestUC,
		ReportUC:         reportUC,
		JWTSecret:        cfg.JWT.Secret,
		ExpiryWindowDays: window,
	})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.HTTP.Addr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-listenErr:
		return fmt.Errorf("servidor HTTP: %w", err)
	case <-quit:
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	return nil
}

// openStore abre el backend de blobs según STORE_DRIVER. El cierre devuelto libera conexiones.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (recordstore.BlobStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreFile:
		fs, err := recordstore.NewFileStore(cfg.Store.Dir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil

	case config.StorePostgres:
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		bs := postgres.NewBlobStore(pool)
		if revs, err := bs.Revisions(ctx); err == nil {
			for name, rev := range revs {
				log.Info().Str("collection", name).Int64("revision", rev).Msg("colección persistida")
			}
		}
		return bs, pool.Close, nil

	case config.StoreRedis:
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return infraredis.NewBlobStore(client, cfg.Redis.Prefix), func() { _ = client.Close() }, nil

	default:
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		return recordstore.NewMemoryStore(), func() {}, nil
	}
}
