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
	apppicking "github.com/jhoicas/picking-salida/internal/application/picking"
	"github.com/jhoicas/picking-salida/internal/domain/entity"
	"github.com/jhoicas/picking-salida/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/picking-salida/internal/infrastructure/pdf"
	"github.com/jhoicas/picking-salida/internal/infrastructure/postgres"
	"github.com/jhoicas/picking-salida/internal/infrastructure/reference"
	"github.com/jhoicas/picking-salida/internal/infrastructure/upload"
	httpRouter "github.com/jhoicas/picking-salida/internal/interfaces/http"
	"github.com/jhoicas/picking-salida/pkg/config"
	"github.com/jhoicas/picking-salida/pkg/logger"
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

	// Tablas de equivalencia: por HTTP si hay URL base, si no desde disco
	var source apppicking.ReferenceSource
	if cfg.Picking.ReferenceBaseURL != "" {
		source = reference.NewHTTPSource(cfg.Picking.ReferenceBaseURL, 30*time.Second).WithMaxBytes(cfg.Picking.ReferenceMaxSize)
	} else {
		source = reference.NewDirSource(cfg.Picking.ReferenceDir).WithMaxBytes(cfg.Picking.ReferenceMaxSize)
	}
	loader := apppicking.NewLoader(source, reference.NewDecoder(), log)
	refs := apppicking.NewReferenceCatalog(loader, cfg.Picking.ReferenceFiles)
	if _, err := refs.Reload(ctx); err != nil {
		log.Warn().Err(err).Msg("tablas de equivalencia no cargadas")
	}

	// Cabecera por estación: PostgreSQL si está habilitado, si no en memoria
	var metaRepo apppicking.MetaRepository = memory.NewSessionMetaRepository()
	if cfg.DB.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		metaRepo = postgres.NewSessionMetaRepository(pool)
	}

	sessions := apppicking.NewSessionManager(apppicking.SessionConfig{
		Idle:     cfg.Picking.Idle,
		MinLen:   cfg.Picking.MinLen,
		MaxScans: cfg.Picking.MaxScans,
		Location: cfg.Picking.Location,
		Catalog: entity.Catalog{
			Responsables: cfg.Picking.Responsables,
			Sucursales:   cfg.Picking.Sucursales,
		},
	}, apppicking.ManagerDeps{
		References: refs,
		Meta:       metaRepo,
		Uploader:   upload.NewAppsScriptUploader(cfg.Upload.URLs, cfg.Upload.Timeout),
		PDF:        infrapdf.NewMarotoPickListGenerator(),
		Logger:     log,
	})
	if len(cfg.Upload.URLs) == 0 {
		log.Warn().Msg("UPLOAD_URLS vacío: la exportación del TXT no tiene destino")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Picking Salida API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		report := refs.Report()
		return c.JSON(fiber.Map{
			"status":     "ok",
			"service":    cfg.App.Name,
			"references": report.Status,
			"codes":      report.Codes,
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:   sessions,
		References: refs,
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
