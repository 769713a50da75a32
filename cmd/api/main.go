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
	"github.com/jhoicas/affluo-inventario/internal/application/catalog"
	"github.com/jhoicas/affluo-inventario/internal/application/inventory"
	"github.com/jhoicas/affluo-inventario/internal/application/seed"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
	"github.com/jhoicas/affluo-inventario/internal/infrastructure/excel"
	"github.com/jhoicas/affluo-inventario/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/affluo-inventario/internal/infrastructure/pdf"
	"github.com/jhoicas/affluo-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/affluo-inventario/internal/infrastructure/redislock"
	httpRouter "github.com/jhoicas/affluo-inventario/internal/interfaces/http"
	"github.com/jhoicas/affluo-inventario/pkg/config"
	"github.com/jhoicas/affluo-inventario/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// stores repositorios del driver elegido más su runner transaccional.
type stores struct {
	items       repository.InventoryItemRepository
	movements   repository.InventoryMovementRepository
	submissions repository.FormSubmissionRepository
	forms       repository.FormRepository
	lists       repository.ListRepository
	tx          inventory.TxRunner
	close       func()
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
		Str("store", cfg.Store.Driver).
		Str("lock", cfg.Inventory.LockDriver).
		Bool("atomic", cfg.Inventory.Atomic).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	locker, closeLocker, err := openLocker(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar bloqueo de ítems")
	}
	defer closeLocker()

	engine := inventory.NewProcessAdjustmentUseCase(
		st.tx, st.items, st.submissions, locker, log,
		inventory.WithAtomic(cfg.Inventory.Atomic),
	)
	catalogSvc := catalog.NewService(st.forms, st.lists)
	processor := inventory.NewSubmissionProcessor(
		st.submissions, catalogSvc, inventory.NewExtractor(st.items, log), engine, locker, log,
	)
	reports := inventory.NewReportUseCase(
		st.items, st.movements, excel.NewMovementExporter(), infrapdf.NewMarotoPDFGenerator(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if cfg.App.SwaggerFile != "" {
		if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.App.SwaggerFile,
				Path:     "docs",
				Title:    "Affluo Inventario API",
			}))
		} else {
			log.Warn().Err(err).Str("file", cfg.App.SwaggerFile).Msg("swagger deshabilitado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:    engine,
		Processor: processor,
		Reports:   reports,
		Catalog:   catalogSvc,
		JWTSecret: cfg.JWT.Secret,
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

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		store := memory.NewStore()
		st := &stores{
			items:       memory.NewItemRepository(store),
			movements:   memory.NewMovementRepository(store),
			submissions: memory.NewSubmissionRepository(store),
			forms:       memory.NewFormRepository(store),
			lists:       memory.NewListRepository(store),
			tx:          memory.NewTxRunner(store),
			close:       func() {},
		}
		if cfg.Store.SeedSample {
			if _, err := seed.NewSeeder(st.items, st.forms, st.lists, log).Run(ctx, seed.SampleCompanyID); err != nil {
				return nil, err
			}
		}
		return st, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &stores{
		items:       postgres.NewInventoryItemRepository(pool),
		movements:   postgres.NewInventoryMovementRepository(pool),
		submissions: postgres.NewFormSubmissionRepository(pool),
		forms:       postgres.NewFormRepository(pool),
		lists:       postgres.NewListRepository(pool),
		tx:          postgres.NewTxRunner(pool),
		close:       pool.Close,
	}, nil
}

func openLocker(ctx context.Context, cfg *config.Config, log *logger.Logger) (inventory.ItemLocker, func(), error) {
	if cfg.Inventory.LockDriver != config.LockDriverRedis {
		return inventory.NewKeyedLocker(), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return redislock.New(client, cfg.Inventory.LockTTL, log), func() { _ = client.Close() }, nil
}
