// seed aplica el esquema de PostgreSQL y carga los datos de ejemplo de inventario
// (lista de productos, ítems y formularios). Es idempotente.
//
// Uso: go run ./cmd/seed [company_id]
// Por defecto usa la empresa de ejemplo "company1".
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/affluo-inventario/internal/application/seed"
	"github.com/jhoicas/affluo-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/affluo-inventario/pkg/config"
	"github.com/jhoicas/affluo-inventario/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	companyID := seed.SampleCompanyID
	if len(os.Args) > 1 {
		companyID = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	seeder := seed.NewSeeder(
		postgres.NewInventoryItemRepository(pool),
		postgres.NewFormRepository(pool),
		postgres.NewListRepository(pool),
		log,
	)
	if _, err := seeder.Run(ctx, companyID); err != nil {
		log.Fatal().Err(err).Msg("cargar datos de ejemplo")
	}
}
