package seed_test

import (
	"context"
	"testing"

	"github.com/jhoicas/affluo-inventario/internal/application/seed"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/affluo-inventario/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_Idempotente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	s := seed.NewSeeder(items, memory.NewFormRepository(store), memory.NewListRepository(store), logger.Nop())

	first, err := s.Run(ctx, seed.SampleCompanyID)
	require.NoError(t, err)
	assert.Equal(t, &seed.Result{Lists: 1, Items: 5, Forms: 3}, first)

	second, err := s.Run(ctx, seed.SampleCompanyID)
	require.NoError(t, err)
	assert.Equal(t, &seed.Result{}, second)

	lap, err := items.GetByCompanyAndSKU(ctx, seed.SampleCompanyID, "LAP-001")
	require.NoError(t, err)
	require.NotNil(t, lap)
	assert.Equal(t, 45, lap.CurrentStock)
	assert.Equal(t, 10, lap.MinimumStock)
	assert.Equal(t, entity.ItemStatusActive, lap.Status)
	assert.True(t, decimal.RequireFromString("58499.55").Equal(lap.TotalValue))
}
