package postgres

import (
	"testing"
	"time"

	"github.com/jhoicas/affluo-inventario/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig_TamañoDesdeConfig(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db.interno", Port: 5433, User: "inv", Password: "p@ss", DBName: "affluo", SSLMode: "disable",
		MaxConns: 7, MinConns: 2, ConnectTimeout: 3 * time.Second,
	}
	pc, err := PoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(7), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, 3*time.Second, pc.ConnConfig.ConnectTimeout)
	assert.Equal(t, "db.interno", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, "p@ss", pc.ConnConfig.Password)
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfig_DatabaseURLYMinimoAcotado(t *testing.T) {
	cfg := config.DBConfig{
		DatabaseURL: "postgres://u:p@pg.example.com:6543/app?sslmode=require",
		Host:        "ignorado",
		MaxConns:    3,
		MinConns:    10,
	}
	pc, err := PoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "pg.example.com", pc.ConnConfig.Host)
	assert.Equal(t, int32(3), pc.MaxConns)
	assert.Equal(t, int32(0), pc.MinConns)
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	_, err := PoolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@host:notaport/db"})
	assert.Error(t, err)
}
