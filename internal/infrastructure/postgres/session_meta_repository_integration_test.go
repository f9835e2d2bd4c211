//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/picking-salida/internal/domain"
	"github.com/jhoicas/picking-salida/internal/domain/entity"
	"github.com/jhoicas/picking-salida/internal/infrastructure/postgres"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// setupTestDB levanta un PostgreSQL compartido (una vez por corrida) y aplica las migraciones.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	once.Do(func() { sharedDSN, initErr = startContainer() })
	if initErr != nil {
		t.Fatalf("setup test DB: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, sharedDSN)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func startContainer() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_DB":       "picking",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("mapped port: %w", err)
	}
	return fmt.Sprintf("postgres://testuser:testpass@%s:%s/picking?sslmode=disable", host, port.Port()), nil
}

func TestSessionMetaRepo_SaveGet(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewSessionMetaRepository(pool)
	ctx := context.Background()

	_, err := repo.Get(ctx, "sin-datos")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	at := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, "puesto-1", entity.SessionMeta{
		Responsable: "JOEL", Origen: "AV2", Destino: "NAZCA", Bultos: "3", Remito: "1234", UpdatedAt: at,
	}))
	require.NoError(t, repo.Save(ctx, "puesto-1", entity.SessionMeta{
		Responsable: "DIEGO", Origen: "AV2", Destino: "QUILMES", UpdatedAt: at.Add(time.Hour),
	}))

	got, err := repo.Get(ctx, "puesto-1")
	require.NoError(t, err)
	assert.Equal(t, "puesto-1", got.Station)
	assert.Equal(t, "DIEGO", got.Responsable)
	assert.Equal(t, "QUILMES", got.Destino)
	assert.Empty(t, got.Bultos)
	assert.True(t, got.UpdatedAt.Equal(at.Add(time.Hour)))
}
