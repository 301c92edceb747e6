//go:build integration

package repository

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		log.Fatal("TEST_DATABASE_URL environment variable is not set for repository integration tests")
	}

	var err error
	testDB, err = pgxpool.New(context.Background(), dbURL)
	if err != nil {
		log.Fatalf("Unable to create connection pool: %v\n", err)
	}
	defer testDB.Close()

	if err := testDB.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping test database: %v\n", err)
	}

	os.Exit(m.Run())
}

func insertSubscription(t *testing.T, ctx context.Context, roleID uuid.UUID) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := time.Now()
	_, err := testDB.Exec(ctx, `
		INSERT INTO subscription (id, role_id, name, description, amount, currency, period, actual, created, modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, $8, $8)
	`, id, roleID, "integration plan", "", 500.0, "RUB", 30, now)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = testDB.Exec(context.Background(), `DELETE FROM subscription WHERE id = $1`, id)
	})
	return id
}

func TestDeactivateByRoleIDIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresSubscriptionRepository(testDB, logger.New(logger.ERROR))

	roleID := uuid.New()
	subscriptionID := insertSubscription(t, ctx, roleID)

	require.NoError(t, repo.DeactivateByRoleID(ctx, roleID))

	subscription, err := repo.GetByID(ctx, subscriptionID)
	require.NoError(t, err)
	require.False(t, subscription.Actual)

	// Повторный проход по уже деактивированной роли проходит без ошибки
	require.NoError(t, repo.DeactivateByRoleID(ctx, roleID))

	// Роль без единого тарифного плана тоже не считается ошибкой
	require.NoError(t, repo.DeactivateByRoleID(ctx, uuid.New()))
}
