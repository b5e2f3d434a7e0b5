// Tests use testcontainers-go to spin up a PostgreSQL container.
package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"discord-game-bot/internal/model"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupTestDB creates a PostgreSQL container and returns a migrated pool.
// Skips the test if Docker is not available.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	// Migrations are idempotent.
	require.NoError(t, Migrate(ctx, pool))

	return pool
}

func newResult(gameName string, winner *string, players ...string) *model.GameResult {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.GameResult{
		SessionID:  uuid.New(),
		Game:       gameName,
		ChannelID:  "chan",
		WinnerID:   winner,
		Players:    players,
		StartedAt:  now.Add(-time.Minute),
		FinishedAt: now,
	}
}

func ptr(s string) *string { return &s }

func TestResultRepository_CreateAndGet(t *testing.T) {
	repo := NewResultRepository(setupTestDB(t))
	ctx := context.Background()

	res := newResult("Checkers", ptr("1"), "1", "2")
	require.NoError(t, repo.Create(ctx, res))
	assert.NotEqual(t, uuid.Nil, res.ID)

	got, err := repo.GetBySession(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)
	assert.Equal(t, "Checkers", got.Game)
	assert.Equal(t, []string{"1", "2"}, got.Players)
	require.NotNil(t, got.WinnerID)
	assert.Equal(t, "1", *got.WinnerID)
	assert.True(t, got.FinishedAt.Equal(res.FinishedAt))
}

func TestResultRepository_NullWinner(t *testing.T) {
	repo := NewResultRepository(setupTestDB(t))
	ctx := context.Background()

	res := newResult("Tic Tac Toe", nil, "1", "2")
	require.NoError(t, repo.Create(ctx, res))

	got, err := repo.GetBySession(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got.WinnerID)
}

func TestResultRepository_NotFound(t *testing.T) {
	repo := NewResultRepository(setupTestDB(t))

	_, err := repo.GetBySession(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestResultRepository_Duplicate(t *testing.T) {
	repo := NewResultRepository(setupTestDB(t))
	ctx := context.Background()

	res := newResult("Hangman", ptr("1"), "1")
	require.NoError(t, repo.Create(ctx, res))

	again := *res
	again.ID = uuid.Nil
	assert.ErrorIs(t, repo.Create(ctx, &again), ErrResultDuplicate)
}

func TestResultRepository_StatsForUser(t *testing.T) {
	repo := NewResultRepository(setupTestDB(t))
	ctx := context.Background()

	for _, res := range []*model.GameResult{
		newResult("Checkers", ptr("1"), "1", "2"),
		newResult("Checkers", ptr("2"), "1", "2"),
		newResult("Checkers", ptr("3"), "3", "4"),
		newResult("Hangman", ptr("1"), "1"),
		newResult("Hangman", nil, "1"),
		newResult("Mastermind", nil, "2"),
	} {
		require.NoError(t, repo.Create(ctx, res))
	}

	stats, err := repo.StatsForUser(ctx, "1")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, model.GameStats{Game: "Checkers", Played: 2, Won: 1}, *stats[0])
	assert.Equal(t, model.GameStats{Game: "Hangman", Played: 2, Won: 1}, *stats[1])

	stats, err = repo.StatsForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, stats)
}
