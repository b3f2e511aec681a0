package testhelpers

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TestDB - соединение с тестовой базой истории
type TestDB struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// SetupTestDB подключается к базе из TEST_DB_*. Если база недоступна,
// тест пропускается: интеграционные тесты не должны ронять go test ./...
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5433"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "accessibility_test"),
		getEnv("TEST_DB_SSLMODE", "disable"),
	)

	attempts := getEnvInt("TEST_DB_CONNECT_RETRIES", 3)
	delay := 500 * time.Millisecond

	var (
		db  *sqlx.DB
		err error
	)
	for i := 1; i <= attempts; i++ {
		if db, err = sqlx.Connect("postgres", connStr); err == nil {
			break
		}
		if i < attempts {
			t.Logf("test database not ready (attempt %d/%d), retry in %v", i, attempts, delay)
			time.Sleep(delay)
			delay *= 2
		}
	}
	if err != nil {
		t.Skipf("test database not available after %d attempts: %v", attempts, err)
	}

	var version string
	if err := db.Get(&version, "SHOW server_version"); err == nil {
		t.Logf("PostgreSQL %s", version)
	}

	return &TestDB{
		DB:     db,
		Logger: zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel)),
	}
}

func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		_ = tdb.DB.Close()
	}
}

// Cleanup очищает таблицы истории между тестами
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	_, err := tdb.DB.ExecContext(ctx, "TRUNCATE TABLE refresh_scores, refresh_runs")
	return err
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}
