package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/accessibility-microservice/internal/config"
)

const (
	connectAttempts = 3
	connectBackoff  = time.Second
	pingTimeout     = 5 * time.Second
)

// DB - пул соединений с базой истории обновлений
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// New открывает пул через драйвер pgx. База может подниматься вместе с сервисом,
// поэтому ping повторяется несколько раз с растущей паузой.
func New(cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	db, err := sqlx.Open("pgx", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	backoff := connectBackoff
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		err = db.PingContext(ctx)
		cancel()
		if err == nil {
			break
		}
		if attempt == connectAttempts {
			_ = db.Close()
			return nil, fmt.Errorf("ping database after %d attempts: %w", attempt, err)
		}
		logger.Warn("PostgreSQL not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		time.Sleep(backoff)
		backoff *= 2
	}

	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DBName))

	return &DB{DB: db, logger: logger}, nil
}

func dsn(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
}

func (db *DB) Close() error {
	db.logger.Info("Closing PostgreSQL connection")
	return db.DB.Close()
}

// Health проверяет соединение и пишет состояние пула в debug-лог
func (db *DB) Health(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	stats := db.Stats()
	db.logger.Debug("PostgreSQL pool",
		zap.Int("open", stats.OpenConnections),
		zap.Int("in_use", stats.InUse),
		zap.Int64("wait_count", stats.WaitCount))
	return nil
}

// InTx выполняет fn в транзакции: commit при nil, иначе rollback
func (db *DB) InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// NewDBForTest оборачивает уже открытое соединение тестовой базы
func NewDBForTest(sqlxDB *sqlx.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{DB: sqlxDB, logger: logger}
}
