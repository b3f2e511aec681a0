package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/accessibility-microservice/internal/domain"
	"github.com/accessibility-microservice/internal/domain/repository"
)

const (
	// DefaultHistoryLimit - лимит по умолчанию для истории
	DefaultHistoryLimit = 20
	// MaxHistoryLimit - максимальный лимит для истории
	MaxHistoryLimit = 100
)

type historyRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewHistoryRepository создает репозиторий истории циклов обновления
func NewHistoryRepository(db *DB, logger *zap.Logger) repository.HistoryRepository {
	return &historyRepository{
		db:     db,
		logger: logger,
	}
}

type runRow struct {
	ID          uuid.UUID `db:"id"`
	Cycle       int64     `db:"cycle"`
	Parameters  []byte    `db:"parameters"`
	LegendMax   float64   `db:"legend_max"`
	MetricType  string    `db:"metric_type"`
	Label1      string    `db:"label1"`
	Label2      string    `db:"label2"`
	CompletedAt time.Time `db:"completed_at"`
}

type scoreRow struct {
	RunID     uuid.UUID `db:"run_id"`
	Category  string    `db:"category"`
	Band      int       `db:"band"`
	Cutoff    float64   `db:"cutoff"`
	Score     float64   `db:"score"`
	Reached   int       `db:"reached"`
	Total     int       `db:"total"`
	MeanValue float64   `db:"mean_value"`
}

// SavePresentation сохраняет результат цикла и его оценки в одной транзакции.
// Повторное сохранение того же ID ничего не меняет.
func (r *historyRepository) SavePresentation(ctx context.Context, p *domain.Presentation) error {
	if p == nil {
		return nil
	}

	params, err := json.Marshal(p.Parameters)
	if err != nil {
		return fmt.Errorf("marshal parameters: %w", err)
	}

	stored := false
	err = r.db.InTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO refresh_runs (id, cycle, parameters, legend_max, metric_type, label1, label2, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING`,
			p.ID, int64(p.Cycle), params, p.Legend.Max, string(p.Legend.MetricType),
			p.Labels[0], p.Labels[1], p.CompletedAt,
		)
		if err != nil {
			return fmt.Errorf("insert refresh run: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}

		for _, s := range p.Scores {
			_, err := tx.NamedExecContext(ctx, `
				INSERT INTO refresh_scores (run_id, category, band, cutoff, score, reached, total, mean_value)
				VALUES (:run_id, :category, :band, :cutoff, :score, :reached, :total, :mean_value)`,
				scoreRow{
					RunID:     p.ID,
					Category:  s.Category,
					Band:      int(s.Band),
					Cutoff:    s.Cutoff,
					Score:     s.Score,
					Reached:   s.Reached,
					Total:     s.Total,
					MeanValue: s.MeanValue,
				},
			)
			if err != nil {
				return fmt.Errorf("insert score %s: %w", s.ElementID(), err)
			}
		}
		stored = true
		return nil
	})
	if err != nil {
		return err
	}
	if !stored {
		r.logger.Debug("presentation already stored", zap.String("id", p.ID.String()))
		return nil
	}

	r.logger.Debug("presentation stored",
		zap.String("id", p.ID.String()),
		zap.Uint64("cycle", p.Cycle),
		zap.Int("scores", len(p.Scores)),
	)
	return nil
}

// ListRecent возвращает последние результаты, новые первыми
func (r *historyRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Presentation, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	var runs []runRow
	err := r.db.SelectContext(ctx, &runs, `
		SELECT id, cycle, parameters, legend_max, metric_type, label1, label2, completed_at
		FROM refresh_runs
		ORDER BY completed_at DESC, cycle DESC
		LIMIT $1`, limit)
	if err != nil {
		r.logger.Error("failed to list refresh runs", zap.Error(err))
		return nil, fmt.Errorf("select refresh runs: %w", err)
	}
	if len(runs) == 0 {
		return []*domain.Presentation{}, nil
	}

	ids := make([]uuid.UUID, len(runs))
	for i, run := range runs {
		ids[i] = run.ID
	}

	query, args, err := sqlx.In(`
		SELECT run_id, category, band, cutoff, score, reached, total, mean_value
		FROM refresh_scores
		WHERE run_id IN (?)
		ORDER BY category, band`, ids)
	if err != nil {
		return nil, fmt.Errorf("build scores query: %w", err)
	}

	var scores []scoreRow
	if err := r.db.SelectContext(ctx, &scores, r.db.Rebind(query), args...); err != nil {
		r.logger.Error("failed to list refresh scores", zap.Error(err))
		return nil, fmt.Errorf("select refresh scores: %w", err)
	}

	byRun := make(map[uuid.UUID][]domain.ScoreResult, len(runs))
	for _, s := range scores {
		byRun[s.RunID] = append(byRun[s.RunID], domain.ScoreResult{
			Category:  s.Category,
			Band:      domain.Band(s.Band),
			Cutoff:    s.Cutoff,
			Score:     s.Score,
			Reached:   s.Reached,
			Total:     s.Total,
			MeanValue: s.MeanValue,
		})
	}

	result := make([]*domain.Presentation, 0, len(runs))
	for _, run := range runs {
		p := &domain.Presentation{
			ID:          run.ID,
			Cycle:       uint64(run.Cycle),
			Legend:      domain.Legend{Max: run.LegendMax, MetricType: domain.MetricType(run.MetricType)},
			Labels:      [2]string{run.Label1, run.Label2},
			Scores:      byRun[run.ID],
			CompletedAt: run.CompletedAt.UTC(),
		}
		if err := json.Unmarshal(run.Parameters, &p.Parameters); err != nil {
			return nil, fmt.Errorf("decode parameters of run %s: %w", run.ID, err)
		}
		if p.Scores == nil {
			p.Scores = []domain.ScoreResult{}
		}
		result = append(result, p)
	}

	return result, nil
}
