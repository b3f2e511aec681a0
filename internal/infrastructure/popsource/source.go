package popsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/accessibility-microservice/internal/domain"
	"github.com/accessibility-microservice/internal/domain/repository"
	"github.com/accessibility-microservice/internal/metrics"
)

type source struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewSource создает источник категорий. Source в спецификации категории - http(s) URL
// или путь к локальному файлу.
func NewSource(timeout time.Duration, limiter *rate.Limiter, logger *zap.Logger) repository.PopulationSource {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &source{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		logger:     logger,
	}
}

// Fetch загружает и разбирает категорию
func (s *source) Fetch(ctx context.Context, spec domain.PopulationSpec) (*domain.Population, error) {
	spec = spec.WithDefaults()

	body, err := s.open(ctx, spec.Source)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	r, err := decodingReader(spec.Encoding, body)
	if err != nil {
		return nil, err
	}

	result, err := Parse(spec, r, s.logger)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", spec.Source, err)
	}

	if result.Skipped > 0 {
		metrics.MalformedRowsTotal.WithLabelValues(spec.Key).Add(float64(result.Skipped))
	}

	s.logger.Info("Population parsed",
		zap.String("category", spec.Key),
		zap.Int("items", result.Population.Size()),
		zap.Int("skipped", result.Skipped))

	return result.Population, nil
}

func (s *source) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		f, err := os.Open(strings.TrimPrefix(location, "file://"))
		if err != nil {
			return nil, fmt.Errorf("open population source: %w", err)
		}
		return f, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("population source returned status %d", resp.StatusCode)
	}

	return resp.Body, nil
}
