package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/accessibility-microservice/internal/config"
	"github.com/accessibility-microservice/internal/domain"
	"github.com/accessibility-microservice/internal/domain/repository"
	"github.com/accessibility-microservice/internal/metrics"
	"github.com/accessibility-microservice/internal/pkg/errors"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient создает клиент сервиса анализа (OTP Analyst timegrid)
func NewClient(cfg *config.AnalystConfig, logger *zap.Logger) repository.SurfaceRepository {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: cfg.BaseURL,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// gridResponse - ответ timegrid. null в values - недостижимая ячейка.
type gridResponse struct {
	Rows      int               `json:"rows"`
	Cols      int               `json:"cols"`
	SouthWest domain.Coordinate `json:"southWest"`
	CellSize  domain.Coordinate `json:"cellSize"`
	Values    []*float64        `json:"values"`
}

// Load запрашивает поверхность для снимка параметров. Любая ошибка - ErrSurfaceUnavailable.
func (c *client) Load(ctx context.Context, params domain.RequestParameters) (domain.TravelTimeSurface, error) {
	surface, err := c.load(ctx, params)
	if err != nil {
		metrics.SurfaceRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", errors.ErrSurfaceUnavailable, err)
	}
	metrics.SurfaceRequestsTotal.WithLabelValues("ok").Inc()
	return surface, nil
}

func (c *client) load(ctx context.Context, params domain.RequestParameters) (*domain.GridSurface, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.buildURL(params)

	c.logger.Debug("Calling analyst timegrid",
		zap.String("url", reqURL),
		zap.String("router_id", params.RouterID),
		zap.String("metric", string(params.MetricType)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Analyst API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("analyst API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var grid gridResponse
	if err := json.NewDecoder(resp.Body).Decode(&grid); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	values := make([]float64, len(grid.Values))
	for i, v := range grid.Values {
		if v == nil {
			values[i] = math.NaN()
			continue
		}
		values[i] = *v
	}

	surface, err := domain.NewGridSurface(grid.SouthWest, grid.CellSize.Lat, grid.CellSize.Lon, grid.Rows, grid.Cols, values)
	if err != nil {
		c.logger.Error("Analyst API returned invalid grid", zap.Error(err))
		return nil, fmt.Errorf("invalid grid: %w", err)
	}

	c.logger.Debug("Analyst timegrid call successful",
		zap.Int("rows", surface.Rows),
		zap.Int("cols", surface.Cols),
		zap.Int("reachable_cells", surface.ReachableCells()))

	return surface, nil
}

func (c *client) buildURL(params domain.RequestParameters) string {
	q := url.Values{}
	q.Set("fromPlace", params.Origin.String())
	q.Set("metric", string(params.MetricType))
	if params.MaxWalkDistance > 0 {
		q.Set("maxWalkDistance", strconv.FormatFloat(params.MaxWalkDistance, 'f', -1, 64))
	}
	if params.MaxTimeSec > 0 {
		q.Set("maxTimeSec", strconv.Itoa(params.MaxTimeSec))
	}
	if params.Modes != "" {
		q.Set("mode", params.Modes)
	}
	if params.WalkSpeed > 0 {
		q.Set("walkSpeed", strconv.FormatFloat(params.WalkSpeed, 'f', -1, 64))
	}
	if !params.DepartureTime.IsZero() {
		q.Set("date", params.DepartureTime.Format("2006-01-02"))
		q.Set("time", params.DepartureTime.Format("15:04:05"))
	}

	return fmt.Sprintf("%s/routers/%s/analyst/timegrid?%s",
		c.baseURL,
		url.PathEscape(params.RouterID),
		q.Encode(),
	)
}
