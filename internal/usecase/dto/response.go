package dto

import (
	"time"

	"github.com/accessibility-microservice/internal/domain"
)

// StateResponse - состояние контроллера обновления
type StateResponse struct {
	State          domain.RefreshState `json:"state"`
	RefreshEnabled bool                `json:"refresh_enabled"`
	Cycle          uint64              `json:"cycle"`
	LastError      string              `json:"last_error,omitempty"`
	LastErrorAt    *time.Time          `json:"last_error_at,omitempty"`
}

// ScoresResponse - последний результат обновления и тексты элементов интерфейса
type ScoresResponse struct {
	Presentation *domain.Presentation `json:"presentation"`
	Elements     map[string]string    `json:"elements"`
	Source       string               `json:"source"` // memory | cache
}

// LegendResponse - данные для легенды и градиента
type LegendResponse struct {
	Max        float64             `json:"max"`
	MetricType domain.MetricType   `json:"metric_type"`
	Labels     [2]string           `json:"labels"`
	Stops      []domain.LegendStop `json:"stops"`
}

// PopulationsResponse - состояние загрузки категорий
type PopulationsResponse struct {
	Populations []domain.PopulationStatus `json:"populations"`
}

// HistoryResponse - последние результаты из истории
type HistoryResponse struct {
	Presentations []*domain.Presentation `json:"presentations"`
}

// NewScoresResponse собирает ответ из результата
func NewScoresResponse(p *domain.Presentation, source string) *ScoresResponse {
	return &ScoresResponse{
		Presentation: p,
		Elements:     p.Elements(),
		Source:       source,
	}
}

// NewLegendResponse - легенда из n ступеней
func NewLegendResponse(p *domain.Presentation, n int) *LegendResponse {
	return &LegendResponse{
		Max:        p.Legend.Max,
		MetricType: p.Legend.MetricType,
		Labels:     p.Labels,
		Stops:      p.Legend.Stops(n),
	}
}
