package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Band - номер порога (1 или 2)
type Band int

const (
	BandFirst  Band = 1
	BandSecond Band = 2
)

// Идентификаторы элементов с подписями порогов
const (
	ElementCutoff1 = "cutoff1"
	ElementCutoff2 = "cutoff2"
)

// ScoreResult - оценка доступности категории для одного порога
type ScoreResult struct {
	Category  string  `json:"category"`
	Band      Band    `json:"band"`
	Cutoff    float64 `json:"cutoff"`
	Score     float64 `json:"score"`
	Reached   int     `json:"reached"`
	Total     int     `json:"total"`
	MeanValue float64 `json:"mean_value"`
}

// ElementID - ключ элемента интерфейса, например "cr1"
func (s ScoreResult) ElementID() string {
	return s.Category + strconv.Itoa(int(s.Band))
}

// Presentation - полностью пересчитанный результат одного цикла обновления
type Presentation struct {
	ID          uuid.UUID         `json:"id"`
	Cycle       uint64            `json:"cycle"`
	Parameters  RequestParameters `json:"parameters"`
	Legend      Legend            `json:"legend"`
	Labels      [2]string         `json:"labels"`
	Scores      []ScoreResult     `json:"scores"`
	CompletedAt time.Time         `json:"completed_at"`
}

// Elements возвращает тексты для адресуемых элементов интерфейса
func (p *Presentation) Elements() map[string]string {
	elements := make(map[string]string, len(p.Scores)+2)
	elements[ElementCutoff1] = p.Labels[0]
	elements[ElementCutoff2] = p.Labels[1]
	for _, s := range p.Scores {
		elements[s.ElementID()] = strconv.FormatFloat(s.Score, 'f', -1, 64)
	}
	return elements
}

// Score ищет результат по категории и порогу
func (p *Presentation) Score(category string, band Band) (ScoreResult, bool) {
	for _, s := range p.Scores {
		if s.Category == category && s.Band == band {
			return s, true
		}
	}
	return ScoreResult{}, false
}
