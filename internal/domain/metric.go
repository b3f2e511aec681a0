package domain

import (
	"fmt"
	"math"
	"strings"
)

// MetricType определяет, какую величину содержит поверхность
type MetricType string

const (
	MetricBoardings    MetricType = "BOARDINGS"
	MetricWalkDistance MetricType = "WALK_DISTANCE"
	MetricTravelTime   MetricType = "TRAVEL_TIME"
)

// ParseMetricType разбирает строку без учета регистра.
// Неизвестные значения трактуются как TRAVEL_TIME.
func ParseMetricType(s string) MetricType {
	switch MetricType(strings.ToUpper(strings.TrimSpace(s))) {
	case MetricBoardings:
		return MetricBoardings
	case MetricWalkDistance:
		return MetricWalkDistance
	default:
		return MetricTravelTime
	}
}

// MetricPolicy - пороги, подписи и максимум шкалы для одного обновления
type MetricPolicy struct {
	Cutoffs  [2]float64 `json:"cutoffs"`
	Labels   [2]string  `json:"labels"`
	ScaleMax float64    `json:"scale_max"`
}

// PolicyFor выбирает политику по типу метрики. Вызывается один раз на цикл обновления.
func PolicyFor(p RequestParameters) MetricPolicy {
	switch p.MetricType {
	case MetricBoardings:
		return MetricPolicy{
			Cutoffs:  [2]float64{1.5, 2.5},
			Labels:   [2]string{"<1 c.", "<2 c."},
			ScaleMax: 5,
		}
	case MetricWalkDistance:
		return MetricPolicy{
			Cutoffs:  [2]float64{400, 800},
			Labels:   [2]string{"<400m", "<800m"},
			ScaleMax: p.MaxWalkDistance * 1.2,
		}
	default:
		return MetricPolicy{
			Cutoffs:  [2]float64{1800, 3600},
			Labels:   [2]string{"<30mn", "<1h"},
			ScaleMax: float64(p.MaxTimeSec),
		}
	}
}

// Legend - данные для отрисовки легенды и градиента
type Legend struct {
	Max        float64    `json:"max"`
	MetricType MetricType `json:"metric_type"`
}

// UnreachableColor - цвет для недостижимых ячеек и значений выше максимума
const UnreachableColor = "#808080"

// ColorAt возвращает цвет градиента (зеленый -> желтый -> красный) для значения
func (l Legend) ColorAt(v float64) string {
	if math.IsNaN(v) || v < 0 || l.Max <= 0 || v > l.Max {
		return UnreachableColor
	}
	t := v / l.Max
	var r, g float64
	if t < 0.5 {
		r, g = 2*t, 1
	} else {
		r, g = 1, 2*(1-t)
	}
	return fmt.Sprintf("#%02X%02X00", int(math.Round(r*255)), int(math.Round(g*255)))
}

// LegendStop - одна ступень легенды
type LegendStop struct {
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Stops разбивает шкалу на n равных ступеней (n+1 точка)
func (l Legend) Stops(n int) []LegendStop {
	if n <= 0 {
		return nil
	}
	stops := make([]LegendStop, 0, n+1)
	for i := 0; i <= n; i++ {
		v := l.Max * float64(i) / float64(n)
		stops = append(stops, LegendStop{Value: v, Color: l.ColorAt(v)})
	}
	return stops
}
