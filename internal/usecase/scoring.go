package usecase

import (
	"gonum.org/v1/gonum/stat"

	"github.com/accessibility-microservice/internal/domain"
)

// EdgeFunc переводит значение поверхности в вес достижимости [0, 1]
type EdgeFunc func(value float64) float64

// StepEdge - ступенчатая функция: 1 при value <= cutoff (граница включительно), иначе 0
func StepEdge(cutoff float64) EdgeFunc {
	return func(value float64) float64 {
		if value <= cutoff {
			return 1
		}
		return 0
	}
}

// Tally - подсчет достижимых объектов одной категории
type Tally struct {
	Reached       int
	Total         int
	Sum           float64 // сумма значений edge
	ReachedValues []float64
}

// Fraction - средний вес достижимости по категории, 0 для пустой категории
func (t Tally) Fraction() float64 {
	if t.Total == 0 {
		return 0
	}
	return t.Sum / float64(t.Total)
}

// Mean - среднее значение поверхности по достижимым объектам
func (t Tally) Mean() float64 {
	if len(t.ReachedValues) == 0 {
		return 0
	}
	return stat.Mean(t.ReachedValues, nil)
}

// ScoringEngine - чистые вычисления оценок, без состояния
type ScoringEngine struct{}

func NewScoringEngine() *ScoringEngine {
	return &ScoringEngine{}
}

// Evaluate считает объекты, для которых edge срабатывает.
// Недостижимые объекты и объекты вне поверхности не засчитываются.
func (e *ScoringEngine) Evaluate(surface domain.TravelTimeSurface, pop *domain.Population, edge EdgeFunc) Tally {
	tally := Tally{Total: pop.Size()}
	if tally.Total == 0 || surface == nil {
		return tally
	}
	for _, item := range pop.Items {
		v, ok := surface.Value(item.Location)
		if !ok {
			continue
		}
		if w := edge(v); w > 0 {
			tally.Sum += w
			tally.Reached++
			tally.ReachedValues = append(tally.ReachedValues, v)
		}
	}
	return tally
}

// Score возвращает долю достижимых объектов, умноженную на weight
func (e *ScoringEngine) Score(surface domain.TravelTimeSurface, pop *domain.Population, edge EdgeFunc, weight float64) float64 {
	return e.Evaluate(surface, pop, edge).Fraction() * weight
}

// ScorePopulation строит результат для одной категории и одного порога
func (e *ScoringEngine) ScorePopulation(surface domain.TravelTimeSurface, pop *domain.Population, band domain.Band, cutoff, weight float64) domain.ScoreResult {
	edge := StepEdge(cutoff)
	tally := e.Evaluate(surface, pop, edge)
	return domain.ScoreResult{
		Category:  pop.Key,
		Band:      band,
		Cutoff:    cutoff,
		Score:     e.Score(surface, pop, edge, weight),
		Reached:   tally.Reached,
		Total:     tally.Total,
		MeanValue: tally.Mean(),
	}
}
