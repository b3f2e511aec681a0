package domain

import (
	"fmt"
	"math"
)

// TravelTimeSurface - поверхность времени/расстояния/пересадок для одного набора параметров.
// Value возвращает false для недостижимых точек и точек вне поверхности.
type TravelTimeSurface interface {
	Value(c Coordinate) (float64, bool)
}

// GridSurface - регулярная сетка значений. Значения хранятся построчно с юга на север,
// в строке с запада на восток. NaN означает недостижимую ячейку.
type GridSurface struct {
	SouthWest   Coordinate
	CellSizeLat float64
	CellSizeLon float64
	Rows        int
	Cols        int
	Values      []float64
}

// NewGridSurface проверяет размеры сетки
func NewGridSurface(sw Coordinate, cellLat, cellLon float64, rows, cols int, values []float64) (*GridSurface, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid size %dx%d", rows, cols)
	}
	if cellLat <= 0 || cellLon <= 0 {
		return nil, fmt.Errorf("invalid cell size %fx%f", cellLat, cellLon)
	}
	if len(values) != rows*cols {
		return nil, fmt.Errorf("grid has %d values, expected %d", len(values), rows*cols)
	}
	return &GridSurface{
		SouthWest:   sw,
		CellSizeLat: cellLat,
		CellSizeLon: cellLon,
		Rows:        rows,
		Cols:        cols,
		Values:      values,
	}, nil
}

// Value ищет ячейку, содержащую точку. Сетка замкнута: точка на северной или
// восточной границе относится к крайней ячейке.
func (g *GridSurface) Value(c Coordinate) (float64, bool) {
	if !g.Bounds().Contains(c) {
		return 0, false
	}
	row := min(int(math.Floor((c.Lat-g.SouthWest.Lat)/g.CellSizeLat)), g.Rows-1)
	col := min(int(math.Floor((c.Lon-g.SouthWest.Lon)/g.CellSizeLon)), g.Cols-1)
	v := g.Values[row*g.Cols+col]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Bounds возвращает охват сетки
func (g *GridSurface) Bounds() BoundingBox {
	return BoundingBox{
		MinLat: g.SouthWest.Lat,
		MinLon: g.SouthWest.Lon,
		MaxLat: g.SouthWest.Lat + float64(g.Rows)*g.CellSizeLat,
		MaxLon: g.SouthWest.Lon + float64(g.Cols)*g.CellSizeLon,
	}
}

// ReachableCells считает достижимые ячейки
func (g *GridSurface) ReachableCells() int {
	n := 0
	for _, v := range g.Values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}
