package domain

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// Coordinate - географическая точка WGS84
type Coordinate struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// Valid проверяет диапазоны широты и долготы
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// String возвращает координату в формате "lat,lon", который ожидает сервис анализа
func (c Coordinate) String() string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lon)
}

// DistanceKm - расстояние по большому кругу (гаверсинус)
func (c Coordinate) DistanceKm(to Coordinate) float64 {
	const rad = math.Pi / 180
	dLat := (to.Lat - c.Lat) * rad
	dLon := (to.Lon - c.Lon) * rad

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(c.Lat*rad)*math.Cos(to.Lat*rad)*math.Pow(math.Sin(dLon/2), 2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// BoundingBox - прямоугольная область
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains проверяет, попадает ли точка в область (границы включительно)
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}
