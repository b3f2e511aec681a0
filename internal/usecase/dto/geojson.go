package dto

import (
	"strconv"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/accessibility-microservice/internal/domain"
)

// PopulationLayer строит слой категории для карты. Для каждого объекта
// добавляется расстояние до точки отправления и, если есть поверхность, значение и цвет.
func PopulationLayer(
	pop *domain.Population,
	origin domain.Coordinate,
	surface domain.TravelTimeSurface,
	legend domain.Legend,
) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, pop.Size()),
	}

	for i, item := range pop.Items {
		props := map[string]interface{}{
			"category":    pop.Key,
			"name":        item.Name,
			"color":       pop.Color,
			"distance_km": origin.DistanceKm(item.Location),
		}
		if surface != nil {
			if v, ok := surface.Value(item.Location); ok {
				props["value"] = v
				props["value_color"] = legend.ColorAt(v)
			} else {
				props["value_color"] = domain.UnreachableColor
			}
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         pop.Key + "-" + strconv.Itoa(i),
			Geometry:   geom.NewPointFlat(geom.XY, []float64{item.Location.Lon, item.Location.Lat}),
			Properties: props,
		})
	}

	return fc
}
