package dto

import (
	"time"

	"github.com/accessibility-microservice/internal/domain"
)

// Point - координаты точки
type Point struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

// ParametersRequest - частичное изменение параметров поездки. Пустые поля не меняются.
type ParametersRequest struct {
	Origin          *Point     `json:"origin,omitempty" validate:"omitempty"`
	MetricType      string     `json:"metric_type,omitempty" validate:"metric_type"`
	MaxWalkDistance float64    `json:"max_walk_distance,omitempty" validate:"omitempty,min=0,max=50000"` // meters
	MaxTimeSec      int        `json:"max_time_sec,omitempty" validate:"omitempty,min=60,max=14400"`
	RouterID        string     `json:"router_id,omitempty" validate:"omitempty,max=64"`
	Modes           string     `json:"modes,omitempty" validate:"omitempty,max=128"`
	WalkSpeed       float64    `json:"walk_speed,omitempty" validate:"omitempty,gt=0,max=10"` // m/s
	DepartureTime   *time.Time `json:"departure_time,omitempty"`
}

// RefreshRequest - запрос на обновление, параметры необязательны
type RefreshRequest = ParametersRequest

// ToPatch переводит запрос в патч параметров
func (r ParametersRequest) ToPatch() domain.ParametersPatch {
	patch := domain.ParametersPatch{
		MetricType:      r.MetricType,
		MaxWalkDistance: r.MaxWalkDistance,
		MaxTimeSec:      r.MaxTimeSec,
		RouterID:        r.RouterID,
		Modes:           r.Modes,
		WalkSpeed:       r.WalkSpeed,
		DepartureTime:   r.DepartureTime,
	}
	if r.Origin != nil {
		patch.Origin = &domain.Coordinate{Lat: r.Origin.Lat, Lon: r.Origin.Lon}
	}
	return patch
}

// IsEmpty - true, если запрос ничего не меняет
func (r ParametersRequest) IsEmpty() bool {
	return r.Origin == nil && r.MetricType == "" && r.MaxWalkDistance == 0 && r.MaxTimeSec == 0 &&
		r.RouterID == "" && r.Modes == "" && r.WalkSpeed == 0 && r.DepartureTime == nil
}

// HistoryRequest - параметры выборки истории
type HistoryRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}
