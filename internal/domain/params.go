package domain

import "time"

// RequestParameters - снимок параметров поездки на один цикл обновления
type RequestParameters struct {
	Origin          Coordinate `json:"origin"`
	MetricType      MetricType `json:"metric_type"`
	MaxWalkDistance float64    `json:"max_walk_distance"` // meters
	MaxTimeSec      int        `json:"max_time_sec"`
	RouterID        string     `json:"router_id"`
	Modes           string     `json:"modes"`
	WalkSpeed       float64    `json:"walk_speed"` // m/s
	DepartureTime   time.Time  `json:"departure_time,omitempty"`
}

// ParametersPatch - частичное изменение параметров. Нулевые поля не применяются.
type ParametersPatch struct {
	Origin          *Coordinate `json:"origin,omitempty"`
	MetricType      string      `json:"metric_type,omitempty"`
	MaxWalkDistance float64     `json:"max_walk_distance,omitempty"`
	MaxTimeSec      int         `json:"max_time_sec,omitempty"`
	RouterID        string      `json:"router_id,omitempty"`
	Modes           string      `json:"modes,omitempty"`
	WalkSpeed       float64     `json:"walk_speed,omitempty"`
	DepartureTime   *time.Time  `json:"departure_time,omitempty"`
}

// Apply возвращает копию параметров с примененным патчем
func (p ParametersPatch) Apply(base RequestParameters) RequestParameters {
	if p.Origin != nil {
		base.Origin = *p.Origin
	}
	if p.MetricType != "" {
		base.MetricType = ParseMetricType(p.MetricType)
	}
	if p.MaxWalkDistance > 0 {
		base.MaxWalkDistance = p.MaxWalkDistance
	}
	if p.MaxTimeSec > 0 {
		base.MaxTimeSec = p.MaxTimeSec
	}
	if p.RouterID != "" {
		base.RouterID = p.RouterID
	}
	if p.Modes != "" {
		base.Modes = p.Modes
	}
	if p.WalkSpeed > 0 {
		base.WalkSpeed = p.WalkSpeed
	}
	if p.DepartureTime != nil {
		base.DepartureTime = *p.DepartureTime
	}
	return base
}
