package domain

// Значения по умолчанию для источников населения (открытые данные Тулузы)
const (
	DefaultLonColumn = "X_WGS84"
	DefaultLatColumn = "Y_WGS84"
	DefaultDelimiter = ";"
	DefaultEncoding  = "utf-8"
)

// PopulationSpec описывает, откуда и как загрузить категорию объектов
type PopulationSpec struct {
	Key        string `json:"key" mapstructure:"key"`
	Name       string `json:"name" mapstructure:"name"`
	Color      string `json:"color" mapstructure:"color"`
	Source     string `json:"source" mapstructure:"source"`
	LonColumn  string `json:"lon_column" mapstructure:"lon_column"`
	LatColumn  string `json:"lat_column" mapstructure:"lat_column"`
	NameColumn string `json:"name_column" mapstructure:"name_column"`
	Delimiter  string `json:"delimiter" mapstructure:"delimiter"`
	Encoding   string `json:"encoding" mapstructure:"encoding"`
}

// WithDefaults заполняет незаданные колонки, разделитель и кодировку
func (s PopulationSpec) WithDefaults() PopulationSpec {
	if s.LonColumn == "" {
		s.LonColumn = DefaultLonColumn
	}
	if s.LatColumn == "" {
		s.LatColumn = DefaultLatColumn
	}
	if s.Delimiter == "" {
		s.Delimiter = DefaultDelimiter
	}
	if s.Encoding == "" {
		s.Encoding = DefaultEncoding
	}
	return s
}

// PopulationItem - один объект категории (ясли, школа, бассейн...)
type PopulationItem struct {
	Location Coordinate `json:"location"`
	Name     string     `json:"name"`
}

// Population - загруженная категория объектов. После загрузки не изменяется.
type Population struct {
	Key   string           `json:"key"`
	Name  string           `json:"name"`
	Color string           `json:"color"`
	Items []PopulationItem `json:"items"`
}

// Size возвращает количество объектов
func (p *Population) Size() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

// PopulationLoadState - состояние загрузки категории
type PopulationLoadState string

const (
	PopulationPending PopulationLoadState = "pending"
	PopulationLoaded  PopulationLoadState = "loaded"
	PopulationFailed  PopulationLoadState = "failed"
)

// PopulationStatus - сводка по категории для API
type PopulationStatus struct {
	Key   string              `json:"key"`
	Name  string              `json:"name"`
	Color string              `json:"color"`
	State PopulationLoadState `json:"state"`
	Size  int                 `json:"size"`
	Error string              `json:"error,omitempty"`
}
