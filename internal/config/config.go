package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/accessibility-microservice/internal/domain"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Cache       CacheConfig
	Log         LogConfig
	Worker      WorkerConfig
	Analyst     AnalystConfig
	Defaults    DefaultsConfig
	Sources     SourcesConfig
	Populations []domain.PopulationSpec
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	PresentationTTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type WorkerConfig struct {
	Enabled         bool
	ConsumerGroup   string
	PollInterval    time.Duration // пауза при пустой очереди
	MaxBatchSize    int
	ShutdownTimeout time.Duration
}

// AnalystConfig - внешний сервис расчета поверхностей (OTP Analyst)
type AnalystConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	RateLimit      float64 // запросов в секунду
	RateBurst      int
}

// SourcesConfig - загрузка CSV источников категорий
type SourcesConfig struct {
	FetchTimeout time.Duration
	RateLimit    float64 // загрузок в секунду, 0 - без ограничения
}

// DefaultsConfig - начальное состояние параметров поездки
type DefaultsConfig struct {
	OriginLat       float64
	OriginLon       float64
	RouterID        string
	MetricType      string
	MaxTimeSec      int
	MaxWalkDistance float64
	Modes           string
	WalkSpeed       float64
}

// Parameters строит начальный снимок параметров
func (d DefaultsConfig) Parameters() domain.RequestParameters {
	return domain.RequestParameters{
		Origin:          domain.Coordinate{Lat: d.OriginLat, Lon: d.OriginLon},
		MetricType:      domain.ParseMetricType(d.MetricType),
		MaxWalkDistance: d.MaxWalkDistance,
		MaxTimeSec:      d.MaxTimeSec,
		RouterID:        d.RouterID,
		Modes:           d.Modes,
		WalkSpeed:       d.WalkSpeed,
	}
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// .env необязателен: переменные окружения и значения по умолчанию достаточны
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("API_HOST"),
			Port:        v.GetInt("API_PORT"),
			Env:         v.GetString("API_ENV"),
			CORSOrigins: v.GetString("API_CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DB_ENABLED"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			PresentationTTL: time.Duration(v.GetInt("PRESENTATION_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Worker: WorkerConfig{
			Enabled:         v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:   v.GetString("WORKER_CONSUMER_GROUP"),
			PollInterval:    time.Duration(v.GetInt("WORKER_POLL_INTERVAL")) * time.Millisecond,
			MaxBatchSize:    v.GetInt("WORKER_MAX_BATCH_SIZE"),
			ShutdownTimeout: time.Duration(v.GetInt("WORKER_SHUTDOWN_TIMEOUT")) * time.Second,
		},
		Analyst: AnalystConfig{
			BaseURL:        strings.TrimRight(v.GetString("ANALYST_BASE_URL"), "/"),
			RequestTimeout: time.Duration(v.GetInt("ANALYST_REQUEST_TIMEOUT")) * time.Second,
			RateLimit:      v.GetFloat64("ANALYST_RATE_LIMIT"),
			RateBurst:      v.GetInt("ANALYST_RATE_BURST"),
		},
		Sources: SourcesConfig{
			FetchTimeout: time.Duration(v.GetInt("POPULATIONS_FETCH_TIMEOUT")) * time.Second,
			RateLimit:    v.GetFloat64("POPULATIONS_RATE_LIMIT"),
		},
		Defaults: DefaultsConfig{
			OriginLat:       v.GetFloat64("DEFAULT_ORIGIN_LAT"),
			OriginLon:       v.GetFloat64("DEFAULT_ORIGIN_LON"),
			RouterID:        v.GetString("DEFAULT_ROUTER_ID"),
			MetricType:      v.GetString("DEFAULT_METRIC_TYPE"),
			MaxTimeSec:      v.GetInt("DEFAULT_MAX_TIME_SEC"),
			MaxWalkDistance: v.GetFloat64("DEFAULT_MAX_WALK_DISTANCE"),
			Modes:           v.GetString("DEFAULT_MODES"),
			WalkSpeed:       v.GetFloat64("DEFAULT_WALK_SPEED"),
		},
	}

	populations, err := loadPopulations(v.GetString("POPULATIONS_FILE"), v.GetString("POPULATIONS_BASE_URL"))
	if err != nil {
		return nil, err
	}
	cfg.Populations = populations

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("API_CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("PRESENTATION_CACHE_TTL", 3600)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("WORKER_CONSUMER_GROUP", "accessibility-refresh-workers")
	v.SetDefault("WORKER_POLL_INTERVAL", 100)
	v.SetDefault("WORKER_MAX_BATCH_SIZE", 10)
	v.SetDefault("WORKER_SHUTDOWN_TIMEOUT", 30)
	v.SetDefault("ANALYST_BASE_URL", "http://localhost:8081/otp")
	v.SetDefault("ANALYST_REQUEST_TIMEOUT", 60)
	v.SetDefault("ANALYST_RATE_LIMIT", 2)
	v.SetDefault("ANALYST_RATE_BURST", 1)
	v.SetDefault("DEFAULT_ORIGIN_LAT", 43.6)
	v.SetDefault("DEFAULT_ORIGIN_LON", 1.4)
	v.SetDefault("DEFAULT_ROUTER_ID", "toulouse")
	v.SetDefault("DEFAULT_METRIC_TYPE", string(domain.MetricTravelTime))
	v.SetDefault("DEFAULT_MAX_TIME_SEC", 3600)
	v.SetDefault("DEFAULT_MAX_WALK_DISTANCE", 1000)
	v.SetDefault("DEFAULT_MODES", "WALK,TRANSIT")
	v.SetDefault("DEFAULT_WALK_SPEED", 1.33)
	v.SetDefault("POPULATIONS_BASE_URL", "./data")
	v.SetDefault("POPULATIONS_FETCH_TIMEOUT", 30)
	v.SetDefault("POPULATIONS_RATE_LIMIT", 4)
}

// loadPopulations читает список категорий из yaml/json файла (ключ "populations").
// Без файла используются категории открытых данных Тулузы.
func loadPopulations(file, baseURL string) ([]domain.PopulationSpec, error) {
	if file == "" {
		return DefaultPopulations(baseURL), nil
	}

	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read populations file: %w", err)
	}

	var specs []domain.PopulationSpec
	if err := v.UnmarshalKey("populations", &specs); err != nil {
		return nil, fmt.Errorf("failed to parse populations file: %w", err)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("populations file %s defines no populations", file)
	}

	seen := make(map[string]bool, len(specs))
	for i, s := range specs {
		if s.Key == "" || s.Source == "" {
			return nil, fmt.Errorf("population #%d: key and source are required", i)
		}
		if seen[s.Key] {
			return nil, fmt.Errorf("population %q declared twice", s.Key)
		}
		seen[s.Key] = true
		specs[i] = s.WithDefaults()
	}
	return specs, nil
}

// DefaultPopulations - семь категорий исходной демонстрации
func DefaultPopulations(baseURL string) []domain.PopulationSpec {
	base := strings.TrimRight(baseURL, "/")
	specs := []domain.PopulationSpec{
		{Key: "cr", Name: "Crèches", Color: "#FC0", Source: "Creches.csv", NameColumn: "NOM"},
		{Key: "em", Name: "Écoles maternelles", Color: "#F80", Source: "Ecoles_Mat_Publiques.csv", NameColumn: "Ecole"},
		{Key: "ee", Name: "Écoles élémentaires", Color: "#F00", Source: "Ecoles_Elem_Publiques.csv", NameColumn: "Ecole"},
		{Key: "bi", Name: "Bibliothèques", Color: "#0C0", Source: "Bibliotheques.csv", NameColumn: "Nom"},
		{Key: "ci", Name: "Cinémas", Color: "#0CC", Source: "Cinema.csv", NameColumn: "EQ_NOM_EQUIPEMENT"},
		{Key: "ec", Name: "Équipements Culturels", Color: "#08C", Source: "Equipement_culturel.csv", NameColumn: "NOM"},
		{Key: "pi", Name: "Piscines", Color: "#00C", Source: "Piscines.csv", NameColumn: "nom_complet"},
	}
	for i := range specs {
		if base != "" {
			specs[i].Source = base + "/" + specs[i].Source
		}
		specs[i] = specs[i].WithDefaults()
	}
	return specs
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
