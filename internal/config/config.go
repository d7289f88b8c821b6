package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"mon-panier-local/pkg/logger"
)

type Config struct {
	HTTPPort string
	Env      string
	CORS     CORSConfig
	DB       DBConfig
	Redis    RedisConfig
	Cache    CacheConfig
	JWT      JWTConfig
	Nearby   NearbyConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL     string
	Timeout time.Duration
}

// CacheConfig holds the per-view TTLs. The lookup-table TTL is long because
// product categories only change with a deployment.
type CacheConfig struct {
	ListTTL       time.Duration
	NearbyTTL     time.Duration
	DetailTTL     time.Duration
	CategoriesTTL time.Duration
}

type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type NearbyConfig struct {
	DefaultRadiusKm float64
	MaxRadiusKm     float64
}

func Load(log logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return Config{}, err
		}
	} else {
		log.Info("config: .env loaded")
	}

	return Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		CORS: CORSConfig{
			AllowedOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		},
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "mon_panier_local"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:     getEnv("REDIS_URL", ""),
			Timeout: getEnvDuration("REDIS_TIMEOUT", 5*time.Second),
		},
		Cache: CacheConfig{
			ListTTL:       getEnvDuration("CACHE_LIST_TTL", 5*time.Minute),
			NearbyTTL:     getEnvDuration("CACHE_NEARBY_TTL", 5*time.Minute),
			DetailTTL:     getEnvDuration("CACHE_DETAIL_TTL", 10*time.Minute),
			CategoriesTTL: getEnvDuration("CACHE_CATEGORIES_TTL", time.Hour),
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", ""),
			TokenTTL: getEnvDuration("JWT_TOKEN_TTL", 24*time.Hour),
		},
		Nearby: NearbyConfig{
			DefaultRadiusKm: getEnvFloat("NEARBY_DEFAULT_RADIUS_KM", 50),
			MaxRadiusKm:     getEnvFloat("NEARBY_MAX_RADIUS_KM", 1000),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
