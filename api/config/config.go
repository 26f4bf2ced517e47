package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/LeoJim2/cool-travel-app-voyageur/api/models"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration
type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Redis   RedisConfig
	PinsAPI PinsAPIConfig
	Map     MapConfig
	Session SessionConfig
	Limit   RateLimitConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type StoreConfig struct {
	Kind          string
	DSN           string
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	CacheTTL time.Duration
}

type PinsAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type MapConfig struct {
	AccessToken string
	Style       string
	Initial     models.Viewport
}

type SessionConfig struct {
	CurrentUser string
	Secret      string
	Idle        time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// LoadConfig loads configuration from environment variables and an optional .env file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("PINS_STORE", StoreMemory)
	v.SetDefault("MONGODB_DATABASE", "voyageur")
	v.SetDefault("MONGODB_TIMEOUT", "10s")
	v.SetDefault("PINS_CACHE_TTL", "30s")
	v.SetDefault("PINS_API_TIMEOUT", "10s")
	v.SetDefault("MAP_STYLE", "mapbox://styles/mapbox/light-v9")
	v.SetDefault("MAP_LONGITUDE", -39.462891)
	v.SetDefault("MAP_LATITUDE", 35.746512)
	v.SetDefault("MAP_ZOOM", 3)
	v.SetDefault("CURRENT_USER", "Marcus")
	v.SetDefault("SESSION_IDLE", "30m")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	port := v.GetString("SERVER_PORT")
	baseURL := v.GetString("PINS_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}
	token := v.GetString("MAPBOX_TOKEN")
	if token == "" {
		token = v.GetString("REACT_APP_MAPBOX")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Kind:          strings.ToLower(v.GetString("PINS_STORE")),
			DSN:           v.GetString("DB_SOURCE"),
			MongoURI:      v.GetString("MONGODB_URI"),
			MongoDatabase: v.GetString("MONGODB_DATABASE"),
			MongoTimeout:  v.GetDuration("MONGODB_TIMEOUT"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			CacheTTL: v.GetDuration("PINS_CACHE_TTL"),
		},
		PinsAPI: PinsAPIConfig{
			BaseURL: strings.TrimRight(baseURL, "/"),
			Timeout: v.GetDuration("PINS_API_TIMEOUT"),
		},
		Map: MapConfig{
			AccessToken: token,
			Style:       v.GetString("MAP_STYLE"),
			Initial: models.Viewport{
				Longitude: v.GetFloat64("MAP_LONGITUDE"),
				Latitude:  v.GetFloat64("MAP_LATITUDE"),
				Zoom:      v.GetFloat64("MAP_ZOOM"),
			},
		},
		Session: SessionConfig{
			CurrentUser: v.GetString("CURRENT_USER"),
			Secret:      v.GetString("SESSION_SECRET"),
			Idle:        v.GetDuration("SESSION_IDLE"),
		},
		Limit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if cfg.Map.AccessToken == "" {
		log.Println("WARNING: MAPBOX_TOKEN is not set; the map will not load tiles")
	}
	if cfg.Session.Secret == "" {
		log.Println("WARNING: SESSION_SECRET is not set; using an insecure development secret")
		cfg.Session.Secret = "voyageur-dev-secret"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Kind {
	case StoreMemory:
	case StorePostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("%w: DB_SOURCE is required for the postgres store", ErrInvalidConfig)
		}
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("%w: MONGODB_URI is required for the mongo store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown PINS_STORE %q", ErrInvalidConfig, c.Store.Kind)
	}
	if !c.Map.Initial.Valid() {
		return fmt.Errorf("%w: initial map viewport is out of range", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Session.CurrentUser) == "" {
		return fmt.Errorf("%w: CURRENT_USER must not be empty", ErrInvalidConfig)
	}
	return nil
}
