package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type DestinationSettings struct {
	Destinations []string `yaml:"destinations" validate:"required,min=1,dive,required"`
	Time         string   `yaml:"time" validate:"oneof=next_workday_noon next_sunday_early_morning"`
	MaxTransfers int      `yaml:"max_transfers" validate:"gte=0"`
}

type GeneralSettings struct {
	// Ceiling for a stop's weighted duration, in minutes. Also sizes the color gradient.
	MaxDuration  int `yaml:"max_duration" validate:"gt=1"`
	CircleRadius int `yaml:"circle_radius" validate:"gt=0"`
	// Minutes added to MaxDuration when querying the transit API.
	FetchMargin int `yaml:"fetch_margin" validate:"gte=0"`
}

type DistrictSettings struct {
	Path string `yaml:"path" validate:"required"`
}

type TransportSettings struct {
	BaseURL string        `yaml:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

type ServerSettings struct {
	Port int `yaml:"port" validate:"gt=0,lte=65535"`
}

type CacheSettings struct {
	Backend     string        `yaml:"backend" validate:"oneof=none postgres sqlite redis"`
	TTL         time.Duration `yaml:"ttl" validate:"gte=0"`
	DatabaseURL string        `yaml:"database_url" validate:"required_if=Backend postgres"`
	SqlitePath  string        `yaml:"sqlite_path" validate:"required_if=Backend sqlite"`
	RedisAddr   string        `yaml:"redis_addr" validate:"required_if=Backend redis"`
}

type LogSettings struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json text"`
}

type Settings struct {
	Destination DestinationSettings `yaml:"destination"`
	General     GeneralSettings     `yaml:"general"`
	Districts   DistrictSettings    `yaml:"districts"`
	Transport   TransportSettings   `yaml:"transport"`
	Server      ServerSettings      `yaml:"server"`
	Cache       CacheSettings       `yaml:"cache"`
	Log         LogSettings         `yaml:"log"`
}

// FetchCeiling is the maxDuration sent to the transit API.
func (s Settings) FetchCeiling() int { return s.General.MaxDuration + s.General.FetchMargin }

func defaults() Settings {
	return Settings{
		Destination: DestinationSettings{Time: "next_workday_noon", MaxTransfers: 3},
		General:     GeneralSettings{MaxDuration: 30, CircleRadius: 150, FetchMargin: 60},
		Districts:   DistrictSettings{Path: "data/ortsteile.geojson"},
		Transport:   TransportSettings{Timeout: 15 * time.Second},
		Server:      ServerSettings{Port: 8080},
		Cache:       CacheSettings{Backend: "none", TTL: 30 * 24 * time.Hour},
		Log:         LogSettings{Level: "info", Format: "json"},
	}
}

// Load reads the YAML settings file at path, applies environment overrides and
// validates the result. Missing keys keep their defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML settings, applies environment overrides and validates them.
func Parse(data []byte) (Settings, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Settings{}, fmt.Errorf("load settings: parse yaml: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Settings{}, fmt.Errorf("load settings: validate: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Settings) error {
	if v := Get("DESTINATIONS", ""); v != "" {
		names := make([]string, 0)
		for _, n := range strings.Split(v, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		cfg.Destination.Destinations = names
	}

	port, err := GetInt("PORT", cfg.Server.Port)
	if err != nil {
		return err
	}
	cfg.Server.Port = port

	maxDuration, err := GetInt("MAX_DURATION", cfg.General.MaxDuration)
	if err != nil {
		return err
	}
	cfg.General.MaxDuration = maxDuration

	cfg.Districts.Path = Get("DISTRICTS_PATH", cfg.Districts.Path)
	cfg.Transport.BaseURL = Get("TRANSPORT_BASE_URL", cfg.Transport.BaseURL)
	cfg.Cache.Backend = Get("CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.DatabaseURL = Get("DATABASE_URL", cfg.Cache.DatabaseURL)
	cfg.Cache.SqlitePath = Get("SQLITE_PATH", cfg.Cache.SqlitePath)
	cfg.Cache.RedisAddr = Get("REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Log.Level = Get("LOG_LEVEL", cfg.Log.Level)

	return nil
}

// Get returns the environment variable key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetInt is Get for integer values.
func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("env %s: %q is not an integer", key, v)
	}
	return n, nil
}
