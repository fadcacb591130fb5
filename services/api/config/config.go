package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/catalog"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/geo"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/session"
)

// Config holds settings for the dashboard API.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Data    DataConfig    `mapstructure:"data"`
	Assets  AssetsConfig  `mapstructure:"assets"`
	Anchor  AnchorConfig  `mapstructure:"anchor"`
	Map     MapConfig     `mapstructure:"map"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DataConfig selects the catalogue source. DatabaseURL wins over the CSV
// candidates when set.
type DataConfig struct {
	CSVCandidates []string `mapstructure:"csv_candidates"`
	DatabaseURL   string   `mapstructure:"database_url"`
	TablesPath    string   `mapstructure:"tables_path"`
}

// AssetsConfig locates logo files.
type AssetsConfig struct {
	LogoDir string `mapstructure:"logo_dir"`
	Root    string `mapstructure:"root"`
}

// AnchorConfig is our own development.
type AnchorConfig struct {
	Name string  `mapstructure:"name"`
	Lat  float64 `mapstructure:"lat"`
	Lon  float64 `mapstructure:"lon"`
}

// MapConfig holds camera and click matching parameters.
type MapConfig struct {
	ClickThresholdKM float64 `mapstructure:"click_threshold_km"`
	FocusZoom        int     `mapstructure:"focus_zoom"`
	AnchorZoom       int     `mapstructure:"anchor_zoom"`
	DefaultLat       float64 `mapstructure:"default_lat"`
	DefaultLon       float64 `mapstructure:"default_lon"`
	DefaultZoom      int     `mapstructure:"default_zoom"`
	ShowLine         bool    `mapstructure:"show_line"`
}

// SessionConfig bounds the session registry.
type SessionConfig struct {
	Max int `mapstructure:"max"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables (optionally .env) and
// an optional config.yaml.
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("COMPETENCIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, eris.Wrap(err, "config: unmarshal")
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Server.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Server.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}
	if url := os.Getenv("DATABASE_URL"); url != "" && cfg.Data.DatabaseURL == "" {
		cfg.Data.DatabaseURL = url
	}

	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("data.csv_candidates", catalog.DefaultCSVCandidates)
	v.SetDefault("data.database_url", "")
	v.SetDefault("data.tables_path", "")
	v.SetDefault("assets.logo_dir", "static/logos")
	v.SetDefault("assets.root", "")
	v.SetDefault("anchor.name", "Loma escondida")
	v.SetDefault("anchor.lat", 23.009139)
	v.SetDefault("anchor.lon", -109.732472)
	v.SetDefault("map.click_threshold_km", catalog.DefaultClickThresholdKM)
	v.SetDefault("map.focus_zoom", 14)
	v.SetDefault("map.anchor_zoom", 15)
	v.SetDefault("map.default_lat", 23.0)
	v.SetDefault("map.default_lon", -109.73)
	v.SetDefault("map.default_zoom", 11)
	v.SetDefault("map.show_line", true)
	v.SetDefault("session.max", 1000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate rejects settings the state machine cannot work with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Map.ClickThresholdKM <= 0 {
		return fmt.Errorf("invalid map.click_threshold_km: %v", c.Map.ClickThresholdKM)
	}
	if c.Map.FocusZoom <= 0 || c.Map.AnchorZoom <= 0 || c.Map.DefaultZoom <= 0 {
		return fmt.Errorf("invalid map zoom levels: focus=%d anchor=%d default=%d",
			c.Map.FocusZoom, c.Map.AnchorZoom, c.Map.DefaultZoom)
	}
	if strings.TrimSpace(c.Anchor.Name) == "" {
		return eris.New("config: anchor.name is required")
	}
	return nil
}

// SessionSettings builds the state machine parameters. baseLayers lists the
// selectable tile layer names, the first one being the default.
func (c Config) SessionSettings(baseLayers []string) session.Settings {
	return session.Settings{
		Anchor: geo.ReferencePoint{
			Name:  c.Anchor.Name,
			Point: geo.Point{Lat: c.Anchor.Lat, Lon: c.Anchor.Lon},
		},
		DefaultView: session.View{
			Center: geo.Point{Lat: c.Map.DefaultLat, Lon: c.Map.DefaultLon},
			Zoom:   c.Map.DefaultZoom,
		},
		FocusZoom:        c.Map.FocusZoom,
		AnchorZoom:       c.Map.AnchorZoom,
		ClickThresholdKM: c.Map.ClickThresholdKM,
		BaseLayers:       baseLayers,
		ShowLine:         c.Map.ShowLine,
	}
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
