package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa de traderscan.
type Config struct {
	API         APIConfig         `yaml:"api"`
	Categorizer CategorizerConfig `yaml:"categorizer"`
	Crawler     CrawlerConfig     `yaml:"crawler"`
	Output      OutputConfig      `yaml:"output"`
	Storage     StorageConfig     `yaml:"storage"`
	Log         LogConfig         `yaml:"log"`
}

// APIConfig contiene el base URL y los límites del cliente HTTP.
type APIConfig struct {
	BaseURL           string  `yaml:"base_url"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// CategorizerConfig controla el fetch por categoría.
type CategorizerConfig struct {
	Categories []string `yaml:"categories"`
	Limit      int      `yaml:"limit"`   // top N traders por categoría
	Workers    int      `yaml:"workers"` // 1 = secuencial
}

// CrawlerConfig controla el crawl paginado con filtros.
type CrawlerConfig struct {
	Tag          string `yaml:"tag"`
	MinWinRate   int    `yaml:"min_win_rate"` // porcentaje entero, ej. 67
	MinPositions int    `yaml:"min_positions"`
	PageSize     int    `yaml:"page_size"`
	PageDelayMS  int    `yaml:"page_delay_ms"` // espera entre páginas
}

// OutputConfig controla dónde se escriben los snapshots JSON.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// StorageConfig controla el histórico de runs.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Si el archivo YAML no existe se usan los defaults — la herramienta corre
// sin configuración alguna.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// sin archivo: solo defaults + env
	case err != nil:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Timeout devuelve el deadline por request como time.Duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// PageDelay devuelve la espera entre páginas del crawler como time.Duration.
func (c *Config) PageDelay() time.Duration {
	return time.Duration(c.Crawler.PageDelayMS) * time.Millisecond
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRADERSCAN_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// defaultCategories son las categorías principales de Polymarket a trackear.
var defaultCategories = []string{
	"Sports",
	"Politics",
	"Crypto",
	"Soccer",
	"Basketball",
	"NFL",
	"Tennis",
	"Trump",
	"Elections",
	"Bitcoin",
	"Ethereum",
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://polymarketanalytics.com/api/traders-tag-performance"
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 30
	}
	if cfg.API.RequestsPerSecond <= 0 {
		cfg.API.RequestsPerSecond = 4
	}
	if len(cfg.Categorizer.Categories) == 0 {
		cfg.Categorizer.Categories = defaultCategories
	}
	if cfg.Categorizer.Limit <= 0 {
		cfg.Categorizer.Limit = 100
	}
	if cfg.Categorizer.Workers <= 0 {
		cfg.Categorizer.Workers = 1
	}
	if cfg.Crawler.Tag == "" {
		cfg.Crawler.Tag = "Overall"
	}
	if cfg.Crawler.MinWinRate <= 0 {
		cfg.Crawler.MinWinRate = 67
	}
	if cfg.Crawler.MinPositions <= 0 {
		cfg.Crawler.MinPositions = 30
	}
	if cfg.Crawler.PageSize <= 0 {
		cfg.Crawler.PageSize = 100
	}
	if cfg.Crawler.PageDelayMS <= 0 {
		cfg.Crawler.PageDelayMS = 500
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "."
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "traderscan.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
