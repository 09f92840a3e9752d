package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Venues conocidos por el scanner. Cualquier otro nombre en el YAML es fatal.
var knownVenues = map[string]bool{
	"gateio":  true,
	"mexc":    true,
	"kucoin":  true,
	"binance": true,
}

// Config es la configuración completa del scanner.
type Config struct {
	Scanner  ScannerConfig  `yaml:"scanner"`
	Venues   VenuesConfig   `yaml:"venues"`
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Telegram TelegramConfig `yaml:"telegram"`
	AI       AIConfig       `yaml:"ai"`
	Log      LogConfig      `yaml:"log"`
}

// ScannerConfig controla el comportamiento del ciclo de escaneo.
type ScannerConfig struct {
	IntervalSeconds     int     `yaml:"interval_seconds"`
	VenueTimeoutSeconds int     `yaml:"venue_timeout_seconds"` // timeout por llamada a cada venue
	ArbProfitPct        float64 `yaml:"arb_profit_pct"`        // umbral para marcar arbitraje rentable
	CriticalArbPct      float64 `yaml:"critical_arb_pct"`      // spread que eleva la urgencia a CRITICAL
}

// VenuesConfig define qué venues se escanean y su clasificación.
// El orden de Enabled es el orden estable de resultados en cada ciclo.
type VenuesConfig struct {
	Enabled []string `yaml:"enabled"`
	Early   []string `yaml:"early"` // venues que suelen listar antes que el major
	Major   string   `yaml:"major"` // el venue de referencia (ausencia = pre-listing)
}

// APIConfig contiene los base URLs de las APIs de cada venue.
type APIConfig struct {
	GateIOBase     string `yaml:"gateio_base"`
	MEXCBase       string `yaml:"mexc_base"`
	KuCoinBase     string `yaml:"kucoin_base"`
	BinanceBase    string `yaml:"binance_base"`
	BinanceCMSBase string `yaml:"binance_cms_base"` // feed de anuncios, distinto host que el API spot
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// TelegramConfig controla las alertas por Telegram.
// BotToken y ChatID se leen del entorno, nunca del YAML.
type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"-"`
	ChatID   string `yaml:"-"`
}

// AIConfig controla el análisis opcional con LLM.
// La API key se lee del entorno, nunca del YAML.
type AIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"-"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return &cfg, nil
}

// ScanInterval devuelve el intervalo de escaneo como time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Scanner.IntervalSeconds) * time.Second
}

// VenueTimeout devuelve el timeout por venue como time.Duration.
func (c *Config) VenueTimeout() time.Duration {
	return time.Duration(c.Scanner.VenueTimeoutSeconds) * time.Second
}

// Validate comprueba que la configuración sea estructuralmente válida.
// Un venue desconocido o credenciales requeridas ausentes son errores fatales
// de arranque; todo lo demás tiene defaults.
func (c *Config) Validate() error {
	for _, v := range c.Venues.Enabled {
		if !knownVenues[v] {
			return fmt.Errorf("unknown venue %q in venues.enabled", v)
		}
	}
	for _, v := range c.Venues.Early {
		if !knownVenues[v] {
			return fmt.Errorf("unknown venue %q in venues.early", v)
		}
	}
	if c.Venues.Major != "" && !knownVenues[c.Venues.Major] {
		return fmt.Errorf("unknown venue %q in venues.major", c.Venues.Major)
	}
	if c.Telegram.Enabled && (c.Telegram.BotToken == "" || c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram enabled but TELEGRAM_BOT_TOKEN/TELEGRAM_CHAT_ID not set")
	}
	if c.AI.Enabled && c.AI.APIKey == "" {
		return fmt.Errorf("ai enabled but GROQ_API_KEY not set")
	}
	return nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.Telegram.ChatID = os.Getenv("TELEGRAM_CHAT_ID")
	cfg.AI.APIKey = os.Getenv("GROQ_API_KEY")
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Scanner.IntervalSeconds <= 0 {
		cfg.Scanner.IntervalSeconds = 60
	}
	if cfg.Scanner.VenueTimeoutSeconds <= 0 {
		cfg.Scanner.VenueTimeoutSeconds = 10
	}
	if cfg.Scanner.ArbProfitPct <= 0 {
		cfg.Scanner.ArbProfitPct = 1.0
	}
	if cfg.Scanner.CriticalArbPct <= 0 {
		cfg.Scanner.CriticalArbPct = 2.0
	}
	if len(cfg.Venues.Enabled) == 0 {
		cfg.Venues.Enabled = []string{"gateio", "mexc", "kucoin", "binance"}
	}
	if len(cfg.Venues.Early) == 0 {
		cfg.Venues.Early = []string{"gateio", "mexc"}
	}
	if cfg.Venues.Major == "" {
		cfg.Venues.Major = "binance"
	}
	if cfg.API.GateIOBase == "" {
		cfg.API.GateIOBase = "https://api.gateio.ws/api/v4"
	}
	if cfg.API.MEXCBase == "" {
		cfg.API.MEXCBase = "https://api.mexc.com"
	}
	if cfg.API.KuCoinBase == "" {
		cfg.API.KuCoinBase = "https://api.kucoin.com"
	}
	if cfg.API.BinanceBase == "" {
		cfg.API.BinanceBase = "https://api.binance.com"
	}
	if cfg.API.BinanceCMSBase == "" {
		cfg.API.BinanceCMSBase = "https://www.binance.com"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "tokenscope.db"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "llama-3.3-70b-versatile"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
