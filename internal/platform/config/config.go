package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"

	STTDeepgram = "deepgram"
	STTOpenAI   = "openai"
)

type Config struct {
	Port     string   `yaml:"port" validate:"required,numeric"`
	Log      Log      `yaml:"log"`
	Database Database `yaml:"database" validate:"required"`
	Speech   Speech   `yaml:"speech" validate:"required"`
	Twilio   Twilio   `yaml:"twilio"`
	Telegram Telegram `yaml:"telegram"`
	Monitor  Monitor  `yaml:"monitor" validate:"required"`

	// DeviceAPIKey protege los endpoints que llama el dispensador (dispense, bpm).
	// Vacío = modo dev, sin verificación.
	DeviceAPIKey string `yaml:"device_api_key"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
	App    string `yaml:"app"`
}

type Database struct {
	Driver     string `yaml:"driver" validate:"required,oneof=postgres sqlite memory"`
	DSN        string `yaml:"dsn"`
	User       string `yaml:"user"`
	Host       string `yaml:"host"`
	Name       string `yaml:"name"`
	Password   string `yaml:"password"`
	Port       string `yaml:"port"`
	SSL        bool   `yaml:"ssl"`
	SQLitePath string `yaml:"sqlite_path" validate:"required_if=Driver sqlite"`
}

type Speech struct {
	Provider       string `yaml:"provider" validate:"required,oneof=deepgram openai"`
	DeepgramAPIKey string `yaml:"deepgram_api_key"`
	DeepgramURL    string `yaml:"deepgram_url" validate:"omitempty,url"`
	OpenAIAPIKey   string `yaml:"openai_api_key"`
}

type Twilio struct {
	AccountSID  string `yaml:"account_sid"`
	AuthToken   string `yaml:"auth_token"`
	FromNumber  string `yaml:"from_number"`
	AlertNumber string `yaml:"alert_number"`
	BaseURL     string `yaml:"base_url" validate:"omitempty,url"`
}

type Telegram struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id" validate:"required_with=BotToken"`
}

type Monitor struct {
	Timezone       string        `yaml:"timezone" validate:"required"`
	StockInterval  time.Duration `yaml:"stock_interval" validate:"required"`
	TimingInterval time.Duration `yaml:"timing_interval" validate:"required"`
	AlertTimeout   time.Duration `yaml:"alert_timeout" validate:"required"`
	Disabled       bool          `yaml:"disabled"`
}

// Default retorna la configuración base: puerto 5000, memoria, Asia/Kolkata.
func Default() Config {
	return Config{
		Port: "5000",
		Log: Log{
			Level:  "info",
			Format: "text",
			App:    "pill-dispenser",
		},
		Database: Database{
			Driver:     "",
			Port:       "5432",
			SQLitePath: "data/medtracker.db",
		},
		Speech: Speech{
			Provider: STTDeepgram,
		},
		Monitor: Monitor{
			Timezone:       "Asia/Kolkata",
			StockInterval:  3 * time.Second,
			TimingInterval: 30 * time.Second,
			AlertTimeout:   10 * time.Second,
		},
	}
}

// Load arma la config en capas: defaults -> YAML (opcional) -> .env (opcional) -> env.
func Load(yamlPath, envFile string) (Config, error) {
	cfg := Default()

	if p := strings.TrimSpace(yamlPath); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if p := strings.TrimSpace(envFile); p != "" {
		// .env es opcional; godotenv no pisa variables ya definidas.
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverMemory
		if cfg.Database.DSN != "" || cfg.Database.Host != "" {
			cfg.Database.Driver = DriverPostgres
		}
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Database.Driver == DriverPostgres && cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return errors.New("invalid config: postgres requires DB_DSN or DB_HOST")
	}
	if _, err := time.LoadLocation(cfg.Monitor.Timezone); err != nil {
		return fmt.Errorf("invalid config: timezone %q: %w", cfg.Monitor.Timezone, err)
	}
	return nil
}

// PostgresDSN arma el DSN desde DB_* si no viene DB_DSN explícito.
func (d Database) PostgresDSN() string {
	if strings.TrimSpace(d.DSN) != "" {
		return d.DSN
	}

	sslmode := "disable"
	if d.SSL {
		sslmode = "require"
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     d.Host,
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
	}
	if d.Port != "" {
		u.Host = d.Host + ":" + d.Port
	}
	if d.User != "" {
		if d.Password != "" {
			u.User = url.UserPassword(d.User, d.Password)
		} else {
			u.User = url.User(d.User)
		}
	}
	return u.String()
}

// TwilioConfigured indica si hay credenciales suficientes para SMS/llamadas.
func (t Twilio) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != "" && t.AlertNumber != ""
}

func applyEnv(cfg *Config) {
	envString("PORT", &cfg.Port)
	envString("LOG_LEVEL", &cfg.Log.Level)
	envString("LOG_FORMAT", &cfg.Log.Format)
	envString("APP_NAME", &cfg.Log.App)

	envString("DB_DRIVER", &cfg.Database.Driver)
	envString("DB_DSN", &cfg.Database.DSN)
	envString("DB_USER", &cfg.Database.User)
	envString("DB_HOST", &cfg.Database.Host)
	envString("DB_NAME", &cfg.Database.Name)
	envString("DB_PASSWORD", &cfg.Database.Password)
	envString("DB_PORT", &cfg.Database.Port)
	envBool("DB_SSL", &cfg.Database.SSL)
	envString("SQLITE_PATH", &cfg.Database.SQLitePath)

	envString("STT_PROVIDER", &cfg.Speech.Provider)
	envString("DEEPGRAM_API_KEY", &cfg.Speech.DeepgramAPIKey)
	envString("DEEPGRAM_URL", &cfg.Speech.DeepgramURL)
	envString("OPENAI_API_KEY", &cfg.Speech.OpenAIAPIKey)

	envString("TWILIO_ACCOUNT_SID", &cfg.Twilio.AccountSID)
	envString("TWILIO_AUTH_TOKEN", &cfg.Twilio.AuthToken)
	envString("TWILIO_PHONE_NUMBER", &cfg.Twilio.FromNumber)
	envString("ALERT_PHONE_NUMBER", &cfg.Twilio.AlertNumber)
	envString("TWILIO_BASE_URL", &cfg.Twilio.BaseURL)

	envString("TELEGRAM_BOT_TOKEN", &cfg.Telegram.BotToken)
	envInt64("TELEGRAM_CHAT_ID", &cfg.Telegram.ChatID)

	envString("DEVICE_API_KEY", &cfg.DeviceAPIKey)

	envString("MONITOR_TIMEZONE", &cfg.Monitor.Timezone)
	envDuration("STOCK_CHECK_INTERVAL", &cfg.Monitor.StockInterval)
	envDuration("TIMING_CHECK_INTERVAL", &cfg.Monitor.TimingInterval)
	envDuration("ALERT_TIMEOUT", &cfg.Monitor.AlertTimeout)
	envBool("MONITOR_DISABLED", &cfg.Monitor.Disabled)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func envBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*dst = b
		}
	}
}

func envInt64(key string, dst *int64) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			*dst = n
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			*dst = d
		}
	}
}
