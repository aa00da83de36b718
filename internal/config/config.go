package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"leveragebot/pkg/crypto"
	"leveragebot/pkg/utils"
)

// ErrMissingConfig - не заданы обязательные переменные окружения
var ErrMissingConfig = errors.New("missing required environment variables")

// webhookPathPattern - допустимый сегмент пути webhook
var webhookPathPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,128}$`)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Telegram TelegramConfig
	Session  SessionConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
	Debug    bool
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port            int
	Host            string
	UseHTTPS        bool
	CertFile        string
	KeyFile         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// TelegramConfig - доступ к Bot API и параметры webhook
type TelegramConfig struct {
	BotToken      string
	APIURL        string
	WebhookSecret string // ключ HMAC подписи обновлений
	WebhookURL    string // публичный базовый URL сервиса

	// WebhookPath - сегмент пути webhook. Если WEBHOOK_PATH не задан,
	// выводится из WebhookSecret (HKDF), сам секрет в URL не попадает.
	WebhookPath string
}

// SessionConfig - время жизни диалогов
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// MetricsConfig - Basic Auth для /metrics (пусто = без авторизации)
type MetricsConfig struct {
	Username string
	Password string
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// LoadEnvFile загружает переменные из .env файла.
// Уже заданные переменные окружения не перезаписываются; отсутствие файла не ошибка.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load загружает конфигурацию из переменных окружения.
// Вызывается явно при старте до открытия порта.
func Load() (*Config, error) {
	debug := getEnvAsBool("DEBUG", false)

	defaultLevel := "info"
	if debug {
		defaultLevel = "debug"
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvAsInt("PORT", 5000),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			UseHTTPS:        getEnvAsBool("USE_HTTPS", false),
			CertFile:        getEnv("CERT_FILE", ""),
			KeyFile:         getEnv("KEY_FILE", ""),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Telegram: TelegramConfig{
			BotToken:      getEnv("BOT_TOKEN", ""),
			APIURL:        getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
			WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
			WebhookURL:    getEnv("WEBHOOK_URL", ""),
			WebhookPath:   strings.Trim(getEnv("WEBHOOK_PATH", ""), "/"),
		},
		Session: SessionConfig{
			TTL:           getEnvAsDuration("SESSION_TTL", time.Hour),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", time.Hour),
		},
		Metrics: MetricsConfig{
			Username: getEnv("METRICS_USERNAME", ""),
			Password: getEnv("METRICS_PASSWORD", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", defaultLevel),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", ""),
		},
		Debug: debug,
	}

	// Обязательные параметры проверяются все сразу
	if err := cfg.validateRequired(); err != nil {
		return nil, err
	}

	if err := cfg.validateSecurity(); err != nil {
		return nil, err
	}

	if err := cfg.validateRanges(); err != nil {
		return nil, err
	}

	if cfg.Telegram.WebhookPath == "" {
		path, err := crypto.DerivePathToken(cfg.Telegram.WebhookSecret, crypto.DefaultPathTokenLength)
		if err != nil {
			return nil, fmt.Errorf("derive webhook path: %w", err)
		}
		cfg.Telegram.WebhookPath = path
	}

	return cfg, nil
}

// validateRequired проверяет наличие обязательных переменных
func (c *Config) validateRequired() error {
	var missing []string
	if c.Telegram.BotToken == "" {
		missing = append(missing, "BOT_TOKEN")
	}
	if c.Telegram.WebhookSecret == "" {
		missing = append(missing, "WEBHOOK_SECRET")
	}
	if c.Telegram.WebhookURL == "" {
		missing = append(missing, "WEBHOOK_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// validateSecurity проверяет параметры webhook
func (c *Config) validateSecurity() error {
	u, err := url.Parse(c.Telegram.WebhookURL)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return fmt.Errorf("WEBHOOK_URL must be an absolute http(s) URL, got %q", c.Telegram.WebhookURL)
	}

	if c.Telegram.WebhookPath != "" {
		if !webhookPathPattern.MatchString(c.Telegram.WebhookPath) {
			return fmt.Errorf("WEBHOOK_PATH must be 8-128 characters of [A-Za-z0-9_-]")
		}
		if c.Telegram.WebhookPath == c.Telegram.WebhookSecret {
			return fmt.Errorf("WEBHOOK_PATH must differ from WEBHOOK_SECRET")
		}
	}

	if c.Server.UseHTTPS && (c.Server.CertFile == "" || c.Server.KeyFile == "") {
		return fmt.Errorf("CERT_FILE and KEY_FILE are required when USE_HTTPS=true")
	}

	if (c.Metrics.Username == "") != (c.Metrics.Password == "") {
		return fmt.Errorf("METRICS_USERNAME and METRICS_PASSWORD must be set together")
	}

	return nil
}

// validateRanges проверяет числовые диапазоны параметров
func (c *Config) validateRanges() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be positive, got %v", c.Server.ReadTimeout)
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be positive, got %v", c.Server.WriteTimeout)
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}

	if c.Session.TTL < time.Minute {
		return fmt.Errorf("SESSION_TTL must be at least 1m, got %v", c.Session.TTL)
	}

	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive, got %v", c.Session.SweepInterval)
	}

	return nil
}

// Addr возвращает адрес для http.Server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// WebhookEndpoint возвращает полный URL для setWebhook
func (t TelegramConfig) WebhookEndpoint() string {
	return strings.TrimRight(t.WebhookURL, "/") + "/" + t.WebhookPath
}

// LogConfig возвращает настройки для utils.InitLogger
func (c *Config) LogConfig() utils.LogConfig {
	return utils.LogConfig{
		Level:       c.Logging.Level,
		Format:      c.Logging.Format,
		Output:      c.Logging.Output,
		Development: c.Debug,
	}
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
