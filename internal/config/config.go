package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix задает префикс переменных окружения, перекрывающих файл.
const EnvPrefix = "MICROBATCH_"

// PathEnv задает путь к YAML-конфигу.
const PathEnv = EnvPrefix + "CONFIG"

// Config описывает параметры запуска.
type Config struct {
	Log      Log      `yaml:"log" envPrefix:"LOG_"`
	Engine   Engine   `yaml:"engine" envPrefix:"ENGINE_"`
	Storage  Storage  `yaml:"storage" envPrefix:"STORAGE_"`
	Audit    Audit    `yaml:"audit" envPrefix:"AUDIT_"`
	Security Security `yaml:"security" envPrefix:"SECURITY_"`
}

type Log struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Engine описывает параметры каталога команд.
type Engine struct {
	// SingleType ограничивает каталог одним типом-обработчиком.
	SingleType string `yaml:"single_type" env:"SINGLE_TYPE"`
}

type Storage struct {
	Path          string `yaml:"path" env:"PATH"`
	RetentionDays int    `yaml:"retention_days" env:"RETENTION_DAYS"`
}

type Audit struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
}

type Security struct {
	CommandAllowlist []string `yaml:"command_allowlist" env:"COMMAND_ALLOWLIST" envSeparator:","`
}

// Default возвращает конфигурацию по умолчанию.
func Default() Config {
	var cfg Config
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.Storage.Path = "microbatch.db"
	cfg.Storage.RetentionDays = 30
	cfg.Audit.Enabled = true
	return cfg
}

// Load читает YAML поверх значений по умолчанию и применяет переменные окружения.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- путь к конфигу задается доверенным оператором.
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if len(data) == 0 {
			return cfg, errors.New("config file is empty")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate проверяет значения, которые нельзя исправить молча.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		errs = append(errs, errors.New("storage.path is empty"))
	}
	if c.Storage.RetentionDays <= 0 {
		errs = append(errs, fmt.Errorf("storage.retention_days must be positive, got %d", c.Storage.RetentionDays))
	}
	for _, p := range c.Security.CommandAllowlist {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, errors.New("security.command_allowlist contains an empty pattern"))
			break
		}
	}
	return errors.Join(errs...)
}
