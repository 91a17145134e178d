package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	NotifierMemory = "memory"
	NotifierRedis  = "redis"
)

type Config struct {
	HTTPAddr    string   `yaml:"http_addr"`
	CORSOrigins []string `yaml:"cors_origins"`

	DB struct {
		Driver           string `yaml:"driver"`
		DSN              string `yaml:"dsn"`
		DestructiveReset bool   `yaml:"destructive_reset"`
	} `yaml:"db"`

	Notifier struct {
		Kind         string `yaml:"kind"`
		RedisAddr    string `yaml:"redis_addr"`
		RedisChannel string `yaml:"redis_channel"`
	} `yaml:"notifier"`

	OpenTDB struct {
		BaseURL       string        `yaml:"base_url"`
		DefaultAmount int           `yaml:"default_amount"`
		Timeout       time.Duration `yaml:"timeout"`
	} `yaml:"opentdb"`

	SessionTTL time.Duration `yaml:"session_ttl"`
}

func Default() *Config {
	cfg := &Config{
		HTTPAddr:    ":8080",
		CORSOrigins: []string{"*"},
		SessionTTL:  2 * time.Hour,
	}
	cfg.DB.Driver = "sqlite3"
	cfg.DB.DSN = "quiz.db"
	cfg.DB.DestructiveReset = true
	cfg.Notifier.Kind = NotifierMemory
	cfg.Notifier.RedisAddr = "localhost:6379"
	cfg.Notifier.RedisChannel = "quizbank:changes"
	cfg.OpenTDB.BaseURL = "https://opentdb.com/api.php"
	cfg.OpenTDB.DefaultAmount = 10
	cfg.OpenTDB.Timeout = 10 * time.Second
	return cfg
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a .env file in the working directory and the QUIZ_* environment, in
// that order of precedence.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv("QUIZ_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.HTTPAddr = envOr("QUIZ_HTTP_ADDR", envOr("ADDR", c.HTTPAddr))
	c.CORSOrigins = csvOr("QUIZ_CORS_ORIGINS", c.CORSOrigins)

	c.DB.Driver = envOr("QUIZ_DB_DRIVER", c.DB.Driver)
	c.DB.DSN = envOr("QUIZ_DB_DSN", c.DB.DSN)
	c.DB.DestructiveReset = envBool("QUIZ_DB_DESTRUCTIVE_RESET", c.DB.DestructiveReset)

	c.Notifier.Kind = envOr("QUIZ_NOTIFIER", c.Notifier.Kind)
	c.Notifier.RedisAddr = envOr("QUIZ_REDIS_ADDR", c.Notifier.RedisAddr)
	c.Notifier.RedisChannel = envOr("QUIZ_REDIS_CHANNEL", c.Notifier.RedisChannel)

	c.OpenTDB.BaseURL = envOr("QUIZ_OPENTDB_URL", c.OpenTDB.BaseURL)

	var err error
	if c.OpenTDB.DefaultAmount, err = envInt("QUIZ_IMPORT_AMOUNT", c.OpenTDB.DefaultAmount); err != nil {
		return err
	}
	if c.OpenTDB.Timeout, err = envDuration("QUIZ_OPENTDB_TIMEOUT", c.OpenTDB.Timeout); err != nil {
		return err
	}
	if c.SessionTTL, err = envDuration("QUIZ_SESSION_TTL", c.SessionTTL); err != nil {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	if strings.TrimSpace(c.DB.DSN) == "" {
		errs = append(errs, errors.New("db.dsn is required"))
	}
	switch c.Notifier.Kind {
	case NotifierMemory:
	case NotifierRedis:
		if strings.TrimSpace(c.Notifier.RedisAddr) == "" {
			errs = append(errs, errors.New("notifier.redis_addr is required for the redis notifier"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown notifier %q", c.Notifier.Kind))
	}
	if c.OpenTDB.DefaultAmount <= 0 {
		errs = append(errs, errors.New("opentdb.default_amount must be positive"))
	}
	return errors.Join(errs...)
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}

func csvOr(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
