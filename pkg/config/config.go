package config

import (
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "/config/locallibrary.yaml"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path" required:"true"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries"`
	Environment               string        `koanf:"environment"`
	Hostname                  string        `koanf:"hostname"`
	JWTSecret                 string        `koanf:"jwt_secret" required:"true"`
	LoginRateLimitBurst       int           `koanf:"login_rate_limit_burst"`
	LoginRateLimitRPS         float64       `koanf:"login_rate_limit_rps"`
	PageSize                  int           `koanf:"page_size"`
	RenewalDefaultWeeks       int           `koanf:"renewal_default_weeks"`
	RenewalMaxWeeks           int           `koanf:"renewal_max_weeks"`
	SearchCaseSensitive       bool          `koanf:"search_case_sensitive"`
	ServerHost                string        `koanf:"server_host"`
	ServerPort                int           `koanf:"server_port"`
	SessionCookieName         string        `koanf:"session_cookie_name"`
	StrictLoanTransitions     bool          `koanf:"strict_loan_transitions"`
}

func defaults() *Config {
	hostname, _ := os.Hostname()

	return &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseMaxRetries:        5,
		Environment:               "production",
		Hostname:                  hostname,
		LoginRateLimitBurst:       5,
		LoginRateLimitRPS:         0.2,
		PageSize:                  20,
		RenewalDefaultWeeks:       3,
		RenewalMaxWeeks:           4,
		ServerHost:                "0.0.0.0",
		ServerPort:                8000,
		SessionCookieName:         "locallibrary_visit",
		StrictLoanTransitions:     true,
	}
}

// New loads the config in order of increasing precedence: built-in defaults,
// the YAML file at $CONFIG_FILE, then environment variables named after the
// upper snake case of each key (e.g. DATABASE_FILE_PATH).
func New() (*Config, error) {
	k := koanf.New(".")

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", configFile)
		}
	}

	knownKeys := keys()
	err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := knownKeys[key]; !ok {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := defaults()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config backed by an in-memory database.
func NewForTest() *Config {
	cfg := defaults()
	cfg.DatabaseFilePath = ":memory:"
	cfg.Environment = "test"
	cfg.JWTSecret = "test-secret"
	cfg.ServerHost = "127.0.0.1"
	return cfg
}

// keys returns the set of koanf keys declared on Config.
func keys() map[string]struct{} {
	t := reflect.TypeOf(Config{})
	m := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		m[keyFor(t.Field(i))] = struct{}{}
	}
	return m
}

func validate(cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("required") != "true" {
			continue
		}
		if v.Field(i).IsZero() {
			key := keyFor(field)
			return errors.Errorf("missing required config: %s (env) or %s (file)", strings.ToUpper(key), key)
		}
	}

	if cfg.PageSize < 1 {
		return errors.New("page_size must be at least 1")
	}
	if cfg.RenewalMaxWeeks < cfg.RenewalDefaultWeeks {
		return errors.New("renewal_max_weeks must be greater than or equal to renewal_default_weeks")
	}

	return nil
}

func keyFor(field reflect.StructField) string {
	if key := field.Tag.Get("koanf"); key != "" {
		return key
	}
	return toSnakeCase(field.Name)
}

// toSnakeCase maps a Config field name to its config key.
func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
