package server

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"taskmanager/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	Port            int           `mapstructure:"port" validate:"gte=1,lte=65535"`
	Driver          string        `mapstructure:"driver" validate:"oneof=postgres sqlite memory"`
	DBStr           string        `mapstructure:"dbstr" validate:"required_unless=Driver memory"`
	MigratePath     string        `mapstructure:"migratepath"`
	LogLevel        string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat       string        `mapstructure:"log_format" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

const (
	defaultAddr            = "0.0.0.0"
	defaultPort            = 8080
	defaultDriver          = "postgres"
	defaultDBStr           = "postgresql://tasks:tasks@db:5432/tasks?sslmode=disable"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultShutdownTimeout = 30 * time.Second
)

// DefaultConfig is what ReadConfig yields with no file, environment or flags.
var DefaultConfig = Config{
	Addr:            defaultAddr,
	Port:            defaultPort,
	Driver:          defaultDriver,
	DBStr:           defaultDBStr,
	LogLevel:        defaultLogLevel,
	LogFormat:       defaultLogFormat,
	ShutdownTimeout: defaultShutdownTimeout,
}

// legacyEnv lists the unprefixed variable names still honoured per key.
var legacyEnv = map[string]string{
	"addr":        "ADDR",
	"port":        "PORT",
	"driver":      "DB_DRIVER",
	"dbstr":       "DB_STR",
	"migratepath": "MIGRATE_PATH",
	"log_level":   "LOG_LEVEL",
}

// ReadConfig layers defaults, an optional config file (-c or $CONFIG),
// environment variables (TASKS_* and the legacy names) and command-line
// flags, in increasing order of precedence.
func ReadConfig(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("tasks", pflag.ContinueOnError)
	fs.String("addr", defaultAddr, "server listen address")
	fs.Int("port", defaultPort, "server port")
	fs.String("driver", defaultDriver, "store driver: postgres, sqlite or memory")
	fs.String("dbstr", defaultDBStr, "database connection string (sqlite: file path)")
	fs.String("dbdsn", "", "database DSN, takes priority over --dbstr")
	fs.String("migratepath", "", "migrations directory (embedded migrations when empty)")
	fs.String("log-level", defaultLogLevel, "log level: debug, info, warn or error")
	fs.String("log-format", defaultLogFormat, "log format: json or text")
	fs.Duration("shutdown-timeout", defaultShutdownTimeout, "graceful shutdown timeout")
	configFile := fs.StringP("config", "c", "", "path to a JSON or YAML config file")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrConfigInvalid, err)
	}

	v := viper.New()
	v.SetDefault("addr", defaultAddr)
	v.SetDefault("port", defaultPort)
	v.SetDefault("driver", defaultDriver)
	v.SetDefault("dbstr", defaultDBStr)
	v.SetDefault("migratepath", "")
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("log_format", defaultLogFormat)
	v.SetDefault("shutdown_timeout", defaultShutdownTimeout)

	path := *configFile
	if path == "" {
		path = os.Getenv("CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w %s: %v", errors.ErrConfigFileReadFailed, path, err)
		}
	}

	v.SetEnvPrefix("TASKS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, "TASKS_"+strings.ToUpper(key), legacy); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrConfigInvalid, err)
		}
	}
	if v.GetString("dbstr") == defaultDBStr {
		if composed, ok := dbStrFromParts(); ok {
			v.Set("dbstr", composed)
		}
	}

	for key, flag := range map[string]string{
		"addr":             "addr",
		"port":             "port",
		"driver":           "driver",
		"dbstr":            "dbstr",
		"migratepath":      "migratepath",
		"log_level":        "log-level",
		"log_format":       "log-format",
		"shutdown_timeout": "shutdown-timeout",
	} {
		if fs.Changed(flag) {
			v.Set(key, fs.Lookup(flag).Value.String())
		}
	}
	if fs.Changed("dbdsn") {
		dsn, _ := fs.GetString("dbdsn")
		v.Set("dbstr", dsn)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrConfigInvalid, err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Driver = strings.ToLower(cfg.Driver)
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrConfigInvalid, err)
	}
	return &cfg, nil
}

// dbStrFromParts composes a postgres URL from DB_USER, DB_PASSWORD, DB_HOST,
// DB_PORT and DB_NAME when all of them are set.
func dbStrFromParts() (string, bool) {
	user, pass := os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD")
	host, port, name := os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_NAME")
	if user == "" || pass == "" || host == "" || port == "" || name == "" {
		return "", false
	}
	return fmt.Sprintf("postgresql://%s:%s@%s/%s?sslmode=disable",
		user, pass, net.JoinHostPort(host, port), name), true
}

// ListenAddr joins Addr and Port.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Addr, strconv.Itoa(c.Port))
}
