package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. NIHONGO_DATABASE_DRIVER.
const EnvPrefix = "NIHONGO"

// Config holds all configuration for our application
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Study    StudyConfig    `mapstructure:"study"`
	Reminder ReminderConfig `mapstructure:"reminder"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	LogSQL   bool   `mapstructure:"log_sql"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StudyConfig holds defaults of the interactive practice loop.
type StudyConfig struct {
	Questions int   `mapstructure:"questions"`
	Seed      int64 `mapstructure:"seed"`
}

// ReminderConfig holds the review reminder schedule.
type ReminderConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	StartHour int           `mapstructure:"start_hour"`
	EndHour   int           `mapstructure:"end_hour"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	setDefaults()

	// Enable reading from environment variables
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read configuration file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Database defaults
	viper.SetDefault("database.driver", "sqlite3")
	viper.SetDefault("database.path", filepath.Join("data", "nihongo.db"))
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "nihongo")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.log_sql", false)

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Study defaults
	viper.SetDefault("study.questions", 20)
	viper.SetDefault("study.seed", 0)

	// Reminder defaults
	viper.SetDefault("reminder.interval", time.Hour)
	viper.SetDefault("reminder.start_hour", 8)
	viper.SetDefault("reminder.end_hour", 22)
}

// DatabaseDriver returns the normalised driver name.
func (c *Config) DatabaseDriver() (string, error) {
	driver := strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch driver {
	case "", "sqlite", "sqlite3":
		return "sqlite3", nil
	case "postgres", "postgresql":
		return "postgres", nil
	case "pgx":
		return "pgx", nil
	case "memory":
		return "memory", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
}

// DatabaseURL returns the DSN for the configured driver.
func (c *Config) DatabaseURL() (string, error) {
	driver, err := c.DatabaseDriver()
	if err != nil {
		return "", err
	}
	switch driver {
	case "sqlite3":
		path := strings.TrimSpace(c.Database.Path)
		if path == "" {
			return "", fmt.Errorf("database.path is required for sqlite")
		}
		return "file:" + path + "?_busy_timeout=5000", nil
	case "postgres", "pgx":
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
			c.Database.SSLMode,
		), nil
	default:
		return "", nil
	}
}
