package config

import (
	"github.com/sceu/clinic/internal/database"
	"github.com/sceu/clinic/internal/storage"
	"github.com/sceu/clinic/pkg/config"
)

// Config is the full server configuration, loaded from CLINIC_* environment
// variables and an optional .env file.
type Config struct {
	Server   Server          `mapstructure:"server"`
	Database database.Config `mapstructure:"database"`
	Storage  storage.Config  `mapstructure:"storage"`
	Log      Log             `mapstructure:"log"`
	Export   Export          `mapstructure:"export"`
}

// Server holds HTTP server settings.
type Server struct {
	Port       string `mapstructure:"port"`
	CORSOrigin string `mapstructure:"corsorigin"`
}

// Log holds logging settings.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Export holds record export settings. WkhtmltopdfPath is the path to the
// external wkhtmltopdf binary; when empty, exports bundle rendered HTML.
type Export struct {
	WkhtmltopdfPath string `mapstructure:"wkhtmltopdfpath"`
}

// Load reads configuration with defaults suitable for local development.
func Load() (*Config, error) {
	cfg := &Config{
		Server: Server{
			Port:       "3001",
			CORSOrigin: "http://localhost:5173",
		},
		Database: database.Config{
			Host:           "localhost",
			Port:           5432,
			User:           "clinic",
			Name:           "clinic",
			MigrationsPath: "migrations",
		},
		Log: Log{Level: "INFO", Format: "text"},
	}
	if err := config.Load("CLINIC_", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
