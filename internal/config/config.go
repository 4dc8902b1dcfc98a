package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Hacienda"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"hacienda"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Portal struct {
		URL         string        `envconfig:"PORTAL_URL"`
		DownloadDir string        `envconfig:"PORTAL_DOWNLOAD_DIR" default:"/tmp/hacienda"`
		Headless    bool          `envconfig:"PORTAL_HEADLESS" default:"true"`
		StepTimeout time.Duration `envconfig:"PORTAL_STEP_TIMEOUT" default:"90s"`
	}

	Sheets struct {
		CredentialsFile string `envconfig:"SHEETS_CREDENTIALS_FILE"`
		SpreadsheetID   string `envconfig:"SHEETS_SPREADSHEET_ID"`
	}

	DBF struct {
		DataDir    string `envconfig:"DBF_DATA_DIR" default:"./data/dbf"`
		ExportTool string `envconfig:"DBF_EXPORT_TOOL"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	// Local dev convenience; missing .env is fine.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
