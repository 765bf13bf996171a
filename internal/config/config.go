package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"Billed"`
		Port      int    `envconfig:"PORT" default:"8080"`
		PublicURL string `envconfig:"PUBLIC_URL" default:"http://localhost:8080"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"billed"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET" default:"change-me"`
		TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
		// Comma separated email:password:Type triples created on startup.
		SeedUsers string `envconfig:"SEED_USERS"`
	}

	Receipts struct {
		Dir     string `envconfig:"RECEIPTS_DIR" default:"./data/receipts"`
		MaxSize int64  `envconfig:"RECEIPTS_MAX_SIZE" default:"10485760"`
	}

	Client struct {
		APIURL      string        `envconfig:"BILLED_API_URL" default:"http://localhost:8080"`
		SessionPath string        `envconfig:"BILLED_SESSION_PATH"`
		Timeout     time.Duration `envconfig:"BILLED_CLIENT_TIMEOUT" default:"10s"`
		LogFile     string        `envconfig:"BILLED_LOG_FILE" default:"billed-tui.log"`
		ExportDir   string        `envconfig:"BILLED_EXPORT_DIR" default:"./exports"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// ReceiptsURL is the public prefix stored receipts are served under.
func (c *Config) ReceiptsURL() string {
	return strings.TrimRight(c.App.PublicURL, "/") + "/receipts"
}

// SessionFile returns where the TUI persists the logged in user.
func (c *Config) SessionFile() (string, error) {
	if c.Client.SessionPath != "" {
		return c.Client.SessionPath, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}

	return filepath.Join(dir, "billed", "session.json"), nil
}

// SeedUser is a user created at API startup.
type SeedUser struct {
	Email    string
	Password string
	Type     string
}

func (c *Config) SeedUsers() ([]SeedUser, error) {
	if strings.TrimSpace(c.Auth.SeedUsers) == "" {
		return nil, nil
	}

	var users []SeedUser

	for _, entry := range strings.Split(c.Auth.SeedUsers, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid seed user %q: want email:password:Type", entry)
		}

		users = append(users, SeedUser{Email: parts[0], Password: parts[1], Type: parts[2]})
	}

	return users, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
