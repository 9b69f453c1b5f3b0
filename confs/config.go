package confs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Media    MediaConfig    `yaml:"media"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres | sqlite
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
}

type MediaConfig struct {
	Root           string `yaml:"root"`
	URL            string `yaml:"url"`
	MaxImageWidth  int    `yaml:"max_image_width"`
	MaxImagePixels int    `yaml:"max_image_pixels"` // decoded width*height
}

const DefaultMaxImagePixels = 40_000_000

func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: "0.0.0.0:3536"},
		Database: DatabaseConfig{
			Driver:   "postgres",
			LogLevel: "warn",
		},
		Media: MediaConfig{
			Root:           "./media",
			URL:            "/media",
			MaxImageWidth:  1200,
			MaxImagePixels: DefaultMaxImagePixels,
		},
	}
}

// LoadConfig loads environment variables from a .env file if present,
// merges the YAML file named by CONFIG_FILE and applies environment overrides.
func LoadConfig() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
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

func (c *Config) mergeFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(content, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.Server.Addr, "HTTP_ADDR")
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.URL, "DB_URL")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.LogLevel, "DB_LOG_LEVEL")
	setString(&c.Media.Root, "MEDIA_ROOT")
	setString(&c.Media.URL, "MEDIA_URL")

	if v := os.Getenv("IMAGE_MAX_WIDTH"); v != "" {
		width, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("IMAGE_MAX_WIDTH must be an integer: %w", err)
		}
		c.Media.MaxImageWidth = width
	}
	if v := os.Getenv("IMAGE_MAX_PIXELS"); v != "" {
		pixels, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("IMAGE_MAX_PIXELS must be an integer: %w", err)
		}
		c.Media.MaxImagePixels = pixels
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.Server.CORSOrigins = append(c.Server.CORSOrigins, origin)
			}
		}
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q (want postgres or sqlite)", c.Database.Driver)
	}
	if c.Media.MaxImageWidth <= 0 {
		return fmt.Errorf("media max_image_width must be positive, got %d", c.Media.MaxImageWidth)
	}
	if c.Media.MaxImagePixels <= 0 {
		return fmt.Errorf("media max_image_pixels must be positive, got %d", c.Media.MaxImagePixels)
	}
	if !strings.HasPrefix(c.Media.URL, "/") {
		return fmt.Errorf("media url must be an absolute path, got %q", c.Media.URL)
	}
	return nil
}
