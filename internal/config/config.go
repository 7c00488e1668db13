package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	DBPath    string   `yaml:"db_path"`
	PhotosDir string   `yaml:"photos_dir"`
	BackupDir string   `yaml:"backup_dir"`
	Output    string   `yaml:"output"`
	Defaults  Defaults `yaml:"defaults"`
}

// Defaults holds the suggestion lists shown when entering new records.
// It is an explicit value passed into commands that need it, not shared
// process state.
type Defaults struct {
	Manufacturers []string `yaml:"manufacturers"`
	Conditions    []string `yaml:"conditions"`
	Locations     []string `yaml:"locations"`
}

// Load loads configuration from multiple sources with precedence:
// 1. Environment variables
// 2. ./.env.local (dotenv) - walks up parent directories to find it
// 3. ~/.config/omac/config.yaml (YAML)
func Load() (*Config, error) {
	cfg := &Config{
		Output:   "table",
		Defaults: DefaultLists(),
	}

	// Load .env.local if it exists (walking up parent directories)
	if envPath := findEnvLocal(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	// YAML config is optional
	_ = loadYAMLConfig(cfg)

	// Override with environment variables
	if dbPath := os.Getenv("OMAC_DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if photosDir := os.Getenv("OMAC_PHOTOS_DIR"); photosDir != "" {
		cfg.PhotosDir = photosDir
	}
	if backupDir := os.Getenv("OMAC_BACKUP_DIR"); backupDir != "" {
		cfg.BackupDir = backupDir
	}
	if output := os.Getenv("OMAC_OUTPUT"); output != "" {
		cfg.Output = output
	}

	// Set defaults if not configured
	if cfg.DBPath == "" {
		// Check for a project-local collection first
		if _, err := os.Stat(".omac/omac.db"); err == nil {
			cfg.DBPath = ".omac/omac.db"
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			cfg.DBPath = filepath.Join(homeDir, ".local", "share", "omac", "omac.db")
		}
	}

	if cfg.PhotosDir == "" {
		cfg.PhotosDir = filepath.Join(filepath.Dir(cfg.DBPath), "photos")
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = filepath.Join(filepath.Dir(cfg.DBPath), "backups")
	}

	return cfg, nil
}

// DefaultLists returns the built-in suggestion lists. A user config file can
// replace them wholesale.
func DefaultLists() Defaults {
	return Defaults{
		Manufacturers: []string{
			"Hasbro", "Mattel", "McFarlane Toys", "NECA",
			"Bandai", "Hot Toys", "Mezco", "Super7",
		},
		Conditions: []string{
			"Mint in Box", "New", "Like New", "Good", "Fair", "Poor", "Loose",
		},
		Locations: []string{
			"Display Shelf", "Display Case", "Storage Box", "Office", "Attic",
		},
	}
}

// loadYAMLConfig loads configuration from ~/.config/omac/config.yaml
func loadYAMLConfig(cfg *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(homeDir, ".config", "omac", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// findEnvLocal searches for .env.local starting from cwd and walking up
// parent directories. Stops at the user's home directory.
// Returns the path to .env.local if found, empty string otherwise.
func findEnvLocal() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if _, err := os.Stat(".env.local"); err == nil {
			return ".env.local"
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	homeDir = filepath.Clean(homeDir)
	dir := filepath.Clean(cwd)

	for {
		envPath := filepath.Join(dir, ".env.local")
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}

		if dir == homeDir {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return ""
}
