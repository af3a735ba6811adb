package config

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	OutputPath string
	Strict     bool
	Patterns   []string
}

// Load reads configuration from config files and the environment.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".tinybird-go")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "tinybird-go"))

	viper.SetEnvPrefix("TINYBIRD_GO")
	viper.AutomaticEnv()

	viper.SetDefault("output_path", "tinybird_migration.go")
	viper.SetDefault("strict", true)
	viper.SetDefault("patterns", []string{"."})

	// Missing config file is fine; defaults apply.
	_ = viper.ReadInConfig()

	// Load .env then .env.local (higher priority) if present.
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := &Config{
		OutputPath: viper.GetString("output_path"),
		Strict:     viper.GetBool("strict"),
		Patterns:   viper.GetStringSlice("patterns"),
	}

	return cfg, nil
}

// Save writes the configuration to the user config directory.
func Save(cfg *Config) error {
	viper.Set("output_path", cfg.OutputPath)
	viper.Set("strict", cfg.Strict)
	viper.Set("patterns", cfg.Patterns)

	home, err := homedir.Dir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(home, ".config", "tinybird-go")
	if err := AppFs.MkdirAll(configPath, 0755); err != nil {
		return err
	}

	configFile := filepath.Join(configPath, ".tinybird-go.yaml")
	return viper.WriteConfigAs(configFile)
}
