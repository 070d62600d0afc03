package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/dotcommander/igbcscore/internal/discovery"
)

// ConfigPaths are tried in order; the first readable file wins.
var ConfigPaths = []string{".igbcrc.yaml", ".igbcrc.yml", ".igbcrc.json"}

// Config represents the igbcscore configuration
type Config struct {
	Format         string          `mapstructure:"format" json:"format" validate:"oneof=console json markdown"`
	Output         string          `mapstructure:"output" json:"output,omitempty"`
	Quiet          bool            `mapstructure:"quiet" json:"quiet"`
	Verbose        bool            `mapstructure:"verbose" json:"verbose"`
	Color          string          `mapstructure:"color" json:"color" validate:"oneof=auto always never"`
	ShowInsights   bool            `mapstructure:"showInsights" json:"showInsights"`
	ShowDetails    bool            `mapstructure:"showDetails" json:"showDetails"`
	FailUnder      int             `mapstructure:"failUnder" json:"failUnder" validate:"gte=0,lte=40"`
	FollowSymlinks bool            `mapstructure:"followSymlinks" json:"followSymlinks"`
	Schemas        SchemaConfig    `mapstructure:"schemas" json:"schemas"`
	Baseline       BaselineConfig  `mapstructure:"baseline" json:"baseline"`
	Server         ServerConfig    `mapstructure:"server" json:"server"`
	Discovery      DiscoveryConfig `mapstructure:"discovery" json:"discovery"`
}

// SchemaConfig contains schema configuration
type SchemaConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
}

// BaselineConfig locates the score baseline file.
type BaselineConfig struct {
	Path string `mapstructure:"path" json:"path" validate:"required"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Addr string `mapstructure:"addr" json:"addr" validate:"required"`
}

// DiscoveryConfig holds snapshot discovery patterns.
type DiscoveryConfig struct {
	Patterns []string `mapstructure:"patterns" json:"patterns" validate:"min=1,dive,required"`
}

// LoadConfig loads configuration from defaults, the first config file found
// (configFile when given) and IGBC_* environment variables.
func LoadConfig(configFile string) (*Config, error) {
	viper.SetDefault("format", "console")
	viper.SetDefault("output", "")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("color", "auto")
	viper.SetDefault("showInsights", true)
	viper.SetDefault("showDetails", false)
	viper.SetDefault("failUnder", 0)
	viper.SetDefault("followSymlinks", false)
	viper.SetDefault("schemas.enabled", true)
	viper.SetDefault("baseline.path", ".igbc-baseline.json")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("discovery.patterns", discovery.DefaultPatterns)

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else {
		for _, path := range ConfigPaths {
			viper.SetConfigFile(path)
			if err := viper.ReadInConfig(); err == nil {
				break
			}
		}
	}

	// IGBC_FORMAT, IGBC_SERVER_ADDR, ...
	viper.SetEnvPrefix("IGBC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig checks struct tags, then the rules that span fields.
func validateConfig(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		return err
	}

	if config.Quiet && config.Verbose {
		return fmt.Errorf("quiet and verbose cannot both be set")
	}

	// json and markdown print to stdout when no output file is given
	if config.Format == "console" && config.Output != "" {
		return fmt.Errorf("output file is only supported for 'json' and 'markdown' formats")
	}

	if _, _, err := net.SplitHostPort(config.Server.Addr); err != nil {
		return fmt.Errorf("invalid server address %q: %w", config.Server.Addr, err)
	}

	return nil
}

// SaveConfig saves the current configuration to a file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
