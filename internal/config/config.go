package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config filename looked up in the working directory
const DefaultFile = "e2e.yaml"

// Config is the surface the core pipeline consumes. The generation
// credential itself never lives here - it comes from the environment.
type Config struct {
	OutputDir string   `yaml:"output_dir"`
	Include   []string `yaml:"include"`
	Exclude   []string `yaml:"exclude"`
	MaxTokens int      `yaml:"max_tokens"`
	Model     string   `yaml:"model"`
	CacheDir  string   `yaml:"cache_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OutputDir: "e2e-tests",
		Include: []string{
			"**/*.tsx", "**/*.jsx", "**/*.ts", "**/*.js",
			"**/*.vue", "**/*.svelte",
		},
		Exclude: []string{
			"**/node_modules/**", "**/dist/**", "**/build/**",
			"**/*.test.*", "**/*.spec.*", "**/*.d.ts",
		},
		MaxTokens: 8000,
		Model:     "gpt-4o-mini",
		CacheDir:  ".e2e",
	}
}

// Load reads the YAML config at path, falling back to defaults when the
// file does not exist. A .env alongside the project is honored when
// present, never required.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.MaxTokens <= 0 {
		return nil, fmt.Errorf("config %s: max_tokens must be positive", path)
	}
	return cfg, nil
}

// Write marshals the config to path, refusing to clobber an existing file.
func (c *Config) Write(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
