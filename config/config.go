package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	FileName = "docsum.yaml"

	DefaultOpenAIModel = "gpt-4o"
	DefaultGeminiModel = "gemini-2.5-flash"
)

// Config holds all configuration for the summarizer.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Chunk   ChunkConfig   `yaml:"chunk"`
	Output  OutputConfig  `yaml:"output"`
	Walk    WalkConfig    `yaml:"walk"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig holds the completion backend configuration.
type LLMConfig struct {
	Provider string        `yaml:"provider"` // "openai" or "gemini"
	Model    string        `yaml:"model"`
	BaseURL  string        `yaml:"base_url"`
	Retries  int           `yaml:"retries"`
	Backoff  time.Duration `yaml:"backoff"`
}

// ChunkConfig holds chunking configuration.
type ChunkConfig struct {
	MaxTokens int    `yaml:"max_tokens"`
	Encoding  string `yaml:"encoding"` // model or encoding name, or "approx"
}

// OutputConfig holds where and how summaries are written.
type OutputConfig struct {
	Format string `yaml:"format"` // "text", "markdown" or "docx"
	Dir    string `yaml:"dir"`    // relative to the input directory
}

// WalkConfig holds directory walk patterns.
type WalkConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// CacheConfig holds the partial-summary cache configuration.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "openai",
			Retries:  3,
			Backoff:  8 * time.Second,
		},
		Chunk: ChunkConfig{
			MaxTokens: 1000,
			Encoding:  "gpt-3.5-turbo",
		},
		Output: OutputConfig{
			Format: "text",
			Dir:    "summaries",
		},
		Walk: WalkConfig{
			Includes: []string{"**/*"},
			Excludes: []string{"**/.git/**", "**/node_modules/**"},
		},
		Cache: CacheConfig{
			Enabled: false,
			Size:    256,
			TTL:     time.Hour,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for docsum.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".docsum", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Env holds the values taken from the process environment.
type Env struct {
	Model         string `env:"DOCUMENT_SUMMARIZER_MODEL"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	LogLevel      string `env:"LOG_LEVEL"`
}

// LoadEnv loads a .env file from the working directory, if any, and parses
// the environment.
func LoadEnv() (Env, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Env{}, err
	}
	return ParseEnv()
}

// ParseEnv parses the environment without touching .env files.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}

// ApplyEnv overlays environment values on top of the file configuration.
func (c *Config) ApplyEnv(e Env) {
	if e.Model != "" {
		c.LLM.Model = e.Model
	}
	if e.OpenAIBaseURL != "" && c.LLM.BaseURL == "" {
		c.LLM.BaseURL = e.OpenAIBaseURL
	}
	if e.LogLevel != "" {
		c.Logging.Level = e.LogLevel
	}
}

// ResolveModel picks the model: the flag value, then the configured model
// (environment already applied), then the provider default.
func (c *Config) ResolveModel(flag string) string {
	if flag != "" {
		return flag
	}
	if c.LLM.Model != "" {
		return c.LLM.Model
	}
	if strings.EqualFold(c.LLM.Provider, "gemini") {
		return DefaultGeminiModel
	}
	return DefaultOpenAIModel
}

// APIKey returns the credential for the configured provider.
func (c *Config) APIKey(e Env) string {
	if strings.EqualFold(c.LLM.Provider, "gemini") {
		return e.GeminiAPIKey
	}
	return e.OpenAIAPIKey
}
