package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"stratint/outlook/app/ai"
	"stratint/outlook/app/env"
	"stratint/outlook/app/filter"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config represents the application configuration
type Config struct {
	LLM            LLMConfig           `yaml:"llm"`
	Feeds          FeedsConfig         `yaml:"feeds"`
	Filter         FilterConfig        `yaml:"filter"`
	Logging        LoggingConfig       `yaml:"logging"`
	Digest         DigestConfig        `yaml:"digest"`
	DefaultCountry string              `yaml:"default_country"`
	Countries      []string            `yaml:"countries"`
	Topics         []Topic             `yaml:"topics"`
	LawFirms       map[string][]string `yaml:"law_firms"`
}

type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
}

type FeedsConfig struct {
	PerSourceLimit int           `yaml:"per_source_limit"`
	MaxItems       int           `yaml:"max_items"`
	Timeout        time.Duration `yaml:"timeout"`
	UserAgent      string        `yaml:"user_agent"`
}

type FilterConfig struct {
	Policy string `yaml:"policy"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DigestConfig describes the RSS channel written by scan --digest. An empty
// Link falls back to the digest file's own URL.
type DigestConfig struct {
	Title string `yaml:"title"`
	Link  string `yaml:"link"`
}

// Topic maps a label to its feed sources and relevance keywords.
type Topic struct {
	Name     string   `yaml:"name"`
	Sources  []string `yaml:"sources"`
	Keywords []string `yaml:"keywords"`
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse built-in config: %w", err)
	}
	return &cfg, nil
}

// Load reads the built-in configuration, decodes the optional file at path on
// top of it and applies environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := env.ReadEnv("STRATINT_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := env.ReadEnv("STRATINT_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := env.ReadEnv("STRATINT_LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := env.ReadEnv("STRATINT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Credential returns the LLM API key from the environment, if any.
func Credential() string {
	return env.ReadEnv("STRATINT_API_KEY", "LLM_API_KEY", "GROQ_API_KEY")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !ai.KnownProvider(c.LLM.Provider) {
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive")
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive")
	}
	if c.Feeds.PerSourceLimit <= 0 {
		return fmt.Errorf("feeds.per_source_limit must be positive")
	}
	if c.Feeds.MaxItems <= 0 {
		return fmt.Errorf("feeds.max_items must be positive")
	}
	if c.Feeds.Timeout <= 0 {
		return fmt.Errorf("feeds.timeout must be positive")
	}
	if _, err := filter.ParsePolicy(c.Filter.Policy); err != nil {
		return fmt.Errorf("filter.policy: %w", err)
	}
	if len(c.Countries) == 0 {
		return fmt.Errorf("countries must not be empty")
	}
	if c.DefaultCountry != "" && c.Country(c.DefaultCountry) == "" {
		return fmt.Errorf("default_country %q is not in countries", c.DefaultCountry)
	}
	if len(c.Topics) == 0 {
		return fmt.Errorf("topics must not be empty")
	}
	seen := make(map[string]bool, len(c.Topics))
	for _, t := range c.Topics {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return fmt.Errorf("topic name is required")
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("duplicate topic %q", name)
		}
		seen[key] = true
		if len(t.Sources) == 0 {
			return fmt.Errorf("topic %q has no sources", name)
		}
	}
	return nil
}

// Topic looks a topic up by name, case-insensitively.
func (c *Config) Topic(name string) (Topic, bool) {
	for _, t := range c.Topics {
		if strings.EqualFold(strings.TrimSpace(t.Name), strings.TrimSpace(name)) {
			return t, true
		}
	}
	return Topic{}, false
}

// Country returns the canonical spelling of name if it is an enumerated
// country, or "" otherwise.
func (c *Config) Country(name string) string {
	for _, country := range c.Countries {
		if strings.EqualFold(country, strings.TrimSpace(name)) {
			return country
		}
	}
	return ""
}

// TopicNames returns the catalogue order.
func (c *Config) TopicNames() []string {
	names := make([]string, 0, len(c.Topics))
	for _, t := range c.Topics {
		names = append(names, t.Name)
	}
	return names
}
