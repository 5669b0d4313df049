package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratint/outlook/app/filter"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STRATINT_LLM_PROVIDER", "STRATINT_LLM_MODEL", "STRATINT_LLM_BASE_URL", "STRATINT_LOG_LEVEL",
		"STRATINT_API_KEY", "LLM_API_KEY", "GROQ_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 900, cfg.LLM.MaxTokens)
	assert.Equal(t, 6, cfg.Feeds.PerSourceLimit)
	assert.Equal(t, 8, cfg.Feeds.MaxItems)
	assert.Equal(t, 15*time.Second, cfg.Feeds.Timeout)
	assert.Equal(t, "all", cfg.Filter.Policy)
	assert.Equal(t, "Australia", cfg.DefaultCountry)
	assert.Equal(t, []string{"Australia", "New Zealand", "India", "South Korea", "Japan"}, cfg.Countries)
	assert.Equal(t, "STRAT-INT Renewable Outlook", cfg.Digest.Title)
	assert.Empty(t, cfg.Digest.Link)
	assert.Len(t, cfg.Topics, 6)
	assert.NotEmpty(t, cfg.LawFirms["India"])
	for _, topic := range cfg.Topics {
		assert.NotEmpty(t, topic.Sources, topic.Name)
	}
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
llm:
  provider: anthropic
  max_tokens: 1200
default_country: India
topics:
  - name: Offshore Wind
    sources: ["https://example.com/feed"]
    keywords: [offshore]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 1200, cfg.LLM.MaxTokens)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout, "untouched keys keep their defaults")
	assert.Equal(t, "India", cfg.DefaultCountry)
	assert.Equal(t, []string{"Offshore Wind"}, cfg.TopicNames())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STRATINT_LLM_PROVIDER", "openai")
	t.Setenv("STRATINT_LLM_MODEL", "gpt-4o")
	t.Setenv("STRATINT_LLM_BASE_URL", "http://localhost:8080/v1")
	t.Setenv("STRATINT_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "http://localhost:8080/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeFile(t, "llm: [not, a, map]"))
	assert.ErrorContains(t, err, "failed to parse config file")

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"provider", "llm: {provider: mystery}", `llm.provider "mystery" is not supported`},
		{"policy", "filter: {policy: maybe}", "filter.policy"},
		{"limit", "feeds: {per_source_limit: 0}", "feeds.per_source_limit must be positive"},
		{"country", "default_country: Atlantis", `default_country "Atlantis" is not in countries`},
		{"no sources", "topics: [{name: Empty}]", `topic "Empty" has no sources`},
		{"duplicate", "topics: [{name: A, sources: [x]}, {name: a, sources: [y]}]", `duplicate topic "a"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCredential(t *testing.T) {
	clearEnv(t)
	assert.Empty(t, Credential())

	t.Setenv("GROQ_API_KEY", "groq")
	assert.Equal(t, "groq", Credential())

	t.Setenv("STRATINT_API_KEY", " primary ")
	assert.Equal(t, "primary", Credential())
}

func TestNewRunConfig_Defaults(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	rc, err := NewRunConfig(cfg, RunOptions{})
	require.NoError(t, err)

	assert.Len(t, rc.Topics(), len(cfg.Topics))
	assert.Equal(t, "Australia", rc.Country())
	assert.Equal(t, filter.PolicyAll, rc.Policy())
	assert.Equal(t, 1, rc.Concurrency())
	assert.Equal(t, 6, rc.PerSourceLimit())
	assert.Equal(t, 8, rc.MaxItems())
	assert.Empty(t, rc.Credential())
}

func TestNewRunConfig_Selection(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	rc, err := NewRunConfig(cfg, RunOptions{
		Topics:      []string{"demand", "RENEWABLES"},
		Country:     "south korea",
		Credential:  "  key ",
		Policy:      "keyword",
		Concurrency: 4,
	})
	require.NoError(t, err)

	topics := rc.Topics()
	require.Len(t, topics, 2)
	assert.Equal(t, "Demand", topics[0].Name)
	assert.Equal(t, "Renewables", topics[1].Name)
	assert.Equal(t, "South Korea", rc.Country())
	assert.Equal(t, "key", rc.Credential())
	assert.Equal(t, filter.PolicyKeyword, rc.Policy())
	assert.Equal(t, 4, rc.Concurrency())
}

func TestNewRunConfig_Rejects(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	_, err = NewRunConfig(cfg, RunOptions{Topics: []string{"Renewables", "Crypto"}})
	assert.EqualError(t, err, `unknown topic "Crypto"`)

	_, err = NewRunConfig(cfg, RunOptions{Country: "Atlantis"})
	assert.ErrorContains(t, err, `unknown country "Atlantis"`)

	_, err = NewRunConfig(cfg, RunOptions{Policy: "sometimes"})
	assert.Error(t, err)
}

func TestRunConfig_IsImmutable(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	rc, err := NewRunConfig(cfg, RunOptions{Topics: []string{"Renewables"}})
	require.NoError(t, err)

	topics := rc.Topics()
	topics[0].Name = "changed"
	topics[0].Sources[0] = "changed"
	firms := rc.LawFirms()
	firms["India"] = nil
	countries := rc.Countries()
	countries[0] = "changed"

	cfg.Topics[1].Keywords[0] = "changed"

	again := rc.Topics()
	assert.Equal(t, "Renewables", again[0].Name)
	assert.NotEqual(t, "changed", again[0].Sources[0])
	assert.NotEqual(t, "changed", again[0].Keywords[0])
	assert.NotEmpty(t, rc.LawFirms()["India"])
	assert.Equal(t, "Australia", rc.Countries()[0])
}
