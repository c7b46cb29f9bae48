// Package config provides configuration loading for dictamen.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/dictamen/internal/model"
	"github.com/rcliao/dictamen/internal/reconcile"
)

// Config represents the complete dictamen configuration
type Config struct {
	// DB is the SQLite database path (empty = ~/.dictamen/dictamen.db)
	DB        string           `yaml:"db"`
	Log       LogConfig        `yaml:"log"`
	Policy    PolicyConfig     `yaml:"policy"`
	Overrides []OverrideConfig `yaml:"overrides"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `yaml:"level"`
	// Format is console or json (default: console)
	Format string `yaml:"format"`
}

// PolicyConfig configures target resolution
type PolicyConfig struct {
	// Target decides explicit-vs-text conflicts: explicit (default) or text
	Target string `yaml:"target"`
}

// OverrideConfig lists the literal articles of a chapter the statute source
// leaves unstructured, so a chapter repeal can still enumerate them.
type OverrideConfig struct {
	Chapter  string          `yaml:"chapter"`
	Title    string          `yaml:"title"`
	Name     string          `yaml:"name"`
	Reason   string          `yaml:"reason"`
	Articles []ArticleConfig `yaml:"articles"`
}

// ArticleConfig is one literal article of an override.
type ArticleConfig struct {
	Title   string            `yaml:"title,omitempty"`
	Text    string            `yaml:"text"`
	Incisos map[string]string `yaml:"incisos,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		DB: "", // ~/.dictamen/dictamen.db
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Policy: PolicyConfig{
			Target: "explicit",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json")
	}
	if _, err := reconcile.ParseTargetPolicy(c.Policy.Target); err != nil {
		return fmt.Errorf("policy.target: %w", err)
	}

	seen := make(map[string]bool)
	for i, o := range c.Overrides {
		chapter := strings.ToUpper(strings.TrimSpace(o.Chapter))
		switch {
		case chapter == "":
			return fmt.Errorf("overrides[%d].chapter is required", i)
		case strings.TrimSpace(o.Reason) == "":
			return fmt.Errorf("overrides[%d].reason is required (chapter %s)", i, chapter)
		case strings.TrimSpace(o.Title) == "":
			return fmt.Errorf("overrides[%d].title is required (chapter %s)", i, chapter)
		case len(o.Articles) == 0:
			return fmt.Errorf("overrides[%d].articles must not be empty (chapter %s)", i, chapter)
		case seen[chapter]:
			return fmt.Errorf("overrides[%d]: duplicate override for chapter %s", i, chapter)
		}
		seen[chapter] = true
		for j, a := range o.Articles {
			if strings.TrimSpace(a.Text) == "" {
				return fmt.Errorf("overrides[%d].articles[%d].text is required", i, j)
			}
		}
	}
	return nil
}

// TargetPolicy returns the parsed target resolution policy.
func (c *Config) TargetPolicy() reconcile.TargetPolicy {
	p, _ := reconcile.ParseTargetPolicy(c.Policy.Target)
	return p
}

// ChapterOverrides converts the configured overrides for the engine.
func (c *Config) ChapterOverrides() []reconcile.ChapterOverride {
	out := make([]reconcile.ChapterOverride, 0, len(c.Overrides))
	for _, o := range c.Overrides {
		co := reconcile.ChapterOverride{
			Chapter: strings.ToUpper(strings.TrimSpace(o.Chapter)),
			Title:   strings.TrimSpace(o.Title),
			Name:    o.Name,
			Reason:  o.Reason,
		}
		for _, a := range o.Articles {
			co.Articles = append(co.Articles, a.content())
		}
		out = append(out, co)
	}
	return out
}

func (a ArticleConfig) content() model.Content {
	c := model.Content{Title: a.Title, Text: strings.TrimSpace(a.Text)}
	for letter, text := range a.Incisos {
		c.Incisos = append(c.Incisos, model.Inciso{Letter: strings.ToLower(letter), Text: text})
	}
	sort.Slice(c.Incisos, func(i, j int) bool { return c.Incisos[i].Letter < c.Incisos[j].Letter })
	return c
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
