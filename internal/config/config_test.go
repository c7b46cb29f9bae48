package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rcliao/dictamen/internal/model"
	"github.com/rcliao/dictamen/internal/reconcile"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, reconcile.PreferExplicit, cfg.TargetPolicy())
	assert.Empty(t, cfg.Overrides)
	require.NoError(t, cfg.Validate())
}

func validOverride() OverrideConfig {
	return OverrideConfig{
		Chapter:  "VIII",
		Title:    "II",
		Reason:   "source omits unnumbered articles",
		Articles: []ArticleConfig{{Text: "La promoción profesional será un derecho."}},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid default config",
			modify: func(c *Config) {},
		},
		{
			name:   "valid override",
			modify: func(c *Config) { c.Overrides = []OverrideConfig{validOverride()} },
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: "log.level",
		},
		{
			name:    "bad log format",
			modify:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "log.format",
		},
		{
			name:    "bad policy",
			modify:  func(c *Config) { c.Policy.Target = "header" },
			wantErr: "policy.target",
		},
		{
			name: "override without reason",
			modify: func(c *Config) {
				o := validOverride()
				o.Reason = " "
				c.Overrides = []OverrideConfig{o}
			},
			wantErr: "reason is required",
		},
		{
			name: "override without title",
			modify: func(c *Config) {
				o := validOverride()
				o.Title = ""
				c.Overrides = []OverrideConfig{o}
			},
			wantErr: "title is required",
		},
		{
			name: "override without articles",
			modify: func(c *Config) {
				o := validOverride()
				o.Articles = nil
				c.Overrides = []OverrideConfig{o}
			},
			wantErr: "must not be empty",
		},
		{
			name: "override with empty article",
			modify: func(c *Config) {
				o := validOverride()
				o.Articles = append(o.Articles, ArticleConfig{})
				c.Overrides = []OverrideConfig{o}
			},
			wantErr: "articles[1].text",
		},
		{
			name: "duplicate override",
			modify: func(c *Config) {
				o := validOverride()
				dup := validOverride()
				dup.Chapter = "viii"
				c.Overrides = []OverrideConfig{o, dup}
			},
			wantErr: "duplicate override",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
db: /tmp/dictamen-test.db
log:
  level: debug
policy:
  target: text
overrides:
  - chapter: viii
    title: II
    name: De la formación profesional
    reason: the structured statute drops this chapter's unnumbered articles
    articles:
      - text: La promoción profesional será un derecho.
      - title: Formación.
        text: El empleador implementará acciones de formación
        incisos:
          b: segundo
          a: primero
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/tmp/dictamen-test.db", cfg.DB)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format, "unset keys keep defaults")
	assert.Equal(t, reconcile.PreferText, cfg.TargetPolicy())

	overrides := cfg.ChapterOverrides()
	require.Len(t, overrides, 1)
	o := overrides[0]
	assert.Equal(t, "VIII", o.Chapter)
	assert.Equal(t, "II", o.Title)
	require.Len(t, o.Articles, 2)
	assert.Equal(t, "Formación.", o.Articles[1].Title)
	assert.Equal(t, []model.Inciso{{Letter: "a", Text: "primero"}, {Letter: "b", Text: "segundo"}}, o.Articles[1].Incisos)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unclosed"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Overrides = []OverrideConfig{validOverride()}
	require.NoError(t, cfg.SaveToFile(path))

	back, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestLoaderMissingFileUsesDefaults(t *testing.T) {
	l := NewLoader(zaptest.NewLogger(t))
	cfg, err := l.Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoaderRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("overrides:\n  - chapter: VIII\n    title: II\n    articles:\n      - text: x\n"), 0644))

	_, err := NewLoader(nil).Load(path)
	assert.ErrorContains(t, err, "reason is required")
}

func TestPathPrecedence(t *testing.T) {
	l := NewLoader(nil)
	t.Setenv(EnvConfig, "/env/config.yaml")
	assert.Equal(t, "/flag.yaml", l.Path("/flag.yaml"))
	assert.Equal(t, "/env/config.yaml", l.Path(""))

	t.Setenv(EnvConfig, "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, ".dictamen", "config.yaml"), l.Path(""))
}

func TestDBPathPrecedence(t *testing.T) {
	cfg := DefaultConfig()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvDB, "")

	assert.Equal(t, filepath.Join(home, ".dictamen", "dictamen.db"), cfg.DBPath(""))
	cfg.DB = "/cfg.db"
	assert.Equal(t, "/cfg.db", cfg.DBPath(""))
	t.Setenv(EnvDB, "/env.db")
	assert.Equal(t, "/env.db", cfg.DBPath(""))
	assert.Equal(t, "/flag.db", cfg.DBPath("/flag.db"))
}
