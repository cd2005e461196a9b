package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, 5175, cfg.port)
	assert.Equal(t, "info", cfg.logLevel)
	assert.Equal(t, 30*time.Minute, cfg.sessionTimeout)
	assert.Empty(t, cfg.dailySalt)
	assert.Equal(t, "http", cfg.scheme())
	assert.NoError(t, cfg.validate())
}

func TestEnvBinding(t *testing.T) {
	t.Setenv("WORDSEARCH_PORT", "9000")
	t.Setenv("WORDSEARCH_DAILY_SALT", "pepper")
	t.Setenv("WORDSEARCH_SESSION_TIMEOUT", "5m")

	cfg := &Config{}
	cmd := newCmd(cfg)
	assert.Equal(t, 9000, cfg.port)
	assert.Equal(t, "pepper", cfg.dailySalt)
	assert.Equal(t, 5*time.Minute, cfg.sessionTimeout)

	// flags win over env
	require.NoError(t, cmd.ParseFlags([]string{"--port", "7000"}))
	assert.Equal(t, 7000, cfg.port)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		newCmd(cfg)
		return cfg
	}

	cfg := base()
	cfg.port = 0
	assert.Error(t, cfg.validate())

	cfg = base()
	cfg.tlsCert = "cert.pem"
	assert.Error(t, cfg.validate())
	cfg.tlsKey = "key.pem"
	assert.NoError(t, cfg.validate())
	assert.Equal(t, "https", cfg.scheme())

	cfg = base()
	cfg.logLevel = "loud"
	assert.Error(t, cfg.validate())

	cfg = base()
	cfg.sessionTimeout = -time.Second
	assert.Error(t, cfg.validate())

	cfg = base()
	cfg.dbPath = ""
	assert.Error(t, cfg.validate())
}

func TestLoadWords(t *testing.T) {
	cfg := &Config{}
	bank, err := loadWords(cfg)
	require.NoError(t, err)
	cats, _ := bank.Stats()
	assert.Positive(t, cats)

	path := filepath.Join(t.TempDir(), "bank.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Animals":["cat","dog","horse"]}`), 0o644))
	cfg.wordsFile = path
	bank, err = loadWords(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"CAT", "DOG", "HORSE"}, bank.Category("Animals"))

	cfg.wordsFile = filepath.Join(t.TempDir(), "missing.json")
	_, err = loadWords(cfg)
	assert.Error(t, err)
}

func TestSessionSecret(t *testing.T) {
	assert.Equal(t, "fixed", sessionSecret(&Config{jwtSecret: "fixed"}))
	a, b := sessionSecret(&Config{}), sessionSecret(&Config{})
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestDailySalt(t *testing.T) {
	assert.Equal(t, "pepper", dailySalt(&Config{dailySalt: "pepper"}, "secret"))

	a := dailySalt(&Config{}, "secret")
	assert.Len(t, a, 64)
	assert.Equal(t, a, dailySalt(&Config{}, "secret"))
	assert.NotEqual(t, a, dailySalt(&Config{}, "other"))
	assert.NotEqual(t, "local_dev_salt", a)
}
