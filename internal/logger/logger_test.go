package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	require.NoError(t, Init(Config{Level: "warn", Output: "stderr"}))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	require.NoError(t, Init(Config{Level: "error", Debug: true}))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel(), "debug overrides level")

	SetLevel(zerolog.InfoLevel)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestSetLevelReachesComponentLoggers(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	require.NoError(t, Init(Config{Level: "info"}))
	l := WithComponent("presence")

	SetLevel(zerolog.ErrorLevel)
	assert.Nil(t, l.Info())

	SetLevel(zerolog.DebugLevel)
	assert.NotNil(t, l.Debug())
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(Config{})
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)

	level, err = ParseLevel(Config{Level: "Warn"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, level)

	_, err = ParseLevel(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewAcceptsUppercaseLevel(t *testing.T) {
	l, err := New(Config{Level: "DEBUG"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEBUG", "yes")
	t.Setenv("LOG_OUTPUT", "stderr")

	cfg := DefaultConfig()
	assert.Equal(t, "debug", cfg.Level)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "stderr", cfg.Output)
}

func TestWithComponent(t *testing.T) {
	l := WithComponent("presence")
	assert.NotEqual(t, zerolog.Disabled, l.GetLevel())
}

func TestNewTestLogger(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, NewTestLogger().GetLevel())
}
