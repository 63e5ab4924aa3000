package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/searchkit/pkg/config"
)

type TestConfigSuccess struct {
	TestString string `env:"TEST_STRING_SUCCESS" envDefault:"default_value"`
	TestInt    int    `env:"TEST_INT_SUCCESS" envDefault:"42"`
	TestBool   bool   `env:"TEST_BOOL_SUCCESS" envDefault:"true"`
}

type TestConfigDefault struct {
	TestString string `env:"TEST_STRING_DEFAULT" envDefault:"default_value"`
	TestInt    int    `env:"TEST_INT_DEFAULT" envDefault:"42"`
}

type TestConfigCached struct {
	Value string `env:"TEST_STRING_CACHED" envDefault:"default_value"`
}

type RequiredConfig struct {
	Required string `env:"REQUIRED_VALUE,required"`
}

type CustomEnvConfig struct {
	String string   `env:"TEST_CUSTOM_STRING"`
	Int    int      `env:"TEST_CUSTOM_INT"`
	List   []string `env:"TEST_CUSTOM_LIST" envSeparator:","`
	Quoted string   `env:"TEST_CUSTOM_QUOTED"`
	Only   string   `env:"TEST_OVERRIDE_ONLY"`
}

func TestLoad_Success(t *testing.T) {
	t.Setenv("TEST_STRING_SUCCESS", "test_value")
	t.Setenv("TEST_INT_SUCCESS", "100")
	t.Setenv("TEST_BOOL_SUCCESS", "false")
	config.ResetCache()

	var cfg TestConfigSuccess
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "test_value", cfg.TestString)
	assert.Equal(t, 100, cfg.TestInt)
	assert.False(t, cfg.TestBool)
}

func TestLoad_DefaultValues(t *testing.T) {
	os.Unsetenv("TEST_STRING_DEFAULT")
	os.Unsetenv("TEST_INT_DEFAULT")
	config.ResetCache()

	var cfg TestConfigDefault
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "default_value", cfg.TestString)
	assert.Equal(t, 42, cfg.TestInt)
}

func TestLoad_Cached(t *testing.T) {
	t.Setenv("TEST_STRING_CACHED", "first_value")
	config.ResetCache()

	var first TestConfigCached
	require.NoError(t, config.Load(&first))

	t.Setenv("TEST_STRING_CACHED", "second_value")

	var second TestConfigCached
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first_value", second.Value, "second load is served from cache")

	config.ResetCache()
	var third TestConfigCached
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "second_value", third.Value)
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("REQUIRED_VALUE")
	config.ResetCache()

	var cfg RequiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	t.Setenv("REQUIRED_VALUE", "now set")
	require.NoError(t, config.Load(&cfg), "a failed load can be retried")
	assert.Equal(t, "now set", cfg.Required)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *TestConfigSuccess
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestMustLoad_Panics(t *testing.T) {
	os.Unsetenv("REQUIRED_VALUE")
	config.ResetCache()

	assert.Panics(t, func() {
		var cfg RequiredConfig
		config.MustLoad(&cfg)
	})
}

func TestLoadEnv(t *testing.T) {
	for _, key := range []string{"TEST_CUSTOM_STRING", "TEST_CUSTOM_INT", "TEST_CUSTOM_LIST", "TEST_CUSTOM_QUOTED", "TEST_OVERRIDE_ONLY"} {
		os.Unsetenv(key)
		t.Cleanup(func() { os.Unsetenv(key) })
	}
	config.ResetCache()

	require.NoError(t, config.LoadEnv("testdata/.env.custom", "testdata/.env.override"))

	var cfg CustomEnvConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "custom_value", cfg.String, "earlier file wins")
	assert.Equal(t, 1234, cfg.Int)
	assert.Equal(t, []string{"item1", "item2", "item3"}, cfg.List)
	assert.Equal(t, "quoted value", cfg.Quoted)
	assert.Equal(t, "from_override", cfg.Only)
}

func TestLoadEnv_MissingFile(t *testing.T) {
	err := config.LoadEnv("testdata/.env.missing")
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}
