package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigReadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
APP_PORT: "9000"
STORE_DRIVER: memory
JWT_SECRET: secret
GEMINI_RPM: 12
`), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Cleanup(func() { SetConfig(Config{}) })

	LoadConfig()

	assert.Equal(t, "9000", GetConfig("APP_PORT"))
	assert.Equal(t, "memory", GetConfig("STORE_DRIVER"))
	assert.Equal(t, "secret", GetConfig("JWT_SECRET"))
	assert.Equal(t, "12", GetConfig("GEMINI_RPM"))
	assert.Equal(t, "secret", os.Getenv("JWT_SECRET"))
}

func TestGetConfigDefaults(t *testing.T) {
	SetConfig(Config{})

	assert.Equal(t, "8080", GetConfig("APP_PORT"))
	assert.Equal(t, "supabase", GetConfig("STORE_DRIVER"))
	assert.Equal(t, "gemini-2.5-flash", GetConfig("GEMINI_MODEL"))
	assert.Equal(t, "60", GetConfig("GEMINI_RPM"))
	assert.Equal(t, "https://world.openfoodfacts.org", GetConfig("OPENFOODFACTS_URL"))
	assert.Empty(t, GetConfig("NOT_A_KEY"))
}

func TestValidatorCustomRules(t *testing.T) {
	v := NewValidator()

	type sample struct {
		Name     string `validate:"notblank"`
		Unit     string `validate:"unit"`
		Category string `validate:"category"`
		Reason   string `validate:"reason"`
		Meal     string `validate:"mealtype"`
	}

	ok := sample{Name: "Mjölk", Unit: "l", Category: "Mejeri", Reason: "expired", Meal: "middag"}
	assert.NoError(t, v.Struct(ok))

	bad := ok
	bad.Name = "   "
	assert.Error(t, v.Struct(bad))

	bad = ok
	bad.Unit = "portions"
	assert.Error(t, v.Struct(bad))

	bad = ok
	bad.Meal = "brunch"
	assert.Error(t, v.Struct(bad))
}
