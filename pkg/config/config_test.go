package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "https://backendd-8.onrender.com", cfg.Backend.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.Backend.Timeout)
	assert.Equal(t, SettingsStoreFile, cfg.Settings.Store)
	assert.Equal(t, "Term 1", cfg.Settings.DefaultTerm)
	assert.Equal(t, []string{"Term 1", "Term 2", "Term 3"}, cfg.Catalog.Terms)
	assert.Equal(t, 12, cfg.Catalog.GradeCount)
	assert.EqualValues(t, 50000, cfg.Catalog.FeeTarget)
	assert.Equal(t, 20, cfg.Exports.Keep)
	require.Len(t, cfg.Catalog.Activities, 7)
	assert.Equal(t, ActivityEntry{ID: 4, Name: "Drama Club", Fee: 1000}, cfg.Catalog.Activities[0])
	assert.Equal(t, ActivityEntry{ID: 10, Name: "Swimming", Fee: 1500}, cfg.Catalog.Activities[6])
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("BACKEND_BASE_URL", "http://localhost:9000/")
	v.Set("BACKEND_TIMEOUT", "5s")
	v.Set("SETTINGS_STORE", " Redis ")
	v.Set("ACTIVITY_CATALOG", "1:Chess:600")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, SettingsStoreRedis, cfg.Settings.Store)
	assert.Equal(t, []ActivityEntry{{ID: 1, Name: "Chess", Fee: 600}}, cfg.Catalog.Activities)
}

func TestFromViperRejectsInvalidCatalog(t *testing.T) {
	cases := map[string][2]string{
		"negative grade count": {"GRADE_COUNT", "-1"},
		"zero grade count":     {"GRADE_COUNT", "0"},
		"zero fee target":      {"FEE_TARGET", "0"},
		"negative fee target":  {"FEE_TARGET", "-50000"},
		"unknown default term": {"DEFAULT_TERM", "Term 9"},
	}
	for name, override := range cases {
		v := viper.New()
		setDefaults(v)
		v.Set(override[0], override[1])

		_, err := fromViper(v)
		assert.Error(t, err, name)
	}
}

func TestFromViperDefaultTermWithoutTerms(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("TERMS", "")
	v.Set("DEFAULT_TERM", "Spring")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Empty(t, cfg.Catalog.Terms)
}

func TestParseActivityCatalogRejectsMalformedEntries(t *testing.T) {
	cases := []string{
		"4:Drama Club",
		"x:Drama Club:1000",
		"4:Drama Club:lots",
		"4: :1000",
	}
	for _, raw := range cases {
		_, err := ParseActivityCatalog(raw)
		assert.Error(t, err, raw)
	}

	entries, err := ParseActivityCatalog("")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}
