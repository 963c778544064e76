package content_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/contentops/content-tracker/internal/content"
)

func TestParseDate(t *testing.T) {
	d, err := content.ParseDate("2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-09", d.String())
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := content.ParseDate("not-a-date")
	require.Error(t, err)

	_, err = content.ParseDate("2025-13-40")
	require.Error(t, err)
}

func TestDateOf_TruncatesTime(t *testing.T) {
	d := content.DateOf(time.Date(2025, 3, 9, 23, 59, 58, 0, time.UTC))
	assert.Equal(t, "2025-03-09", d.String())
}

func TestDate_ZeroValue(t *testing.T) {
	var d content.Date
	assert.True(t, d.IsZero())
	assert.Equal(t, "", d.String())
}

func TestDate_Before(t *testing.T) {
	earlier, err := content.ParseDate("2024-12-31")
	require.NoError(t, err)
	later, err := content.ParseDate("2025-01-01")
	require.NoError(t, err)

	assert.True(t, earlier.Before(later))
	assert.False(t, later.Before(earlier))
	assert.False(t, earlier.Before(earlier))
}

func TestDate_YAMLRoundTrip(t *testing.T) {
	d, err := content.ParseDate("2025-03-09")
	require.NoError(t, err)

	out, err := yaml.Marshal(d)
	require.NoError(t, err)

	var asString string
	require.NoError(t, yaml.Unmarshal(out, &asString))
	assert.Equal(t, "2025-03-09", asString)

	var back content.Date
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.True(t, d.Equal(back))
}

func TestDate_YAMLNull(t *testing.T) {
	var d content.Date
	require.NoError(t, yaml.Unmarshal([]byte("null"), &d))
	assert.True(t, d.IsZero())
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d, err := content.ParseDate("2025-03-09")
	require.NoError(t, err)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-09"`, string(out))

	var back content.Date
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, d.Equal(back))

	var zero content.Date
	out, err = json.Marshal(zero)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
