package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "EVENT_ID", "ACTIVITY_RETENTION", "ACTIVITY_PAGE_SIZE", "REDIS_ADDR", "QR_SIZE", "ROSTER_FILE"} {
		t.Setenv(k, "")
	}
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "TECHFEST2024", cfg.Event.ID)
	assert.Equal(t, 50, cfg.Activity.Retention)
	assert.Equal(t, 20, cfg.Activity.PageSize)
	assert.Equal(t, 256, cfg.Event.QRSize)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("EVENT_ID", "HACKDAY")
	t.Setenv("ACTIVITY_RETENTION", "100")
	t.Setenv("ACTIVITY_PAGE_SIZE", "10")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("READ_TIMEOUT_SEC", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "HACKDAY", cfg.Event.ID)
	assert.Equal(t, 100, cfg.Activity.Retention)
	assert.Equal(t, 10, cfg.Activity.PageSize)
	assert.Equal(t, 30, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_RejectsPageLargerThanRetention(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ACTIVITY_RETENTION", "10")
	t.Setenv("ACTIVITY_PAGE_SIZE", "20")

	_, err := Load()
	assert.ErrorContains(t, err, "ACTIVITY_PAGE_SIZE")
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
