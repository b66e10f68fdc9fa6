package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storecal/internal/model"
)

// writeFixture writes an events file and a config pointing at it.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	events := []model.Event{
		{ID: 1, Title: "Kill Team", Date: "2024-03-05", StartTime: "18:00",
			Location: model.Location{ID: 2, Name: "Dice Castle"}, GameSystem: model.GameSystem{ID: 1, Name: "Warhammer 40K"}},
		{ID: 2, Title: "Draft", Date: "2024-03-05",
			Location: model.Location{ID: 2, Name: "Dice Castle"}, GameSystem: model.GameSystem{ID: 2, Name: "Magic"}},
	}
	data, err := json.Marshal(events)
	require.NoError(t, err)
	eventsPath := filepath.Join(dir, "events.json")
	require.NoError(t, os.WriteFile(eventsPath, data, 0o600))

	cfg := "source:\n  kind: file\n  path: " + eventsPath + "\n"
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestMonthCommand(t *testing.T) {
	cfgPath := writeFixture(t)

	out, err := run(t, "month", "--config", cfgPath, "--today", "2024-03-05", "--select", "2024-03-05")
	require.NoError(t, err)
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "[Warhammer 40K] Kill Team")
	assert.Contains(t, out, "6:00 pm · Dice Castle")

	out, err = run(t, "month", "--config", cfgPath, "--today", "2024-03-05", "--month", "2024-04", "--select", "")
	require.NoError(t, err)
	assert.Contains(t, out, "April 2024")
	assert.NotContains(t, out, "Kill Team")
}

func TestMonthCommand_BadFlags(t *testing.T) {
	cfgPath := writeFixture(t)

	_, err := run(t, "month", "--config", cfgPath, "--today", "yesterday")
	assert.Error(t, err)

	_, err = run(t, "month", "--config", cfgPath, "--today", "2024-03-05", "--month", "2024-13")
	assert.Error(t, err)

	_, err = run(t, "month", "--config", cfgPath, "--today", "2024-03-05", "--month", "", "--log-level", "loud")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	cfgPath := writeFixture(t)
	outPath := filepath.Join(t.TempDir(), "feed.ics")

	_, err := run(t, "export", "--config", cfgPath, "--today", "2024-03-05", "--log-level", "error", "-o", outPath, "--domain", "shop.test")
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	body := string(data)
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
	assert.Contains(t, body, "UID:event-1@shop.test")
	assert.Contains(t, body, "SUMMARY:Draft")
}

func TestSnapshotQuery(t *testing.T) {
	q, err := snapshotQuery("", "")
	require.NoError(t, err)
	assert.Empty(t, q)

	q, err = snapshotQuery("2024-03", "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, "?month=2024-03&selected=2024-03-05", q)

	_, err = snapshotQuery("2024-3", "")
	assert.Error(t, err)
	_, err = snapshotQuery("", "2024-03-32")
	assert.Error(t, err)
}

func TestHashPasswordCommand(t *testing.T) {
	cfgPath := writeFixture(t)

	rootCmd.SetIn(strings.NewReader("hunter2\n"))
	out, err := run(t, "hash-password", "--config", cfgPath, "--save", "--user", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, `basic auth for "admin" saved`)

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "password_hash:")
	assert.Contains(t, string(data), "$argon2id$v=19$")
	assert.Contains(t, string(data), "kind: file", "existing settings survive")

	rootCmd.SetIn(strings.NewReader(""))
	_, err = run(t, "hash-password", "--config", cfgPath, "--save=false")
	assert.Error(t, err)
}
