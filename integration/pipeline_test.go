//go:build basic

// Package integration contains integration tests for trendspot.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Or use: make test-integration
package integration

import (
	"bytes"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTrendspotPipeline exercises the full ingest-then-evaluate flow against
// the default SQLite backends, isolated via a throwaway HOME.
func TestTrendspotPipeline(t *testing.T) {
	home := t.TempDir()
	eventsFile := writeEventsFile(t, home)

	run := func(args ...string) (string, error) {
		cmd := exec.Command(getTrendspotBinary(), args...)
		cmd.Dir = home
		cmd.Env = append(cmd.Env, "HOME="+home, "PATH=/usr/bin:/bin")
		var out bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &out
		err := cmd.Run()
		return out.String(), err
	}

	// 1. Ingest the raw feed into the series store
	out, err := run("ingest", eventsFile, "--period", "1 day")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Ingested 6 events")

	// 2. Series store should now report both items
	out, err = run("series", "status")
	require.NoError(t, err, out)
	assert.Contains(t, out, "sqlite")

	// 3. Evaluate the stored series without re-reading the feed
	out, err = run("items", "--period", "1 day", "--limit", "5", "--color", "no")
	require.NoError(t, err, out)
	assert.Contains(t, out, "widget-b")
	assert.Contains(t, out, "rising")

	// 4. One item's trajectory covers all three buckets
	out, err = run("timeseries", "--item", "widget-a", "--period", "1 day", "--color", "no")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Trajectory for widget-a across 3 buckets")

	// 5. Full score batch prints the distribution summary
	out, err = run("scores", "--period", "1 day", "--color", "no")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Scored 2 items")

	// 6. Clearing the store makes later reads fail cleanly
	out, err = run("series", "clear")
	require.NoError(t, err, out)
	assert.Contains(t, out, "cleared successfully")

	out, err = run("items", "--period", "1 day", "--color", "no")
	require.Error(t, err)
	assert.True(t, strings.Contains(out, "no item series found") || strings.Contains(out, "Cannot run"), out)
}
