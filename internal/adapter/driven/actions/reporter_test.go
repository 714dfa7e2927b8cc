package actions_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/stale-issues/internal/adapter/driven/actions"
)

func TestReporter_InfoAndWarning(t *testing.T) {
	var out bytes.Buffer
	r := actions.NewReporter(&out, "")

	r.Info("Found 2 issues with stale label")
	r.Warning("Couldn't get labeling date\nfor issue #3 (100%)")

	assert.Equal(t,
		"Found 2 issues with stale label\n"+
			"::warning::Couldn't get labeling date%0Afor issue #3 (100%25)\n",
		out.String())
	assert.False(t, r.Failed())
}

func TestReporter_Fail(t *testing.T) {
	var out bytes.Buffer
	r := actions.NewReporter(&out, "")

	r.Fail("closing owner/repo#1: 403 Forbidden")

	assert.Equal(t, "::error::closing owner/repo#1: 403 Forbidden\n", out.String())
	assert.True(t, r.Failed())
}

func TestReporter_SetOutput_NoFile(t *testing.T) {
	var out bytes.Buffer
	r := actions.NewReporter(&out, "")

	require.NoError(t, r.SetOutput("closed-issues", []int{4, 7}))
	require.NoError(t, r.SetOutput("note", "plain"))

	assert.Equal(t, "closed-issues=[4,7]\nnote=plain\n", out.String())
}

func TestReporter_SetOutput_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "github_output")
	require.NoError(t, os.WriteFile(path, []byte("existing=1\n"), 0o644))

	var out bytes.Buffer
	r := actions.NewReporter(&out, path)

	require.NoError(t, r.SetOutput("closed-issues", []int{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "existing=1", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "closed-issues<<ghadelimiter_"))
	delimiter := strings.TrimPrefix(lines[1], "closed-issues<<")
	assert.Equal(t, "[]", lines[2])
	assert.Equal(t, delimiter, lines[3])
	assert.Empty(t, out.String(), "nothing should be printed when an output file is configured")
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	err := actions.WriteReport(path, actions.RunReport{
		Repository: "owner/repo",
		StaleLabel: "stale",
		DryRun:     true,
		StaleDate:  time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "owner/repo", got["repo"])
	assert.Equal(t, true, got["dry_run"])
	assert.Equal(t, "2024-08-05T00:00:00Z", got["stale_date"])
	assert.Equal(t, []any{}, got["closed_issues"])
}
