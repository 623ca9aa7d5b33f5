package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/codelens/internal/render"
	"github.com/sozercan/codelens/internal/theme"
)

const sampleResult = `{"complexity": 4, "issues": [{"line": 3, "message": "unused var"}], "suggestions": ["rename x"]}`

func init() {
	newSystemSource = func() theme.SystemSource { return theme.FixedSource(true) }
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(viper.New())
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func sampleServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "codelens version "+version+"\n", out)
}

func TestLanguageFromPath(t *testing.T) {
	assert.Equal(t, "python", languageFromPath("app/main.py"))
	assert.Equal(t, "cpp", languageFromPath("x.CC"))
	assert.Equal(t, "", languageFromPath("Makefile"))
}

func TestAnalyzeFileJSON(t *testing.T) {
	ts := sampleServer(t, http.StatusOK, sampleResult)
	dir := t.TempDir()
	src := filepath.Join(dir, "main.py")
	require.NoError(t, os.WriteFile(src, []byte("x = 1\n"), 0o644))

	out, _, err := execute(t, "", "analyze", src, "--server", ts.URL, "-o", "json", "--theme-db", filepath.Join(dir, "prefs.db"))
	require.NoError(t, err)
	assert.JSONEq(t, sampleResult, out)
}

func TestAnalyzeStdinHuman(t *testing.T) {
	ts := sampleServer(t, http.StatusOK, sampleResult)
	out, errOut, err := execute(t, "package main", "analyze", "-", "--language", "go", "--server", ts.URL, "--theme-db", filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "Cyclomatic Complexity: 4")
	assert.Contains(t, out, "unused var")
	assert.Contains(t, errOut, "Analysis complete")
}

func TestAnalyzeNeedsLanguage(t *testing.T) {
	_, _, err := execute(t, "x", "analyze", "-")
	assert.ErrorContains(t, err, "--language")
}

func TestAnalyzeRejectsUnknownFormat(t *testing.T) {
	_, _, err := execute(t, "x", "analyze", "-", "-l", "go", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestAnalyzeServerError(t *testing.T) {
	ts := sampleServer(t, http.StatusInternalServerError, "boom")
	out, errOut, err := execute(t, "x", "analyze", "-", "-l", "python", "--server", ts.URL, "--theme-db", filepath.Join(t.TempDir(), "prefs.db"))

	assert.ErrorContains(t, err, "analysis failed (status)")
	assert.Empty(t, out)
	assert.Contains(t, errOut, render.GenericErrorMessage)
	assert.Contains(t, errOut, "returned status 500")
}

func TestThemeCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "prefs.db")

	out, _, err := execute(t, "", "theme", "get", "--theme-db", db)
	require.NoError(t, err)
	assert.Equal(t, "preference: system\neffective: dark\n", out)

	out, _, err = execute(t, "", "theme", "set", "light", "--theme-db", db)
	require.NoError(t, err)
	assert.Equal(t, "preference: light\neffective: light\n", out)

	// persisted across invocations
	out, _, err = execute(t, "", "theme", "get", "--theme-db", db)
	require.NoError(t, err)
	assert.Equal(t, "preference: light\neffective: light\n", out)

	out, _, err = execute(t, "", "theme", "cycle", "--theme-db", db)
	require.NoError(t, err)
	assert.Equal(t, "preference: dark\neffective: dark\n", out)

	_, _, err = execute(t, "", "theme", "set", "sepia", "--theme-db", db)
	assert.Error(t, err)
}

func TestEffectiveModeQueriesSystemOnce(t *testing.T) {
	calls := 0
	prev := newSystemSource
	newSystemSource = func() theme.SystemSource {
		calls++
		return theme.FixedSource(true)
	}
	t.Cleanup(func() { newSystemSource = prev })

	v := viper.New()
	v.Set("theme-db", filepath.Join(t.TempDir(), "prefs.db"))
	assert.Equal(t, theme.ModeDark, effectiveMode(context.Background(), v))
	assert.Equal(t, 1, calls)

	// unreadable store: fall back to the system setting
	calls = 0
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	v.Set("theme-db", filepath.Join(blocker, "prefs.db"))
	assert.Equal(t, theme.ModeDark, effectiveMode(context.Background(), v))
	assert.Equal(t, 1, calls)
}
