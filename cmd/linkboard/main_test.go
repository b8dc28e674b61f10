package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/linkboard/internal/app"
	"github.com/vadimbarashkov/linkboard/internal/collection"
	"github.com/vadimbarashkov/linkboard/internal/config"
)

type testEnv struct {
	configPath string
	upstream   *httptest.Server
}

func setupEnv(t *testing.T) testEnv {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<title>Page %s</title>", strings.TrimPrefix(r.URL.Path, "/"))
	}))
	t.Cleanup(upstream.Close)

	cfg := config.Default()
	metadataSrv := httptest.NewServer(app.NewServer(context.Background(), cfg, app.NewLogger(cfg, io.Discard)).Handler)
	t.Cleanup(metadataSrv.Close)

	dir := t.TempDir()
	data := fmt.Sprintf(`log_level: error
client:
  metadata_url: %s
session:
  address: https://links.example.com/
storage:
  driver: sqlite
sqlite:
  path: %s
`, metadataSrv.URL, filepath.Join(dir, "links.db"))

	configPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(data), 0o600))

	return testEnv{configPath: configPath, upstream: upstream}
}

func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func linkID(t *testing.T, line string) string {
	t.Helper()

	fields := strings.Fields(line)
	require.GreaterOrEqual(t, len(fields), 2, line)

	return fields[1]
}

func TestCLI(t *testing.T) {
	t.Run("add list export", func(t *testing.T) {
		env := setupEnv(t)

		out, err := env.run(t, "add", env.upstream.URL+"/a")
		require.NoError(t, err)
		assert.Contains(t, out, "* ")
		assert.Contains(t, out, "Page a")

		_, err = env.run(t, "add", env.upstream.URL+"/b")
		require.NoError(t, err)

		out, err = env.run(t, "list")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "  "))
		assert.True(t, strings.HasPrefix(lines[1], "* "))

		out, err = env.run(t, "export")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("Page a: %[1]s/a\nPage b: %[1]s/b\n", env.upstream.URL), out)
	})

	t.Run("duplicate delete select", func(t *testing.T) {
		env := setupEnv(t)

		out, err := env.run(t, "add", env.upstream.URL+"/a")
		require.NoError(t, err)
		id := linkID(t, out)

		out, err = env.run(t, "duplicate", id)
		require.NoError(t, err)
		assert.Contains(t, out, "Copy of Page a")
		dupID := linkID(t, out)

		out, err = env.run(t, "select", id)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("Page a\n%s/a\n", env.upstream.URL), out)

		_, err = env.run(t, "delete", id)
		require.NoError(t, err)

		out, err = env.run(t, "list")
		require.NoError(t, err)
		assert.Contains(t, out, dupID)
		assert.NotContains(t, out, " "+id+" ")

		_, err = env.run(t, "select", "missing")
		assert.ErrorIs(t, err, collection.ErrLinkNotFound)
	})

	t.Run("share and open shared address", func(t *testing.T) {
		env := setupEnv(t)

		_, err := env.run(t, "add", env.upstream.URL+"/a")
		require.NoError(t, err)

		out, err := env.run(t, "share")
		require.NoError(t, err)

		shared := strings.TrimSpace(out)
		assert.True(t, strings.HasPrefix(shared, "https://links.example.com/?links="))

		other := setupEnv(t)

		out, err = other.run(t, "--address", shared, "export")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("Page a: %s/a\n", env.upstream.URL), out)
	})

	t.Run("invalid url", func(t *testing.T) {
		env := setupEnv(t)

		_, err := env.run(t, "add", "not a url")

		assert.ErrorIs(t, err, collection.ErrInvalidURL)
	})
}
