package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/linkboard/internal/config"
)

func setupServers(t testing.TB, cfg *config.Config) *httptest.Server {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/og":
			fmt.Fprint(w, `<meta property="og:title" content="Example Domain">`)
		default:
			fmt.Fprint(w, `<title>Plain</title>`)
		}
	}))
	t.Cleanup(upstream.Close)

	logger := NewLogger(cfg, io.Discard)
	metadataSrv := httptest.NewServer(NewServer(context.Background(), cfg, logger).Handler)
	t.Cleanup(metadataSrv.Close)

	cfg.Client.MetadataURL = metadataSrv.URL

	return upstream
}

func TestOpenSession(t *testing.T) {
	t.Run("memory store", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.Driver = config.StorageMemory
		upstream := setupServers(t, cfg)

		logger := NewLogger(cfg, io.Discard)
		m, closeStore, err := OpenSession(context.Background(), cfg, logger.Logger, "")
		require.NoError(t, err)
		defer closeStore()

		link, err := m.AddLink(context.Background(), upstream.URL+"/og")

		assert.NoError(t, err)
		assert.Equal(t, "Example Domain", link.Title)
		assert.Equal(t, "Example Domain", link.OriginalTitle)
	})

	t.Run("unreachable metadata service falls back to url", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.Driver = config.StorageMemory

		dead := httptest.NewServer(http.NotFoundHandler())
		dead.Close()
		cfg.Client.MetadataURL = dead.URL

		logger := NewLogger(cfg, io.Discard)
		m, closeStore, err := OpenSession(context.Background(), cfg, logger.Logger, "")
		require.NoError(t, err)
		defer closeStore()

		link, err := m.AddLink(context.Background(), "https://example.com")

		assert.NoError(t, err)
		assert.Equal(t, "https://example.com", link.Title)
	})

	t.Run("sqlite store persists across sessions", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.Driver = config.StorageSQLite
		cfg.SQLite.Path = filepath.Join(t.TempDir(), "nested", "links.db")
		upstream := setupServers(t, cfg)

		logger := NewLogger(cfg, io.Discard)

		m, closeStore, err := OpenSession(context.Background(), cfg, logger.Logger, "")
		require.NoError(t, err)

		link, err := m.AddLink(context.Background(), upstream.URL+"/plain")
		require.NoError(t, err)
		require.NoError(t, closeStore())

		m, closeStore, err = OpenSession(context.Background(), cfg, logger.Logger, "")
		require.NoError(t, err)
		defer closeStore()

		assert.Equal(t, "Plain", link.Title)
		assert.Len(t, m.Links(), 1)
		assert.Equal(t, link, m.Links()[0])

		selected, ok := m.Selected()
		assert.True(t, ok)
		assert.Equal(t, link.ID, selected.ID)
	})

	t.Run("shared address overrides store", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.Driver = config.StorageSQLite
		cfg.SQLite.Path = filepath.Join(t.TempDir(), "links.db")
		upstream := setupServers(t, cfg)

		logger := NewLogger(cfg, io.Discard)

		m, closeStore, err := OpenSession(context.Background(), cfg, logger.Logger, "")
		require.NoError(t, err)

		_, err = m.AddLink(context.Background(), upstream.URL+"/og")
		require.NoError(t, err)
		require.NoError(t, closeStore())

		shared := "http://localhost:8080/?links=%5B%5D"

		m, closeStore, err = OpenSession(context.Background(), cfg, logger.Logger, shared)
		require.NoError(t, err)
		assert.Empty(t, m.Links())
		require.NoError(t, closeStore())

		m, closeStore, err = OpenSession(context.Background(), cfg, logger.Logger, "")
		require.NoError(t, err)
		defer closeStore()

		assert.Empty(t, m.Links())
	})
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = "redis"

	store, closeStore, err := OpenStore(context.Background(), cfg)

	assert.Error(t, err)
	assert.Nil(t, store)
	assert.Nil(t, closeStore)
}
