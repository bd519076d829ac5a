package app

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
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/five82/shopkeep/internal/config"
	"github.com/five82/shopkeep/internal/export"
	"github.com/five82/shopkeep/internal/ui"
	"github.com/five82/shopkeep/internal/view"
	"github.com/five82/shopkeep/internal/web"
)

// catalogServer serves a growing catalog: the nth list request returns n
// products.
func catalogServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "read only", http.StatusMethodNotAllowed)
			return
		}
		n := int(calls.Add(1))
		items := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			items = append(items, fmt.Sprintf(`{"id": %d, "title": "Item %02d", "price": %d, "category": {"id": 1, "name": "Misc"}}`, i, i, i))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, "["+strings.Join(items, ",")+"]")
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testOptions(t *testing.T, apiURL string) Options {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvListen, "")
	t.Setenv(config.EnvLogLevel, "")

	cfgPath := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("api_url = %q\nper_page = 3\nrequest_timeout = \"2s\"\nlog_file = %q\n",
		apiURL, filepath.Join(dir, "shopkeep.log"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	return Options{
		ConfigPath: cfgPath,
		PrefsPath:  filepath.Join(dir, "prefs.toml"),
		EnvFiles:   []string{filepath.Join(dir, "missing.env")},
	}
}

func TestSetup_LoadsCatalog(t *testing.T) {
	srv, calls := catalogServer(t)

	rt, err := setup(context.Background(), testOptions(t, srv.URL), true)
	require.NoError(t, err)
	defer rt.close()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 3, rt.cfg.PerPage)
	snap := rt.store.Snapshot()
	assert.True(t, snap.Loaded)
	assert.NoError(t, snap.LastError)
	assert.Len(t, snap.Products, 1)
}

func TestSetup_FailedLoadStartsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	rt, err := setup(context.Background(), testOptions(t, srv.URL), true)
	require.NoError(t, err)
	defer rt.close()

	snap := rt.store.Snapshot()
	assert.True(t, snap.Loaded)
	assert.Error(t, snap.LastError)
	assert.Empty(t, snap.Products)
}

func TestRunSetup_TUIReportsFailedStartupLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	rt, err := setup(context.Background(), testOptions(t, srv.URL), false)
	require.NoError(t, err)
	defer rt.close()
	require.False(t, rt.store.Snapshot().Loaded, "the TUI performs the first fetch")

	var m tea.Model = ui.New(rt.uiOptions(context.Background()))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	initCmd := m.Init()
	require.NotNil(t, initCmd)
	batch, ok := initCmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, cmd := range batch {
		if msg := cmd(); msg != nil {
			m, _ = m.Update(msg)
		}
	}

	assert.True(t, rt.store.Snapshot().Loaded)
	assert.Contains(t, m.View(), "Could not load products")
}

func TestSetup_RejectsBadConfig(t *testing.T) {
	opts := testOptions(t, "http://127.0.0.1:1")
	require.NoError(t, os.WriteFile(opts.ConfigPath, []byte("log_level = \"loud\"\n"), 0o644))

	_, err := setup(context.Background(), opts, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestExport_WritesRequestedPage(t *testing.T) {
	srv, calls := catalogServer(t)
	// Prime the server so the export sees five products.
	calls.Store(4)

	var out bytes.Buffer
	err := Export(context.Background(), ExportOptions{
		Options: testOptions(t, srv.URL),
		Query:   web.Query{Page: 2, Sort: view.SortPrice, Dir: view.Descending},
		Out:     &out,
	})
	require.NoError(t, err)

	records, err := export.Parse(&out)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2", records[0].ID)
	assert.Equal(t, "1", records[1].ID)
}

func TestExport_OutOfRangePage(t *testing.T) {
	srv, _ := catalogServer(t)

	err := Export(context.Background(), ExportOptions{
		Options: testOptions(t, srv.URL),
		Query:   web.Query{Page: 4},
		Out:     io.Discard,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestExport_FailsWhenCatalogUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	err := Export(context.Background(), ExportOptions{Options: testOptions(t, srv.URL), Out: &out})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load catalog")
	assert.Zero(t, out.Len())
}

func TestReloadOn_RefetchesPerTrigger(t *testing.T) {
	srv, calls := catalogServer(t)
	rt, err := setup(context.Background(), testOptions(t, srv.URL), true)
	require.NoError(t, err)
	defer rt.close()

	ctx, cancel := context.WithCancel(context.Background())
	trigger := make(chan os.Signal)
	done := make(chan struct{})
	go func() {
		reloadOn(ctx, rt.service, zap.NewNop(), trigger)
		close(done)
	}()

	trigger <- syscall.SIGHUP
	trigger <- syscall.SIGHUP
	require.Eventually(t, func() bool {
		return len(rt.store.Snapshot().Products) == 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(3), calls.Load())

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reloader did not stop after cancel")
	}
}

func TestReloadOn_StopsWhenTriggerCloses(t *testing.T) {
	srv, _ := catalogServer(t)
	rt, err := setup(context.Background(), testOptions(t, srv.URL), true)
	require.NoError(t, err)
	defer rt.close()

	trigger := make(chan os.Signal)
	done := make(chan struct{})
	go func() {
		reloadOn(context.Background(), rt.service, zap.NewNop(), trigger)
		close(done)
	}()
	close(trigger)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reloader did not stop after close")
	}
}
