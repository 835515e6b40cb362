package site

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcabrera/portfolio/internal/config"
	"github.com/dcabrera/portfolio/internal/visitors"
)

func testConfig() *config.Config {
	return &config.Config{
		App:    config.App{Env: "development", LogLevel: "info"},
		Server: config.Server{Port: "0", ReadHeaderTimeout: time.Second, ShutdownTimeout: time.Second, GzipEnabled: true},
		Visitors: config.Visitors{
			RetentionDays: 365,
			QueueSize:     16,
			SkipPrefixes:  []string{"/static/", "/charts/", "/admin/", "/healthz", "/privacy"},
		},
	}
}

func newTestServer(t *testing.T, tracker *visitors.Tracker, token string) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	page, err := DefaultPage()
	require.NoError(t, err)

	srv, err := NewServer(Options{Config: testConfig(), Page: page, Tracker: tracker, AdminToken: token})
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, h http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, h, http.MethodGet, path, header)
}

func do(t *testing.T, h http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHomePage(t *testing.T) {
	srv := newTestServer(t, nil, "")
	rec := get(t, srv.Handler(), "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()

	t.Run("has every section", func(t *testing.T) {
		for _, heading := range []string{
			"Derick R. Cabrera",
			"Performance Overview",
			"Monthly Sales Growth",
			"Platform Distribution",
			"About Me",
			"Skills &amp; Tools",
			"Experience",
			"Portfolio Links",
			"Let's Connect",
			"© 2024 Derick R. Cabrera. All rights reserved.",
		} {
			assert.Contains(t, body, heading)
		}
	})

	t.Run("has every link", func(t *testing.T) {
		for _, href := range []string{
			`href="mailto:Dcabrera70074@gmail.com"`,
			`href="tel:`,
			`971567152684"`,
			`href="https://linkedin.com/in/derick-cabrera-499797299" target="_blank" rel="noopener noreferrer"`,
			`href="https://www.amazon.ae/Baseus" target="_blank" rel="noopener noreferrer"`,
			`href="https://www.noon.com/uae-en/~baseus/"`,
			`href="https://www.facebook.com/share/15b9mTVPvR/"`,
			`href="https://www.instagram.com/baseus_uae"`,
			`href="https://wa.me/971567152684" target="_blank" rel="noopener noreferrer"`,
		} {
			assert.Contains(t, body, href)
		}
		assert.NotContains(t, body, "ZgotmplZ")
	})

	t.Run("inlines both charts", func(t *testing.T) {
		assert.Equal(t, 2, strings.Count(body, "<svg"))
		assert.Contains(t, body, `id="salesColor"`)
		assert.Contains(t, body, "Sales: AED 36,800")
		assert.Contains(t, body, "Amazon: 45%")
	})

	t.Run("shows the legend", func(t *testing.T) {
		assert.Contains(t, body, "Amazon (45%)")
		assert.Contains(t, body, "Instagram")
		assert.Contains(t, body, "background-color: #3B82F6")
		assert.Contains(t, body, "Shopify (10%)")
	})
}

func TestPageLegend(t *testing.T) {
	page, err := DefaultPage()
	require.NoError(t, err)

	require.Len(t, page.Legend, 4)
	assert.Equal(t, "Amazon (45%)", page.Legend[0].Text)
	assert.Equal(t, "#3B82F6", page.Legend[0].Color)
	assert.Equal(t, "#BFDBFE", page.Legend[3].Color)
}

func TestChartEndpoints(t *testing.T) {
	srv := newTestServer(t, nil, "")

	for _, path := range []string{"/charts/sales.svg", "/charts/platforms.svg"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, srv.Handler(), path, nil)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, svgContentType, rec.Header().Get("Content-Type"))
			assert.True(t, strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "<svg"))
		})
	}
}

func TestAuxiliaryRoutes(t *testing.T) {
	srv := newTestServer(t, nil, "")

	t.Run("healthz", func(t *testing.T) {
		rec := get(t, srv.Handler(), "/healthz", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("stylesheet", func(t *testing.T) {
		rec := get(t, srv.Handler(), "/static/site.css", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), ".legend")
	})

	t.Run("privacy without tracking", func(t *testing.T) {
		rec := get(t, srv.Handler(), "/privacy", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "does not record visits")
	})

	t.Run("security headers", func(t *testing.T) {
		rec := get(t, srv.Handler(), "/", nil)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
	})
}

func TestGzip(t *testing.T) {
	srv := newTestServer(t, nil, "")

	rec := get(t, srv.Handler(), "/", http.Header{"Accept-Encoding": {"gzip"}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Performance Overview")

	plain := get(t, srv.Handler(), "/", nil)
	assert.Empty(t, plain.Header().Get("Content-Encoding"))
}

func TestAdminDisabled(t *testing.T) {
	srv := newTestServer(t, nil, "secret")

	rec := get(t, srv.Handler(), "/admin/api/stats", http.Header{"Authorization": {"Bearer secret"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminEndpoints(t *testing.T) {
	store, err := visitors.Open(filepath.Join(t.TempDir(), "visitors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tracker := visitors.NewTracker(store, visitors.TrackerOptions{
		Salt:         "s",
		QueueSize:    16,
		SkipPrefixes: testConfig().Visitors.SkipPrefixes,
	})
	srv := newTestServer(t, tracker, "secret")
	h := srv.Handler()

	// two page views, then let the writer flush them
	get(t, h, "/", nil)
	get(t, h, "/", http.Header{"X-Forwarded-For": {"198.51.100.9"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tracker.Run(ctx)

	tests := []struct {
		name   string
		header http.Header
		status int
	}{
		{name: "missing token", status: http.StatusUnauthorized},
		{name: "wrong bearer", header: http.Header{"Authorization": {"Bearer nope"}}, status: http.StatusUnauthorized},
		{name: "wrong scheme", header: http.Header{"Authorization": {"secret"}}, status: http.StatusUnauthorized},
		{name: "bearer", header: http.Header{"Authorization": {"Bearer secret"}}, status: http.StatusOK},
		{name: "cookie", header: http.Header{"Cookie": {"admin_token=secret"}}, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, "/admin/api/stats", tt.header)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	t.Run("stats body", func(t *testing.T) {
		rec := get(t, h, "/admin/api/stats", http.Header{"Authorization": {"Bearer secret"}})
		require.Equal(t, http.StatusOK, rec.Code)

		var stats visitors.Stats
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
		assert.Equal(t, int64(2), stats.TotalVisits)
		assert.Equal(t, int64(2), stats.UniqueVisitors)
		assert.Equal(t, []visitors.PathCount{{Path: "/", Count: 2}}, stats.TopPaths)
		require.Len(t, stats.RecentVisits, 2)
		for _, v := range stats.RecentVisits {
			assert.Equal(t, "/", v.Path)
			assert.Len(t, v.VisitorHash, 16)
			assert.NotContains(t, v.VisitorHash, "198.51")
		}
	})

	t.Run("unknown pages are not counted", func(t *testing.T) {
		rec := get(t, h, "/wp-login.php", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		tracker.Run(ctx)

		stats, err := tracker.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.TotalVisits)
	})

	t.Run("export is an attachment", func(t *testing.T) {
		rec := get(t, h, "/admin/export/stats", http.Header{"Authorization": {"Bearer secret"}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="visitor-stats-`)
	})

	t.Run("privacy with tracking", func(t *testing.T) {
		rec := get(t, h, "/privacy", nil)
		assert.Contains(t, rec.Body.String(), "deleted after 365 days")
	})
}

func TestAdminDeleteVisitorData(t *testing.T) {
	ctx := context.Background()
	store, err := visitors.Open(filepath.Join(t.TempDir(), "visitors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	now := time.Now()
	require.NoError(t, store.Record(ctx, visitors.Visit{VisitorHash: "old", Path: "/", At: now.AddDate(-2, 0, 0)}))
	require.NoError(t, store.Record(ctx, visitors.Visit{VisitorHash: "new", Path: "/", At: now.Add(-time.Hour)}))

	gin.SetMode(gin.TestMode)
	page, err := DefaultPage()
	require.NoError(t, err)
	tracker := visitors.NewTracker(store, visitors.TrackerOptions{Salt: "s"})
	srv, err := NewServer(Options{
		Config:     testConfig(),
		Page:       page,
		Tracker:    tracker,
		Cleaner:    visitors.NewCleaner(store, 365, "0 3 * * *"),
		AdminToken: "secret",
	})
	require.NoError(t, err)
	h := srv.Handler()

	const path = "/admin/privacy/delete-visitor-data"

	t.Run("requires the token", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("is not a GET route", func(t *testing.T) {
		rec := get(t, h, path, http.Header{"Authorization": {"Bearer secret"}})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("removes visits past retention", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, path, http.Header{"Authorization": {"Bearer secret"}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"deleted": 1}`, rec.Body.String())

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.TotalVisits)
		require.Len(t, stats.RecentVisits, 1)
		assert.Equal(t, "new", stats.RecentVisits[0].VisitorHash)
	})

	t.Run("missing without a cleaner", func(t *testing.T) {
		srv := newTestServer(t, tracker, "secret")
		rec := do(t, srv.Handler(), http.MethodPost, path, http.Header{"Authorization": {"Bearer secret"}})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNewAdminToken(t *testing.T) {
	a, err := NewAdminToken()
	require.NoError(t, err)
	b, err := NewAdminToken()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
