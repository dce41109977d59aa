package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iReady/iReady-Backend/internal/auth"
	"github.com/iReady/iReady-Backend/internal/config"
	"github.com/iReady/iReady-Backend/internal/geocode"
	"github.com/iReady/iReady-Backend/internal/placement"
	"github.com/iReady/iReady-Backend/internal/poi"
	"github.com/iReady/iReady-Backend/internal/relief"
)

// emptyStore is an auth.Store without users or sessions.
type emptyStore struct{}

func (emptyStore) FindUserByUsername(context.Context, string) (auth.User, error) {
	return auth.User{}, auth.ErrUserNotFound
}
func (emptyStore) FindUserByID(context.Context, string) (auth.User, error) {
	return auth.User{}, auth.ErrUserNotFound
}
func (emptyStore) CreateUser(context.Context, auth.User) error { return nil }
func (emptyStore) UpdatePassword(context.Context, string, string) error { return nil }
func (emptyStore) SaveSession(context.Context, auth.Session) error { return nil }
func (emptyStore) DeleteSession(context.Context, string) error { return nil }
func (emptyStore) FindSession(context.Context, string) (auth.Session, error) {
	return auth.Session{}, auth.ErrSessionNotFound
}

func newTestServer(t *testing.T, staticDir string) *httptest.Server {
	t.Helper()
	return newTestServerWith(t, func(s *server) { s.cfg.StaticDir = staticDir })
}

func newTestServerWith(t *testing.T, opts ...func(*server)) *httptest.Server {
	t.Helper()
	predictions, err := relief.Parse([]byte(`[{"adm4_pcode": "PH137504001", "pred_rice": 5}]`))
	require.NoError(t, err)
	pois := poi.NewFileStore([]placement.POI{{ID: "1", Name: "City Hall", Lat: 14.4338, Lon: 120.936}})

	cfg := config.LoadFromEnv()
	cfg.CORSOrigins = []string{"http://localhost:5173"}

	s := &server{
		cfg:         cfg,
		auth:        auth.NewHandler(emptyStore{}, false),
		pois:        &poi.Handler{Store: pois},
		predictions: predictions,
		markers:     relief.NewMarkerService(placement.DefaultLayout(), predictions.Codes, pois),
		geocoder:    geocode.NewService(pois, nil, nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	srv := httptest.NewServer(s.routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t, "")

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/toreceive", http.StatusOK},
		{http.MethodGet, "/api/adm4?q=PH137", http.StatusOK},
		{http.MethodGet, "/api/predictions/PH137504001", http.StatusOK},
		{http.MethodGet, "/api/pois?q=hall", http.StatusOK},
		{http.MethodGet, "/api/geocode?q=city%20hall", http.StatusOK},
		{http.MethodGet, "/api/geocode", http.StatusBadRequest},
		{http.MethodGet, "/api/markers", http.StatusUnauthorized},
		{http.MethodGet, "/api/auth/me", http.StatusUnauthorized},
		{http.MethodPost, "/api/auth/logout", http.StatusOK},
		{http.MethodGet, "/ToReceive.json", http.StatusOK},
		{http.MethodGet, "/data/ToReceive.json", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, "")

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/auth/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestStaticDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>iReady</h1>"), 0o600))
	srv := newTestServer(t, dir)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "iReady"))
}

func countLoginRejections(t *testing.T, srv *httptest.Server, n int) int {
	t.Helper()
	rejected := 0
	for i := 0; i < n; i++ {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/auth/login",
			strings.NewReader(`{"username":"ana","password":"secret1"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			rejected++
		}
	}
	return rejected
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	srv := newTestServerWith(t, func(s *server) {
		s.cfg.RateLimitRPS = 0.001
		s.cfg.RateLimitBurst = 3
	})

	assert.Equal(t, 17, countLoginRejections(t, srv, 20))
}

func TestRateLimitHonoursTrustedProxy(t *testing.T) {
	srv := newTestServerWith(t, func(s *server) {
		s.cfg.RateLimitRPS = 0.001
		s.cfg.RateLimitBurst = 3
		s.proxies = []netip.Prefix{netip.MustParsePrefix("127.0.0.0/8"), netip.MustParsePrefix("::1/128")}
	})

	assert.Zero(t, countLoginRejections(t, srv, 20))
}
