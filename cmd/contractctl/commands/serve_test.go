package commands

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apicontract/bridge"
	"github.com/erraggy/apicontract/logging"
)

func TestDefaultServeConfig(t *testing.T) {
	cfg := DefaultServeConfig()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, bridge.DefaultMaxBodySize, cfg.MaxBodySize)
	assert.Equal(t, bridge.DefaultRequestIDHeader, cfg.RequestIDHeader)
	assert.Equal(t, "/metrics", cfg.MetricsPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Zero(t, cfg.RateLimit)
	assert.Empty(t, cfg.Mounts)
}

func TestLoadServeConfig(t *testing.T) {
	cfg, err := LoadServeConfig(filepath.Join("testdata", "serve.toml"))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Addr)
	assert.InDelta(t, 20.0, cfg.RateLimit, 0)
	assert.Zero(t, cfg.RateBurst)
	assert.Equal(t, 750*time.Millisecond, cfg.HandlerTimeout)
	assert.Equal(t, "/internal/metrics", cfg.MetricsPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []bridge.Mount{
		{Name: "getOrder", URL: "/v2/orders/{id}"},
		{Name: "list-orders"},
	}, cfg.Mounts)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, bridge.DefaultMaxBodySize, cfg.MaxBodySize)
	assert.Equal(t, bridge.DefaultRequestIDHeader, cfg.RequestIDHeader)
}

func TestLoadServeConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "addr = ", "load serve config"},
		{"unknown key", readTestdata(t, "unknown_key.toml"), `unknown key "listen_port"`},
		{"bad duration", `handler_timeout = "soon"`, "parse handler_timeout"},
		{"wrong type", `rate_burst = "many"`, "load serve config"},
		{"unnamed mount", "[[mounts]]\nurl = \"/x\"\n", "mounts[0]: name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".toml")
			writeFile(t, path, tt.content)
			_, err := LoadServeConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := LoadServeConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestServeConfig_BridgeOptions(t *testing.T) {
	cfg := DefaultServeConfig()
	assert.Len(t, cfg.bridgeOptions(logging.NopLogger{}, nil), 4)

	cfg.RateLimit = 0.5
	assert.Len(t, cfg.bridgeOptions(logging.NopLogger{}, nil), 5)
}

func TestHandleServe_Args(t *testing.T) {
	assert.NoError(t, HandleServe([]string{"--help"}))
	assert.Error(t, HandleServe(nil))
	assert.Error(t, HandleServe([]string{"--log-level", "loud", filepath.Join("testdata", "shop.yaml")}))
	assert.Error(t, HandleServe([]string{"-c", filepath.Join("testdata", "unknown_key.toml"), filepath.Join("testdata", "shop.yaml")}))
	assert.Error(t, HandleServe([]string{filepath.Join("testdata", "lint.yaml")}))
}

func newTestServer(t *testing.T, cfg ServeConfig) *httptest.Server {
	t.Helper()
	h, err := NewServeHandler(cfg, filepath.Join("testdata", "shop.yaml"), logging.NopLogger{})
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestNewServeHandler_EchoesArgs(t *testing.T) {
	srv := newTestServer(t, DefaultServeConfig())

	status, body := getJSON(t, srv.URL+"/orders/0x10?expand=true")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"id": float64(16), "expand": true}, body)

	status, body = getJSON(t, srv.URL+"/orders/abc")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, bridge.CodeConversion, body["code"])
}

func TestNewServeHandler_Mounts(t *testing.T) {
	cfg := DefaultServeConfig()
	cfg.Mounts = []bridge.Mount{{Name: "getOrder", URL: "/v2/orders/{id}"}}
	srv := newTestServer(t, cfg)

	status, body := getJSON(t, srv.URL+"/v2/orders/7")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(7), body["id"])

	status, _ = getJSON(t, srv.URL+"/orders/7")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestNewServeHandler_UnknownMount(t *testing.T) {
	cfg := DefaultServeConfig()
	cfg.Mounts = []bridge.Mount{{Name: "deleteOrder"}}
	_, err := NewServeHandler(cfg, filepath.Join("testdata", "shop.yaml"), logging.NopLogger{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deleteOrder")
}

func TestNewServeHandler_Metrics(t *testing.T) {
	srv := newTestServer(t, DefaultServeConfig())

	status, _ := getJSON(t, srv.URL+"/orders/1")
	require.Equal(t, http.StatusOK, status)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `apicontract_http_requests_total{contract="getOrder",method="GET",status="200"} 1`)
}

func TestRunServer_Shutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	go func() { done <- runServer(ctx, addr, handler, logging.NopLogger{}) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusNoContent
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunServer_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	err = runServer(context.Background(), ln.Addr().String(), http.NotFoundHandler(), logging.NopLogger{})
	assert.Error(t, err)
}
