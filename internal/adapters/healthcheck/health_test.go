package healthcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plaimi/q/internal/adapters/logging"
	"github.com/plaimi/q/internal/metrics"
	"github.com/plaimi/q/internal/ports"
)

type staticStats ports.BotStats

func (s staticStats) GetStats() ports.BotStats {
	return ports.BotStats(s)
}

func testStats() staticStats {
	return staticStats{
		Status:       "ok",
		Network:      "irc.freenode.net",
		Port:         6667,
		Channel:      "#bot_test",
		Nickname:     "my_bot",
		Username:     "my_bot",
		ServicesAuth: false,
		Masters:      []string{"my_bot", "my_nickname"},
		HiscoresDB:   "hiscores.sql",
		Verbose:      true,
	}
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	s := NewHealthServer(0, testStats(), nil, logging.New(logging.LevelError))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got ports.BotStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, ports.BotStats(testStats()), got)
}

func TestHandleHealth_RejectsPost(t *testing.T) {
	t.Parallel()

	s := NewHealthServer(0, testStats(), nil, logging.New(logging.LevelError))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	t.Parallel()

	withMetrics := NewHealthServer(0, testStats(), metrics.NewCollector().Handler(), logging.New(logging.LevelError))
	rec := httptest.NewRecorder()
	withMetrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	without := NewHealthServer(0, testStats(), nil, logging.New(logging.LevelError))
	rec = httptest.NewRecorder()
	without.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestStartServesUntilStop(t *testing.T) {
	port := freePort(t)
	s := NewHealthServer(port, testStats(), nil, logging.New(logging.LevelError))
	require.NoError(t, s.Start(context.Background()))

	url := fmt.Sprintf("http://127.0.0.1:%d/health", port)
	resp, err := http.Get(url)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop())
	assert.NoError(t, s.Stop(), "second Stop is a no-op")

	_, err = http.Get(url)
	assert.Error(t, err, "server must not answer after Stop")
}

func TestStartReportsBusyPort(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	s := NewHealthServer(port, testStats(), nil, logging.New(logging.LevelError))
	assert.Error(t, s.Start(context.Background()))
	assert.NoError(t, s.Stop())
}

func TestStart_DisabledPort(t *testing.T) {
	t.Parallel()

	s := NewHealthServer(0, testStats(), nil, logging.New(logging.LevelError))
	require.NoError(t, s.Start(context.Background()))
	assert.NoError(t, s.Stop(), "Stop on a never-started server is a no-op")
}
