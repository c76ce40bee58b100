package application

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plaimi/q/internal/adapters/config"
	"github.com/plaimi/q/internal/adapters/diagnostics"
	"github.com/plaimi/q/internal/adapters/logging"
	"github.com/plaimi/q/internal/metrics"
)

type lineRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *lineRecorder) record(message string) {
	r.mu.Lock()
	r.lines = append(r.lines, message)
	r.mu.Unlock()
}

func (r *lineRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func newTestRuntime(t *testing.T, mutate func(*config.Options)) (*Runtime, *lineRecorder, *metrics.Collector) {
	t.Helper()

	opts := config.Defaults()
	opts.Password = "s3cret"
	if mutate != nil {
		mutate(&opts)
	}
	cfg, err := config.Build(opts)
	require.NoError(t, err)

	logger := logging.New(logging.LevelDebug)
	rec := &lineRecorder{}
	logger.SetCallback(rec.record)

	collector := metrics.NewCollector()
	rt := NewRuntime(config.NewStaticStore(cfg), logger, diagnostics.NewTracer(cfg, nil), collector)
	return rt, rec, collector
}

func TestRuntime_SummaryHidesPassword(t *testing.T) {
	t.Parallel()

	rt, _, _ := newTestRuntime(t, nil)
	summary := strings.Join(rt.Summary(), "\n")

	assert.Contains(t, summary, "Network: irc.freenode.net:6667")
	assert.Contains(t, summary, "Channel: #bot_test")
	assert.Contains(t, summary, "Nickname: my_bot (user my_bot)")
	assert.Contains(t, summary, "Services auth: enabled")
	assert.Contains(t, summary, "Masters: my_bot, my_nickname")
	assert.Contains(t, summary, "Hiscores: hiscores.sql")
	assert.NotContains(t, summary, "s3cret")
}

func TestSummarize_WithoutPassword(t *testing.T) {
	t.Parallel()

	cfg, err := config.Build(config.Defaults())
	require.NoError(t, err)

	summary := Summarize(cfg)
	assert.Contains(t, summary, "Services auth: disabled")
	assert.Contains(t, summary, "Verbose: on")
}

func TestRuntime_StartLogsAndStops(t *testing.T) {
	t.Parallel()

	rt, rec, collector := newTestRuntime(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- rt.Start(ctx) }()

	require.Eventually(t, func() bool {
		return testutil.CollectAndCount(collector.ConfigInfo) == 1
	}, time.Second, 10*time.Millisecond)

	rt.Stop()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}

	lines := strings.Join(rec.all(), "\n")
	assert.Contains(t, lines, "[INFO] Channel: #bot_test component=runtime")
	assert.NotContains(t, lines, "s3cret")
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.ConfigInfo.WithLabelValues("irc.freenode.net", "#bot_test", "my_bot")))
}

func TestRuntime_StatsCountDecisions(t *testing.T) {
	t.Parallel()

	rt, rec, collector := newTestRuntime(t, nil)

	_, ok := rt.Gate().Authorize("my_nickname", "!stop")
	require.True(t, ok)
	_, ok = rt.Gate().Authorize("stranger", "!stop")
	require.False(t, ok)

	stats := rt.GetStats()
	assert.Equal(t, "ok", stats.Status)
	assert.Equal(t, 1, stats.CommandsAccepted)
	assert.Equal(t, 1, stats.CommandsRejected)
	assert.True(t, stats.ServicesAuth)
	assert.Equal(t, []string{"my_bot", "my_nickname"}, stats.Masters)
	assert.Equal(t, "#bot_test", stats.Channel)

	assert.Equal(t, float64(1), testutil.ToFloat64(collector.Commands.WithLabelValues("rejected")))
	assert.Contains(t, strings.Join(rec.all(), "\n"), "Rejected privileged command !stop from stranger")
}

func TestRuntime_ConfigIsRedactedCopy(t *testing.T) {
	t.Parallel()

	rt, _, _ := newTestRuntime(t, nil)

	cfg := rt.Config()
	assert.Equal(t, "********", cfg.Password)

	cfg.Masters[0] = "mallory"
	assert.Equal(t, "my_bot", rt.Config().Masters[0])
}

func TestRuntime_TracerFollowsVerbose(t *testing.T) {
	t.Parallel()

	verbose, _, _ := newTestRuntime(t, nil)
	assert.True(t, verbose.Tracer().Enabled())

	quiet, _, _ := newTestRuntime(t, func(o *config.Options) { o.Verbose = false })
	assert.False(t, quiet.Tracer().Enabled())
}
