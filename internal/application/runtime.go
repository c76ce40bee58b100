package application

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/plaimi/q/internal/adapters/logging"
	"github.com/plaimi/q/internal/metrics"
	"github.com/plaimi/q/internal/ports"
)

const (
	uptimeInterval          = 15 * time.Second
	userCmdTimesCleanupTick = 10 * time.Minute
)

// Runtime hands the resolved configuration to the collaborators and reports
// on them. It holds no mutable configuration state.
type Runtime struct {
	config  ports.BotConfig
	logger  *logging.Logger
	tracer  ports.Tracer
	gate    *CommandGate
	metrics *metrics.Collector

	mu        sync.Mutex
	startTime time.Time
	accepted  int
	rejected  int

	ctx    context.Context
	cancel context.CancelFunc
}

func NewRuntime(config ports.ConfigReader, logger *logging.Logger, tracer ports.Tracer, collector *metrics.Collector) *Runtime {
	r := &Runtime{
		config:  config.GetConfig(),
		logger:  logger.With("component", "runtime"),
		tracer:  tracer,
		metrics: collector,
		ctx:     context.Background(),
	}
	r.gate = NewCommandGate(r.config, WithDecisionHook(r.recordDecision))
	return r
}

// Start logs the configuration and runs housekeeping until ctx is done.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.startTime = time.Now()
	runCtx := r.ctx
	r.mu.Unlock()

	for _, line := range r.Summary() {
		r.logger.Infof(runCtx, "%s", line)
	}
	if r.metrics != nil {
		r.metrics.RecordConfig(r.config)
	}

	ticker := time.NewTicker(uptimeInterval)
	defer ticker.Stop()
	cleanup := time.NewTicker(userCmdTimesCleanupTick)
	defer cleanup.Stop()

	for {
		select {
		case <-runCtx.Done():
			return nil
		case <-ticker.C:
			if r.metrics != nil {
				r.metrics.SetUptime(r.uptime())
			}
		case <-cleanup.C:
			r.gate.cleanupUserCmdTimes()
		}
	}
}

func (r *Runtime) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (r *Runtime) Summary() []string {
	return Summarize(r.config)
}

// Summarize describes cfg without revealing the password.
func Summarize(cfg ports.BotConfig) []string {
	cfg = cfg.Redacted()
	auth := "disabled"
	if cfg.UsesServicesAuth() {
		auth = "enabled"
	}
	return []string{
		"Network: " + cfg.Address(),
		"Channel: " + cfg.Channel,
		"Nickname: " + cfg.Nickname + " (user " + cfg.Username + ")",
		"Services auth: " + auth,
		"Masters: " + strings.Join(cfg.Masters, ", "),
		"Hiscores: " + cfg.HiscoresDB,
		"Verbose: " + boolWord(cfg.Verbose),
	}
}

func (r *Runtime) Gate() *CommandGate {
	return r.gate
}

func (r *Runtime) Tracer() ports.Tracer {
	return r.tracer
}

func (r *Runtime) Config() ports.BotConfig {
	return r.config.Redacted()
}

func (r *Runtime) GetStats() ports.BotStats {
	cfg := r.config.Redacted()
	uptime := r.uptime().Truncate(time.Second)

	r.mu.Lock()
	defer r.mu.Unlock()

	return ports.BotStats{
		Status:           "ok",
		Uptime:           uptime.String(),
		UptimeSeconds:    math.Floor(uptime.Seconds()),
		Network:          cfg.Network,
		Port:             cfg.Port,
		Channel:          cfg.Channel,
		Nickname:         cfg.Nickname,
		Username:         cfg.Username,
		ServicesAuth:     cfg.UsesServicesAuth(),
		Masters:          cfg.Masters,
		HiscoresDB:       cfg.HiscoresDB,
		Verbose:          cfg.Verbose,
		CommandsAccepted: r.accepted,
		CommandsRejected: r.rejected,
	}
}

func (r *Runtime) recordDecision(cmd ports.Command, accepted bool) {
	r.mu.Lock()
	if accepted {
		r.accepted++
	} else {
		r.rejected++
	}
	ctx := r.ctx
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.RecordCommand(accepted)
	}
	if accepted {
		r.logger.Infof(ctx, "Privileged command %s%s from master %s", CommandPrefix, cmd.Name, cmd.Nick)
	} else {
		r.logger.Warnf(ctx, "Rejected privileged command %s%s from %s", CommandPrefix, cmd.Name, cmd.Nick)
	}
}

func (r *Runtime) uptime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startTime.IsZero() {
		return 0
	}
	return time.Since(r.startTime)
}

func boolWord(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

var _ ports.StatsProvider = (*Runtime)(nil)
