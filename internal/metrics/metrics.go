package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/plaimi/q/internal/ports"
)

// Collector owns a private registry so that several instances (for example
// in tests) never collide on metric names.
type Collector struct {
	registry *prometheus.Registry

	ConfigInfo *prometheus.GaugeVec
	Uptime     prometheus.Gauge
	Commands   *prometheus.CounterVec
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		ConfigInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "q_config_info",
				Help: "Resolved configuration (always 1)",
			},
			[]string{"network", "channel", "nickname"},
		),
		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "q_uptime_seconds",
				Help: "Uptime of the bot in seconds",
			},
		),
		Commands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "q_privileged_commands_total",
				Help: "Privileged commands seen, by authorization result",
			},
			[]string{"result"},
		),
	}
}

func (c *Collector) RecordConfig(cfg ports.BotConfig) {
	c.ConfigInfo.Reset()
	c.ConfigInfo.WithLabelValues(cfg.Network, cfg.Channel, cfg.Nickname).Set(1)
}

func (c *Collector) RecordCommand(accepted bool) {
	if accepted {
		c.Commands.WithLabelValues("accepted").Inc()
		return
	}
	c.Commands.WithLabelValues("rejected").Inc()
}

func (c *Collector) SetUptime(d time.Duration) {
	c.Uptime.Set(d.Seconds())
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
