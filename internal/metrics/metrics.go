package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	probes       *prometheus.CounterVec
	alerts       *prometheus.CounterVec
	passDuration prometheus.Histogram
	watchedSites prometheus.Gauge
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "downalert_probes_total",
			Help: "Liveness probes by outcome.",
		}, []string{"result"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "downalert_alerts_total",
			Help: "Down alerts by delivery outcome.",
		}, []string{"result"}),
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "downalert_poll_pass_duration_seconds",
			Help:    "Duration of a full poll pass.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		watchedSites: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "downalert_watched_sites",
			Help: "Sites read by the last poll pass.",
		}),
	}

	reg.MustRegister(c.probes, c.alerts, c.passDuration, c.watchedSites)
	return c
}

func (c *Collector) RecordProbe(down bool) {
	if down {
		c.probes.WithLabelValues("down").Inc()
	} else {
		c.probes.WithLabelValues("up").Inc()
	}
}

func (c *Collector) RecordAlert(err error) {
	if err != nil {
		c.alerts.WithLabelValues("failed").Inc()
	} else {
		c.alerts.WithLabelValues("sent").Inc()
	}
}

func (c *Collector) RecordPass(duration time.Duration, sites int) {
	c.passDuration.Observe(duration.Seconds())
	c.watchedSites.Set(float64(sites))
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
