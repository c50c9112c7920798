package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docnav"

// PrometheusRecorder implements Recorder using Prometheus collectors.
type PrometheusRecorder struct {
	gateDecisions    *prom.CounterVec
	versionFallbacks prom.Counter
	adjacentLookups  *prom.CounterVec
	registryReloads  *prom.CounterVec
	registryVersions prom.Gauge
	requestDuration  *prom.HistogramVec
}

// NewPrometheusRecorder creates the collectors and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		gateDecisions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "gate_decisions_total",
			Help:      "Version gate decisions by outcome",
		}, []string{"decision"}),
		versionFallbacks: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "version_fallbacks_total",
			Help:      "Lookups for unknown versions served from the default version",
		}),
		adjacentLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "adjacent_lookups_total",
			Help:      "Previous/next lookups by whether the current page was found",
		}, []string{"result"}),
		registryReloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "registry_reloads_total",
			Help:      "Registry reload attempts by result",
		}, []string{"result"}),
		registryVersions: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_versions",
			Help:      "Number of documentation versions in the active registry",
		}),
		requestDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route pattern and status code",
			Buckets:   prom.DefBuckets,
		}, []string{"route", "code"}),
	}
	reg.MustRegister(pr.gateDecisions, pr.versionFallbacks, pr.adjacentLookups,
		pr.registryReloads, pr.registryVersions, pr.requestDuration)
	return pr
}

func (p *PrometheusRecorder) IncGateDecision(d GateDecision) {
	p.gateDecisions.WithLabelValues(string(d)).Inc()
}

func (p *PrometheusRecorder) IncVersionFallback() { p.versionFallbacks.Inc() }

func (p *PrometheusRecorder) IncAdjacentLookup(found bool) {
	res := "not_found"
	if found {
		res = "found"
	}
	p.adjacentLookups.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) IncRegistryReload(result ResultLabel) {
	p.registryReloads.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) SetRegistryVersions(n int) { p.registryVersions.Set(float64(n)) }

func (p *PrometheusRecorder) ObserveHTTPRequest(route string, status int, d time.Duration) {
	p.requestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}

// HTTPHandler serves the metrics gathered by g.
func HTTPHandler(g prom.Gatherer) http.Handler {
	if g == nil {
		g = prom.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
