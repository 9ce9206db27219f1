// Package metrics exposes the site's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metric on its own registry so tests can create as
// many as they like.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests      *prometheus.CounterVec
	PageViews         *prometheus.CounterVec
	ChatSubmissions   *prometheus.CounterVec
	ChatReplies       *prometheus.CounterVec
	ContactMessages   *prometheus.CounterVec
	BackgroundStreams prometheus.Gauge
	ChatSessions      prometheus.GaugeFunc
}

// New registers the collectors under namespace. sessions reports the number
// of live chat sessions when scraped; it may be nil.
func New(namespace string, sessions func() int) *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		PageViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_views_total",
			Help:      "Rendered pages and section fragments.",
		}, []string{"section"}),
		ChatSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_submissions_total",
			Help:      "Chat submissions by outcome (accepted, ignored).",
		}, []string{"outcome"}),
		ChatReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_replies_total",
			Help:      "Bot replies by matched rule.",
		}, []string{"rule"}),
		ContactMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_messages_total",
			Help:      "Contact form submissions by outcome.",
		}, []string{"outcome"}),
		BackgroundStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "background_streams",
			Help:      "Open particle background streams.",
		}),
	}
	if sessions == nil {
		sessions = func() int { return 0 }
	}
	c.ChatSessions = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "chat_sessions",
		Help:      "Live chat sessions.",
	}, func() float64 { return float64(sessions()) })

	reg.MustRegister(
		c.HTTPRequests,
		c.PageViews,
		c.ChatSubmissions,
		c.ChatReplies,
		c.ContactMessages,
		c.BackgroundStreams,
		c.ChatSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
