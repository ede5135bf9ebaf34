package intern

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports registry counters to Prometheus. It reads the registry
// through source on every scrape, so it follows the default registry across
// teardown and re-creation.
type Collector struct {
	source func() *Registry

	entries       *prometheus.Desc
	interns       *prometheus.Desc
	inserts       *prometheus.Desc
	collisions    *prometheus.Desc
	resolveMisses *prometheus.Desc
	feedDropped   *prometheus.Desc
}

// NewCollector creates a collector. A nil source reads Default.
func NewCollector(namespace string, source func() *Registry) *Collector {
	if source == nil {
		source = Default
	}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "intern", name),
			help,
			[]string{"hasher"},
			nil,
		)
	}
	return &Collector{
		source:        source,
		entries:       desc("entries", "Number of interned strings."),
		interns:       desc("interns_total", "Intern calls, hits included."),
		inserts:       desc("inserts_total", "Intern calls that inserted a new entry."),
		collisions:    desc("collisions_total", "Distinct texts that hashed to an occupied identifier."),
		resolveMisses: desc("resolve_misses_total", "Resolve calls for unknown identifiers."),
		feedDropped:   desc("feed_dropped_total", "Feed entries dropped on full subscriber buffers."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.interns
	ch <- c.inserts
	ch <- c.collisions
	ch <- c.resolveMisses
	ch <- c.feedDropped
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	r := c.source()
	if r == nil {
		return
	}
	st := r.Stats()
	hasher := r.HasherName()

	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(st.Entries), hasher)
	ch <- prometheus.MustNewConstMetric(c.interns, prometheus.CounterValue, float64(st.Interns), hasher)
	ch <- prometheus.MustNewConstMetric(c.inserts, prometheus.CounterValue, float64(st.Inserts), hasher)
	ch <- prometheus.MustNewConstMetric(c.collisions, prometheus.CounterValue, float64(st.Collisions), hasher)
	ch <- prometheus.MustNewConstMetric(c.resolveMisses, prometheus.CounterValue, float64(st.ResolveMisses), hasher)
	ch <- prometheus.MustNewConstMetric(c.feedDropped, prometheus.CounterValue, float64(st.FeedDropped), hasher)
}
