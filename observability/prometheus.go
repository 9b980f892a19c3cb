package observability

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// HistogramBuckets cover amounts in cents and GB alike: 1 to 262144.
var HistogramBuckets = prometheus.ExponentialBuckets(1, 4, 10)

// PrometheusFactory creates metrics registered with a Prometheus registerer.
// Dotted metric names become underscored, and counters get a _total suffix.
type PrometheusFactory struct {
	reg prometheus.Registerer
}

var _ MetricFactory = (*PrometheusFactory)(nil)

// NewPrometheusFactory returns a factory registering with reg.
func NewPrometheusFactory(reg prometheus.Registerer) *PrometheusFactory {
	return &PrometheusFactory{reg: reg}
}

// Counter implements MetricFactory. A name registered twice yields the
// first collector.
func (f *PrometheusFactory) Counter(name string) Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name: metricName(name) + "_total",
		Help: "Count of " + name + ".",
	})
	if existing, ok := register(f.reg, c).(prometheus.Counter); ok {
		return existing
	}
	return c
}

// Histogram implements MetricFactory.
func (f *PrometheusFactory) Histogram(name string) Histogram {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    metricName(name),
		Help:    "Distribution of " + name + ".",
		Buckets: HistogramBuckets,
	})
	if existing, ok := register(f.reg, h).(prometheus.Histogram); ok {
		return existing
	}
	return h
}

// register returns the collector already holding c's name, or c itself.
func register(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	err := reg.Register(c)
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return are.ExistingCollector
	}
	return c
}

func metricName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}
