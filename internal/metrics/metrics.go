// Package metrics exposes the Prometheus counters/gauges the scheduler
// and acquisition table update as a run progresses, grounded on the
// promauto-based registration style used across the retrieval pack
// (e.g. PossumXI-Asgard_Arobi/Pricilla/internal/metrics), scaled down
// to this module's own namespace and domain.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gpssim"

// Metrics holds the counters and gauges exported at /metrics.
type Metrics struct {
	SamplesEmitted   prometheus.Counter
	EpochsProcessed  prometheus.Counter
	ChannelsActive   prometheus.Gauge
	ChannelAdmits    prometheus.Counter
	ChannelEvictions prometheus.Counter
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the process-wide Metrics instance, registering its
// collectors with the default registry on first use.
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			SamplesEmitted: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "samples_emitted_total",
				Help:      "Total (I,Q) sample pairs written to the output sink.",
			}),
			EpochsProcessed: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "epochs_processed_total",
				Help:      "Total position epochs driven by the scheduler.",
			}),
			ChannelsActive: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "channels_active",
				Help:      "Number of channel-table slots currently occupied.",
			}),
			ChannelAdmits: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "channel_admits_total",
				Help:      "Total satellite admissions into the channel table.",
			}),
			ChannelEvictions: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "channel_evictions_total",
				Help:      "Total satellite evictions from the channel table (out of view or displaced).",
			}),
		}
	})
	return instance
}
