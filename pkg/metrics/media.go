package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MediaMetrics counts media pipeline activity.
type MediaMetrics struct {
	ingested  *prometheus.CounterVec
	evicted   *prometheus.CounterVec
	served    *prometheus.CounterVec
	integrity prometheus.Counter
}

// NewMediaMetrics registers the media pipeline metrics on the provided registerer.
func NewMediaMetrics(reg prometheus.Registerer) *MediaMetrics {
	if reg == nil {
		return &MediaMetrics{}
	}
	ingested := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "media_files_ingested",
		Help: "File records created by the ingest pipeline.",
	}, []string{"folder", "variant"})
	evicted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "media_files_evicted",
		Help: "File records removed by eviction.",
	}, []string{"folder"})
	served := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "media_files_served",
		Help: "File payloads streamed to clients.",
	}, []string{"folder"})
	integrity := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "media_integrity_errors",
		Help: "Resolve calls that found a record without its payload on disk.",
	})
	reg.MustRegister(ingested, evicted, served, integrity)
	return &MediaMetrics{
		ingested:  ingested,
		evicted:   evicted,
		served:    served,
		integrity: integrity,
	}
}

// IncIngested counts one stored file record.
func (m *MediaMetrics) IncIngested(folder, variant string) {
	if m == nil || m.ingested == nil {
		return
	}
	m.ingested.WithLabelValues(normalizeLabel(folder), normalizeLabel(variant)).Inc()
}

// IncEvicted counts one removed file record.
func (m *MediaMetrics) IncEvicted(folder string) {
	if m == nil || m.evicted == nil {
		return
	}
	m.evicted.WithLabelValues(normalizeLabel(folder)).Inc()
}

// IncServed counts one streamed payload.
func (m *MediaMetrics) IncServed(folder string) {
	if m == nil || m.served == nil {
		return
	}
	m.served.WithLabelValues(normalizeLabel(folder)).Inc()
}

// IncIntegrityError counts one record whose payload was missing on disk.
func (m *MediaMetrics) IncIntegrityError() {
	if m == nil || m.integrity == nil {
		return
	}
	m.integrity.Inc()
}
