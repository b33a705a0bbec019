package history

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts history activity. A nil *Metrics records nothing.
type Metrics struct {
	// records counts external changes pushed onto the undo stack
	records prometheus.Counter

	// steps counts successful undo/redo by direction
	steps *prometheus.CounterVec

	// rollbacks counts restores undone because the source panicked
	rollbacks prometheus.Counter
}

// NewMetrics registers the history counters on reg.
// Several trackers may share one Metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		records: factory.NewCounter(prometheus.CounterOpts{
			Name: "usesig_history_records_total",
			Help: "Total external changes recorded into history",
		}),
		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "usesig_history_steps_total",
			Help: "Total undo/redo steps by direction",
		}, []string{"direction"}),
		rollbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "usesig_history_rollbacks_total",
			Help: "Total undo/redo steps rolled back after a failed write",
		}),
	}
}

func (m *Metrics) record() {
	if m != nil {
		m.records.Inc()
	}
}

func (m *Metrics) step(origin Origin) {
	if m != nil {
		m.steps.WithLabelValues(origin.String()).Inc()
	}
}

func (m *Metrics) rollback() {
	if m != nil {
		m.rollbacks.Inc()
	}
}
