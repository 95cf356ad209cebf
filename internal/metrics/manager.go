package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests         *prometheus.CounterVec
	CounterSessionsStarted  prometheus.Counter
	CounterSessionsBlocked  prometheus.Counter
	CounterSessionsFinished prometheus.Counter
	CounterPersistFailures  prometheus.Counter
	CounterActivityLogs     *prometheus.CounterVec

	// gauges
	GaugeRequests     prometheus.Gauge
	GaugeLiveSessions prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
	HistSessionDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("coaching", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("coaching", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "route", "status"})
	counterSessionsStarted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_started",
		Help:      "The total number of started workout sessions",
	})
	counterSessionsBlocked := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_blocked",
		Help:      "The total number of sessions stopped by the safety screening",
	})
	counterSessionsFinished := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_finished",
		Help:      "The total number of persisted workout sessions",
	})
	counterPersistFailures := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "session_persist_failures",
		Help:      "The total number of failed session writes",
	})
	counterActivityLogs := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "activity_logs",
		Help:      "The total number of saved non-workout activity logs",
	}, []string{"type"})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLiveSessions := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "live_sessions",
		Help:      "Number of live sessions held in memory",
	})

	histReqDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.0001, 0.0005, 0.001, 0.005, 0.01,
				0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
			},
			Name: "request_duration_seconds",
			Help: "Total duration of requests in seconds",
		},
	)
	histSessionDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{5, 10, 15, 20, 30, 45, 60, 90, 120, 180},
			Name:      "session_duration_minutes",
			Help:      "Duration of persisted workout sessions in minutes",
		},
	)

	return &Manager{
		CounterRequests:         counterRequests,
		CounterSessionsStarted:  counterSessionsStarted,
		CounterSessionsBlocked:  counterSessionsBlocked,
		CounterSessionsFinished: counterSessionsFinished,
		CounterPersistFailures:  counterPersistFailures,
		CounterActivityLogs:     counterActivityLogs,
		GaugeRequests:           gaugeRequests,
		GaugeLiveSessions:       gaugeLiveSessions,
		HistRequestDuration:     histReqDuration,
		HistSessionDuration:     histSessionDuration,
	}
}
