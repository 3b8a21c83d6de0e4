package telemetry

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	fieldErrors     *prometheus.CounterVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_http_requests_total",
				Help: "Total HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "profile_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds by method, route and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "profile_http_requests_in_flight",
				Help: "Current number of in-flight HTTP requests.",
			},
		),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_commands_total",
				Help: "Total commands handled by name and outcome.",
			},
			[]string{"command", "outcome"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "profile_command_duration_seconds",
				Help:    "Command latency in seconds by name and outcome.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command", "outcome"},
		),
		fieldErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_update_field_errors_total",
				Help: "Rejected profile fields by command and field.",
			},
			[]string{"command", "field"},
		),
		dbQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_db_queries_total",
				Help: "Total DB method calls by method and status.",
			},
			[]string{"method", "status"},
		),
		dbQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "profile_db_query_duration_seconds",
				Help:    "DB method duration in seconds by method and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status"},
		),
	}

	registerer.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.httpRequestsInFlight,
		m.commandsTotal,
		m.commandDuration,
		m.fieldErrors,
		m.dbQueriesTotal,
		m.dbQueryDuration,
	)

	return m
}

func (m *Metrics) ObserveHTTP(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}

	m.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func (m *Metrics) IncHTTPInFlight() {
	if m == nil {
		return
	}

	m.httpRequestsInFlight.Inc()
}

func (m *Metrics) DecHTTPInFlight() {
	if m == nil {
		return
	}

	m.httpRequestsInFlight.Dec()
}

func (m *Metrics) ObserveCommand(command, outcome string, duration time.Duration) {
	if m == nil {
		return
	}

	m.commandsTotal.WithLabelValues(command, outcome).Inc()
	m.commandDuration.WithLabelValues(command, outcome).Observe(duration.Seconds())
}

func (m *Metrics) ObserveFieldErrors(command string, fields []string) {
	if m == nil {
		return
	}

	for _, f := range fields {
		m.fieldErrors.WithLabelValues(command, f).Inc()
	}
}

func (m *Metrics) ObserveDB(method, status string, duration time.Duration) {
	if m == nil {
		return
	}

	m.dbQueriesTotal.WithLabelValues(method, status).Inc()
	m.dbQueryDuration.WithLabelValues(method, status).Observe(duration.Seconds())
}

func RegisterDBPoolMetrics(pool *pgxpool.Pool, registerer prometheus.Registerer) error {
	if pool == nil {
		return errors.New("pool is nil")
	}
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	collectors := []prometheus.Collector{
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "profile_db_pool_total_connections",
				Help: "Open database connections.",
			},
			func() float64 { return float64(pool.Stat().TotalConns()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "profile_db_pool_acquired_connections",
				Help: "Connections currently acquired from the pool.",
			},
			func() float64 { return float64(pool.Stat().AcquiredConns()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "profile_db_pool_idle_connections",
				Help: "Idle database connections.",
			},
			func() float64 { return float64(pool.Stat().IdleConns()) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "profile_db_pool_empty_acquire_total",
				Help: "Acquires that had to wait because the pool was empty.",
			},
			func() float64 { return float64(pool.Stat().EmptyAcquireCount()) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "profile_db_pool_acquire_duration_seconds_total",
				Help: "Total time spent acquiring connections in seconds.",
			},
			func() float64 { return pool.Stat().AcquireDuration().Seconds() },
		),
	}

	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}

	return nil
}
