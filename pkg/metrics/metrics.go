package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus метрик сервиса
// Все методы записи безопасны для nil-получателя: при выключенных метриках main передает nil
type Metrics struct {
	service string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueriesTotal   *prometheus.CounterVec
	DBQueryDuration  *prometheus.HistogramVec
	DBOpenConns      *prometheus.GaugeVec
	DBInUseConns     *prometheus.GaugeVec
	DBIdleConns      *prometheus.GaugeVec
	DBWaitCountTotal *prometheus.GaugeVec

	ReservationsTotal  *prometheus.CounterVec
	AdmissionsRejected *prometheus.CounterVec
	RefundsTotal       *prometheus.CounterVec
	SettingsCacheTotal *prometheus.CounterVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в переданном registerer
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		service: serviceName,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries",
		}, []string{"service", "operation", "status"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		DBOpenConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),

		DBInUseConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		DBIdleConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		DBWaitCountTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count_total",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		ReservationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservations_total",
			Help: "Reservation lifecycle transitions",
		}, []string{"service", "status"}),

		AdmissionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservation_admissions_rejected_total",
			Help: "Booking requests rejected by slot policy or capacity",
		}, []string{"service", "reason"}),

		RefundsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservation_refunds_total",
			Help: "Refund attempts by result",
		}, []string{"service", "result"}),

		SettingsCacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservation_settings_cache_total",
			Help: "Settings cache lookups by result",
		}, []string{"service", "result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.DBOpenConns,
		m.DBInUseConns,
		m.DBIdleConns,
		m.DBWaitCountTotal,
		m.ReservationsTotal,
		m.AdmissionsRejected,
		m.RefundsTotal,
		m.SettingsCacheTotal,
	)

	return m
}

// ObserveHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.service, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.service, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery записывает метрики запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.DBQueriesTotal.WithLabelValues(m.service, operation, status).Inc()
	m.DBQueryDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
}

// RecordReservation считает переход бронирования в статус (RESERVED, CANCELLED, VISITED)
func (m *Metrics) RecordReservation(status string) {
	if m == nil {
		return
	}
	m.ReservationsTotal.WithLabelValues(m.service, status).Inc()
}

// RecordAdmissionRejected считает отказ в бронировании с причиной
func (m *Metrics) RecordAdmissionRejected(reason string) {
	if m == nil {
		return
	}
	m.AdmissionsRejected.WithLabelValues(m.service, reason).Inc()
}

// RecordRefund считает попытку возврата (success, failure)
func (m *Metrics) RecordRefund(result string) {
	if m == nil {
		return
	}
	m.RefundsTotal.WithLabelValues(m.service, result).Inc()
}

// RecordSettingsCache считает обращение к кешу настроек (hit, miss, error)
func (m *Metrics) RecordSettingsCache(result string) {
	if m == nil {
		return
	}
	m.SettingsCacheTotal.WithLabelValues(m.service, result).Inc()
}
