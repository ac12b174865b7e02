// Package metrics records HTTP request metrics, exported to prometheus and
// summarised in-process for the admin report.
package metrics

import (
	"errors"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"

	"github.com/tteodorogustavo/athlos/pkg/api"
)

const errorWindow = 24 * time.Hour

type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge

	total      atomic.Int64
	serverErrs atomic.Int64
	latencyNs  atomic.Int64
	started    time.Time

	mu     sync.Mutex
	hourly [24]hourBucket
	now    func() time.Time
}

type hourBucket struct {
	hour  int64
	count int64
}

func NewCollector() *Collector {
	return &Collector{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "athlos_http_requests_total",
			Help: "Number of HTTP requests handled, by method, route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "athlos_http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "athlos_http_requests_in_flight",
			Help: "Number of HTTP requests being served",
		}),
		started: time.Now(),
		now:     time.Now,
	}
}

func (c *Collector) Register(registerer prometheus.Registerer) error {
	return errors.Join(
		registerer.Register(c.requestsTotal),
		registerer.Register(c.requestDuration),
		registerer.Register(c.inFlight),
	)
}

func (c *Collector) MustRegister(registerer prometheus.Registerer) {
	if err := c.Register(registerer); err != nil {
		panic(err)
	}
}

// Begin marks a request as in flight and returns the func that ends it.
func (c *Collector) Begin() func() {
	c.inFlight.Inc()
	return c.inFlight.Dec
}

// Observe records one finished request.
func (c *Collector) Observe(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())

	c.total.Inc()
	c.latencyNs.Add(elapsed.Nanoseconds())
	if status >= 500 {
		c.serverErrs.Inc()
		c.recordError()
	}
}

func (c *Collector) recordError() {
	hour := c.now().Unix() / 3600
	c.mu.Lock()
	defer c.mu.Unlock()
	b := &c.hourly[hour%int64(len(c.hourly))]
	if b.hour != hour {
		b.hour = hour
		b.count = 0
	}
	b.count++
}

func (c *Collector) errorsLast24h() int64 {
	hour := c.now().Unix() / 3600
	oldest := hour - int64(errorWindow/time.Hour) + 1
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, b := range c.hourly {
		if b.hour >= oldest && b.hour <= hour {
			n += b.count
		}
	}
	return n
}

// Snapshot summarises traffic since the process started. Uptime is the
// share of requests answered without a server error.
func (c *Collector) Snapshot() api.Performance {
	total := c.total.Load()
	p := api.Performance{
		TotalRequisicoes: total,
		Uptime:           100,
		Erros24h:         c.errorsLast24h(),
	}
	if total > 0 {
		meanMs := float64(c.latencyNs.Load()) / float64(total) / float64(time.Millisecond)
		p.TempoMedioResposta = round1(meanMs)
		p.Uptime = round1(100 * float64(total-c.serverErrs.Load()) / float64(total))
	}
	return p
}

// Since returns when the collector started counting.
func (c *Collector) Since() time.Time {
	return c.started
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
