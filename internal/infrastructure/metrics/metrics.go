// Package metrics expõe a instrumentação Prometheus da API: requisições HTTP,
// movimentações gravadas e eficiência do cache de leitura.
//
// Montagem (cmd/api):
//
//	m := metrics.New()
//	app.Use(m.Middleware())
//	app.Get("/metrics", m.Handler())
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amancio-obras/estoque-obras/internal/application/ports"
	"github.com/amancio-obras/estoque-obras/internal/domain/entity"
)

const namespace = "estoque"

var _ ports.MovementObserver = (*Metrics)(nil)

// Metrics agrupa os coletores num registry próprio.
type Metrics struct {
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	inFlight        prometheus.Gauge

	movementsRecorded *prometheus.CounterVec
	movementsDeleted  *prometheus.CounterVec
	quantityMoved     *prometheus.CounterVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
}

// New cria e registra os coletores.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duração das requisições HTTP em segundos.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total de requisições HTTP.",
		}, []string{"method", "path", "status"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Requisições em atendimento.",
		}),
		movementsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "razao",
			Name:      "movimentacoes_registradas_total",
			Help:      "Movimentações gravadas, por tipo.",
		}, []string{"tipo"}),
		movementsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "razao",
			Name:      "movimentacoes_removidas_total",
			Help:      "Movimentações removidas, por tipo.",
		}, []string{"tipo"}),
		quantityMoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "razao",
			Name:      "quantidade_movimentada_total",
			Help:      "Soma das quantidades gravadas, por tipo.",
		}, []string{"tipo"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Leituras servidas pelo cache.",
		}, []string{"driver"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Leituras que foram ao banco.",
		}, []string{"driver"}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.requestTotal,
		m.inFlight,
		m.movementsRecorded,
		m.movementsDeleted,
		m.quantityMoved,
		m.cacheHits,
		m.cacheMisses,
	)
	return m
}

// Middleware registra duração, total e requisições em andamento.
// O label path usa a rota registrada (/api/products/:codigo) para não explodir a cardinalidade.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		code := strconv.Itoa(status)
		m.requestDuration.WithLabelValues(c.Method(), path, code).Observe(time.Since(start).Seconds())
		m.requestTotal.WithLabelValues(c.Method(), path, code).Inc()
		return err
	}
}

// Handler expõe o registry no formato Prometheus/OpenMetrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
}

// MovementRecorded conta a movimentação gravada.
func (m *Metrics) MovementRecorded(mov *entity.Movement) {
	m.movementsRecorded.WithLabelValues(mov.Type).Inc()
	m.quantityMoved.WithLabelValues(mov.Type).Add(mov.Quantity.InexactFloat64())
}

// MovementDeleted conta a movimentação removida.
func (m *Metrics) MovementDeleted(mov *entity.Movement) {
	m.movementsDeleted.WithLabelValues(mov.Type).Inc()
}

// InstrumentCache embrulha o cache contando hits e misses com o label driver.
func (m *Metrics) InstrumentCache(c ports.Cache, driver string) ports.Cache {
	return &instrumentedCache{Cache: c, hits: m.cacheHits.WithLabelValues(driver), misses: m.cacheMisses.WithLabelValues(driver)}
}

type instrumentedCache struct {
	ports.Cache
	hits, misses prometheus.Counter
}

func (c *instrumentedCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	hit, err := c.Cache.Get(ctx, key, dest)
	if hit {
		c.hits.Inc()
	} else {
		c.misses.Inc()
	}
	return hit, err
}
