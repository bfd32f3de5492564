package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterCatalogPoolMetrics exposes catalog connection pool statistics as Prometheus gauges.
func RegisterCatalogPoolMetrics(reg prometheus.Registerer, pool *pgxpool.Pool) {
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "dbaccess_catalog_pool_acquired_conns",
			Help: "Number of currently acquired connections in the catalog pool",
		}, func() float64 {
			return float64(pool.Stat().AcquiredConns())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "dbaccess_catalog_pool_max_conns",
			Help: "Maximum number of connections in the catalog pool",
		}, func() float64 {
			return float64(pool.Stat().MaxConns())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "dbaccess_catalog_pool_idle_conns",
			Help: "Number of idle connections in the catalog pool",
		}, func() float64 {
			return float64(pool.Stat().IdleConns())
		}),
	)
}
