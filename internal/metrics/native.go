package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded for native statements.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

var nativeStatementsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dbaccess_native_statements_total",
		Help: "Native account management statements issued against the managed server",
	},
	[]string{"kind", "outcome"},
)

// ObserveNativeStatement counts one native statement of the given kind (GRANT, REVOKE, ...).
func ObserveNativeStatement(kind, outcome string) {
	nativeStatementsTotal.WithLabelValues(kind, outcome).Inc()
}

// RegisterNativePoolMetrics exposes the managed server's database/sql pool statistics.
func RegisterNativePoolMetrics(reg prometheus.Registerer, db *sql.DB) {
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "dbaccess_native_pool_open_conns",
			Help: "Number of open connections to the managed server",
		}, func() float64 {
			return float64(db.Stats().OpenConnections)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "dbaccess_native_pool_in_use_conns",
			Help: "Number of connections to the managed server currently in use",
		}, func() float64 {
			return float64(db.Stats().InUse)
		}),
	)
}
