package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/edvin/dbaccess/internal/cache"
	"github.com/edvin/dbaccess/internal/catalog"
	"github.com/edvin/dbaccess/internal/config"
	"github.com/edvin/dbaccess/internal/core"
	"github.com/edvin/dbaccess/internal/db"
	"github.com/edvin/dbaccess/internal/metrics"
	"github.com/edvin/dbaccess/internal/native"
)

// runtime holds the connections a command needs. nativeDB is nil for commands
// that only touch the catalog.
type runtime struct {
	pool     *pgxpool.Pool
	nativeDB *sql.DB
	services *core.Services
}

func (r *runtime) Close() {
	if r.nativeDB != nil {
		r.nativeDB.Close()
	}
	if r.pool != nil {
		r.pool.Close()
	}
}

// connect opens the catalog pool and, when withNative is set, the managed
// server connection, then wires the core services over them.
func connect(ctx context.Context, cfg *config.Config, logger zerolog.Logger, withNative bool) (*runtime, error) {
	pool, err := db.NewCatalogPool(ctx, cfg.CatalogDatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to catalog database: %w", err)
	}
	rt := &runtime{pool: pool}

	var server core.NativeServer
	if withNative {
		tlsConfig, err := cfg.MySQLTLS()
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("configure MySQL TLS: %w", err)
		}
		nativeDB, err := db.NewNativeDB(ctx, cfg.MySQLDSN, cfg.MySQLMaxOpenConns, tlsConfig)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("connect to managed server: %w", err)
		}
		rt.nativeDB = nativeDB
		server = native.NewServer(nativeDB, logger)
	}

	listings := cache.New(cfg.CatalogCacheTTL, cache.SystemClock)
	rt.services = core.NewServices(catalog.NewStore(pool), server, listings, cfg.DefaultAccountHost, logger)
	return rt, nil
}

// registerPoolMetrics exposes connection pool gauges on reg.
func (r *runtime) registerPoolMetrics(reg prometheus.Registerer) {
	metrics.RegisterCatalogPoolMetrics(reg, r.pool)
	if r.nativeDB != nil {
		metrics.RegisterNativePoolMetrics(reg, r.nativeDB)
	}
}
