package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/common"
	"github.com/joseph-ayodele/quotes-importer/internal/entity"
)

// Gateway is the persistence collaborator: an idempotent insert-or-update of
// one record, keyed by the table's key column.
type Gateway interface {
	Upsert(ctx context.Context, table constants.Table, rec entity.Record) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// Open builds the gateway selected by cfg.Gateway.Kind. SQL gateways have
// their tables created when missing.
func Open(ctx context.Context, cfg *common.Config, logger *slog.Logger) (Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Gateway.Kind {
	case common.GatewaySupabase:
		return NewRESTGateway(cfg.Gateway.SupabaseURL, cfg.Gateway.SupabaseKey, cfg.Gateway.Timeout, logger), nil
	case common.GatewayPostgres:
		drv, pool, err := OpenPostgres(ctx, Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		gw := NewSQLGateway(drv, pool, logger)
		if err := EnsureSchema(ctx, drv); err != nil {
			_ = gw.Close()
			return nil, err
		}
		return gw, nil
	case common.GatewaySQLite:
		drv, err := OpenSQLite(ctx, cfg.Database.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		gw := NewSQLGateway(drv, nil, logger)
		if err := EnsureSchema(ctx, drv); err != nil {
			_ = gw.Close()
			return nil, err
		}
		return gw, nil
	default:
		return nil, fmt.Errorf("unknown gateway %q: %w", cfg.Gateway.Kind, common.ErrInvalidInput)
	}
}
