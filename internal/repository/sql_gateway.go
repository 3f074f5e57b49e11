package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/common"
	"github.com/joseph-ayodele/quotes-importer/internal/entity"
	"github.com/joseph-ayodele/quotes-importer/internal/normalize"
)

type sqlGateway struct {
	drv    *entsql.Driver
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewSQLGateway upserts through drv. pool is closed with the gateway when set.
func NewSQLGateway(drv *entsql.Driver, pool *pgxpool.Pool, logger *slog.Logger) Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &sqlGateway{drv: drv, pool: pool, logger: logger}
}

// Upsert writes the recognized columns of rec and replaces every one of them
// on key conflict. Columns the table does not know are not sent.
func (g *sqlGateway) Upsert(ctx context.Context, table constants.Table, rec entity.Record) error {
	query, args, err := upsertQuery(g.drv.Dialect(), table, rec)
	if err != nil {
		return err
	}
	if err := g.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	g.logger.Debug("record upserted", "table", table.String(), "key", rec[table.KeyColumn()])
	return nil
}

func upsertQuery(d string, table constants.Table, rec entity.Record) (string, []any, error) {
	key := table.KeyColumn()
	if !rec.Present(key) {
		return "", nil, common.NewAppError("MISSING_KEY", fmt.Sprintf("%s.%s", table, key), common.ErrInvalidInput)
	}
	rules := normalize.Rules(table)
	cols := make([]string, 0, len(rules))
	vals := make([]any, 0, len(rules))
	for _, r := range rules {
		v, ok := rec[r.Field]
		if !ok {
			continue
		}
		arg, err := columnValue(v)
		if err != nil {
			return "", nil, fmt.Errorf("%s.%s: %w", table, r.Field, err)
		}
		cols = append(cols, r.Field)
		vals = append(vals, arg)
	}
	query, args, err := entsql.Dialect(d).
		Insert(table.String()).
		Columns(cols...).
		Values(vals...).
		OnConflict(entsql.ConflictColumns(key), entsql.ResolveWithNewValues()).
		QueryErr()
	if err != nil {
		return "", nil, err
	}
	return query, args, nil
}

// columnValue converts a normalized value into a driver argument. Lists and
// objects are stored as JSON text.
func columnValue(v any) (any, error) {
	switch x := v.(type) {
	case nil, string, bool, int64, float64:
		return x, nil
	case int:
		return int64(x), nil
	case json.Number:
		return x.String(), nil
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
}

func (g *sqlGateway) HealthCheck(ctx context.Context) error {
	return HealthCheck(ctx, g.drv, 5*time.Second, g.logger)
}

func (g *sqlGateway) Close() error {
	Close(g.drv, g.pool, g.logger)
	return nil
}
