package repository

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/normalize"
)

// columnType maps a normalizer kind to the column type of dialect d.
func columnType(d string, k normalize.Kind) string {
	pg := d == dialect.Postgres
	switch k {
	case normalize.KindInt, normalize.KindNullableInt:
		if pg {
			return "bigint"
		}
		return "INTEGER"
	case normalize.KindFloat:
		if pg {
			return "double precision"
		}
		return "REAL"
	case normalize.KindBool:
		if pg {
			return "boolean"
		}
		return "INTEGER"
	case normalize.KindList:
		if pg {
			return "jsonb"
		}
		return "TEXT"
	default:
		if pg {
			return "text"
		}
		return "TEXT"
	}
}

// CreateTableQuery returns the CREATE TABLE IF NOT EXISTS statement for t.
func CreateTableQuery(d string, t constants.Table) string {
	b := entsql.Dialect(d)
	rules := normalize.Rules(t)
	cols := make([]*entsql.ColumnBuilder, 0, len(rules))
	for _, r := range rules {
		c := b.Column(r.Field).Type(columnType(d, r.Kind))
		if r.Required {
			c.Attr("NOT NULL")
		}
		cols = append(cols, c)
	}
	query, _ := b.CreateTable(t.String()).IfNotExists().Columns(cols...).PrimaryKey(t.KeyColumn()).Query()
	return query
}

// EnsureSchema creates the destination tables when they do not exist yet.
// Existing tables are left untouched.
func EnsureSchema(ctx context.Context, drv *entsql.Driver) error {
	for _, t := range constants.PersistOrder {
		if err := drv.Exec(ctx, CreateTableQuery(drv.Dialect(), t), []any{}, nil); err != nil {
			return fmt.Errorf("create table %s: %w", t, err)
		}
	}
	return nil
}
