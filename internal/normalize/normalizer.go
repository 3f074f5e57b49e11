package normalize

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/common"
	"github.com/joseph-ayodele/quotes-importer/internal/entity"
)

// Normalizer rewrites loose records into the typed shape of their destination
// table. It holds no state besides its clock and id source and is safe for
// concurrent use when those are.
type Normalizer struct {
	now     func() time.Time
	newUUID func() string
}

type Option func(*Normalizer)

// WithClock sets the source of created_at defaults.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

// WithUUID sets the source of uuid defaults.
func WithUUID(gen func() string) Option {
	return func(n *Normalizer) { n.newUUID = gen }
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		now:     time.Now,
		newUUID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns a new record for table t. Every recognized column holds
// its coerced value or its default; other columns are copied unchanged. A
// missing or non-integer required column yields a *common.CoercionError.
func (n *Normalizer) Normalize(t constants.Table, rec entity.Record) (entity.Record, error) {
	rules, ok := schema[t]
	if !ok {
		return nil, common.NewAppError("UNKNOWN_TABLE", string(t), common.ErrInvalidInput)
	}
	out := rec.Clone()
	if out == nil {
		out = entity.Record{}
	}
	for _, r := range rules {
		v, present := out[r.Field], out.Present(r.Field)
		if r.Required {
			if !present {
				return nil, common.Required(string(t), r.Field)
			}
			id, ok := toInt(v)
			if !ok {
				return nil, common.NotCoercible(string(t), r.Field, v, r.Kind.String())
			}
			out[r.Field] = id
			continue
		}
		out[r.Field] = n.coerce(r, v, present)
	}
	return out, nil
}

func (n *Normalizer) coerce(r Rule, v any, present bool) any {
	switch r.Kind {
	case KindString:
		if s, ok := toString(v); present && ok {
			return s
		}
	case KindInt:
		if i, ok := toInt(v); present && ok {
			return i
		}
	case KindFloat:
		if f, ok := toFloat(v); present && ok {
			return f
		}
	case KindBool:
		if b, ok := toBool(v); present && ok {
			return b
		}
	case KindList:
		if l, ok := toList(v); present && ok {
			return l
		}
		return []any{}
	case KindNullableInt:
		if i, ok := toInt(v); present && ok {
			return i
		}
		return nil
	case KindTimestamp:
		if s, ok := toString(v); present && ok {
			return s
		}
		return n.now().UTC().Format(time.RFC3339)
	case KindUUID:
		if s, ok := toString(v); present && ok && s != "" {
			return s
		}
		return n.newUUID()
	}
	return r.Default
}

// NormalizeUnit normalizes every record of u. The first coercion failure
// aborts the whole unit and no partial result is returned.
func (n *Normalizer) NormalizeUnit(u entity.Unit) (entity.Unit, error) {
	out := entity.Unit{Dropped: u.Dropped}
	var err error
	if out.Campaigns, err = n.Normalize(constants.Campaigns, u.Campaigns); err != nil {
		return entity.Unit{}, err
	}
	if out.Clients, err = n.Normalize(constants.Clients, u.Clients); err != nil {
		return entity.Unit{}, err
	}
	if out.Contacts, err = n.Normalize(constants.Contacts, u.Contacts); err != nil {
		return entity.Unit{}, err
	}
	if out.Logs, err = n.normalizeAll(constants.Logs, u.Logs); err != nil {
		return entity.Unit{}, err
	}
	if out.Products, err = n.normalizeAll(constants.Products, u.Products); err != nil {
		return entity.Unit{}, err
	}
	return out, nil
}

func (n *Normalizer) normalizeAll(t constants.Table, recs []entity.Record) ([]entity.Record, error) {
	out := make([]entity.Record, 0, len(recs))
	for _, rec := range recs {
		norm, err := n.Normalize(t, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, norm)
	}
	return out, nil
}
