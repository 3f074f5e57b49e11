package normalize

import (
	"github.com/joseph-ayodele/quotes-importer/constants"
)

// Kind is the primitive type a column is coerced to.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindList
	KindNullableInt
	KindTimestamp // string; defaults to the normalizer clock
	KindUUID      // string; defaults to a fresh uuid
)

func (k Kind) String() string {
	switch k {
	case KindString, KindTimestamp, KindUUID:
		return "string"
	case KindInt, KindNullableInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Rule describes one recognized column of a destination table.
type Rule struct {
	Field    string
	Kind     Kind
	Required bool
	Default  any // used for KindString, KindInt, KindFloat, KindBool
}

func str(field string) Rule             { return Rule{Field: field, Kind: KindString, Default: ""} }
func strDef(field, def string) Rule     { return Rule{Field: field, Kind: KindString, Default: def} }
func integer(field string) Rule         { return Rule{Field: field, Kind: KindInt, Default: int64(0)} }
func intDef(field string, d int64) Rule { return Rule{Field: field, Kind: KindInt, Default: d} }
func float(field string) Rule           { return Rule{Field: field, Kind: KindFloat, Default: 0.0} }
func boolean(field string) Rule         { return Rule{Field: field, Kind: KindBool, Default: false} }
func list(field string) Rule            { return Rule{Field: field, Kind: KindList} }
func nullableInt(field string) Rule     { return Rule{Field: field, Kind: KindNullableInt} }
func timestamp(field string) Rule       { return Rule{Field: field, Kind: KindTimestamp} }
func required(field string) Rule        { return Rule{Field: field, Kind: KindInt, Required: true} }

var schema = map[constants.Table][]Rule{
	constants.Campaigns: {
		str("campname"),
		strDef("campstatus", constants.CampaignStatusTodo),
		integer("contact"),
		timestamp("created_at"),
		intDef("created_by", constants.SystemActorID),
		nullableInt("delay"),
		intDef("edited_by", constants.SystemActorID),
		str("end"),
		required("id"),
		nullableInt("invoicenr"),
		str("last_edit"),
		str("last_update"),
		list("logs"),
		float("price"),
		float("pricetotal"),
		list("products"),
		str("start"),
		{Field: "uuid", Kind: KindUUID},
		integer("VAT"),
	},
	constants.Clients: {
		timestamp("created_at"),
		str("gen_email"),
		required("id"),
		str("name"),
		str("number"),
		str("place"),
		integer("postal"),
		str("street"),
		str("vatnr"),
	},
	constants.Contacts: {
		required("client_id"),
		timestamp("created_at"),
		str("email"),
		required("id"),
		str("name"),
	},
	constants.Logs: {
		required("campaign"),
		timestamp("created_at"),
		boolean("file"),
		required("id"),
		strDef("logtype", constants.LogTypeSystem),
		str("note"),
		str("user_id"),
	},
	constants.Products: {
		integer("asset_amount"),
		str("asset_type"),
		float("asset_value"),
		str("campaign"),
		integer("campaign_id"),
		timestamp("created_at"),
		boolean("discount"),
		float("discount_percent"),
		str("discount_type"),
		float("discount_value"),
		list("end"),
		required("product_id"),
		float("product_price"),
		str("product_status"),
		str("region"),
		str("service"),
		integer("service_id"),
		str("service_type"),
		list("start"),
	},
}

// Rules returns the recognized columns of t in a stable order. The slice is a
// copy.
func Rules(t constants.Table) []Rule {
	return append([]Rule(nil), schema[t]...)
}
