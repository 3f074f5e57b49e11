package constants

// Table is a destination table name as stored in the database.
type Table string

const (
	Campaigns Table = "Campaigns"
	Clients   Table = "Clients"
	Contacts  Table = "Contacts"
	Logs      Table = "Logs"
	Products  Table = "Products"
)

// PersistOrder is the order in which one unit's records are handed to the gateway.
var PersistOrder = []Table{Clients, Campaigns, Contacts, Logs, Products}

// KeyColumn returns the column an upsert into t is keyed by.
func (t Table) KeyColumn() string {
	if t == Products {
		return "product_id"
	}
	return "id"
}

func (t Table) String() string { return string(t) }
