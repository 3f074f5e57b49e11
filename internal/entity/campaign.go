package entity

// Campaign is the assembled Quote row bound for the Campaigns table.
type Campaign struct {
	ID         *int64   `json:"id"`
	CreatedAt  *string  `json:"created_at"`
	Price      *float64 `json:"price"`
	PriceTotal *float64 `json:"pricetotal"`
	VAT        *int64   `json:"VAT"`
	CampName   *string  `json:"campname"`
}

// Client is the assembled row bound for the Clients table.
type Client struct {
	ID     *int64  `json:"id"`
	Name   *string `json:"name"`
	Street *string `json:"street"`
	Place  *string `json:"place"`
	Number string  `json:"number"`
	Postal *string `json:"postal"`
	VATNr  *string `json:"vatnr"`
}

// Contact is the assembled row bound for the Contacts table.
type Contact struct {
	ID       *int64  `json:"id"`
	ClientID *int64  `json:"client_id"`
	Name     *string `json:"name"`
}

// Log is the assembled row bound for the Logs table.
type Log struct {
	ID       *int64 `json:"id"`
	Campaign *int64 `json:"campaign"`
	Note     string `json:"note"`
}

// Product is one assembled line item bound for the Products table.
type Product struct {
	ProductID    *int64   `json:"product_id"`
	CampaignID   *int64   `json:"campaign_id"`
	Campaign     *string  `json:"campaign"`
	CreatedAt    *string  `json:"created_at"`
	Start        []string `json:"start"`
	End          []string `json:"end"`
	ServiceID    int      `json:"service_id"`
	Service      string   `json:"service"`
	Region       string   `json:"region"`
	AssetType    string   `json:"asset_type"`
	AssetAmount  int64    `json:"asset_amount"`
	AssetValue   float64  `json:"asset_value"`
	ProductPrice float64  `json:"product_price"`
	Discount     bool     `json:"discount"`
}

// Bundle is the assembler output: one record per table and the line items.
// Its JSON form is the upload endpoint response.
type Bundle struct {
	Campaigns Campaign  `json:"Campaigns"`
	Clients   Client    `json:"Clients"`
	Contacts  Contact   `json:"Contacts"`
	Logs      Log       `json:"Logs"`
	Products  []Product `json:"Products"`
}

// Unit converts the typed bundle into the loose form the normalizer consumes.
func (b Bundle) Unit() (Unit, error) {
	var u Unit
	var err error
	if u.Campaigns, err = ToRecord(b.Campaigns); err != nil {
		return Unit{}, err
	}
	if u.Clients, err = ToRecord(b.Clients); err != nil {
		return Unit{}, err
	}
	if u.Contacts, err = ToRecord(b.Contacts); err != nil {
		return Unit{}, err
	}
	logRec, err := ToRecord(b.Logs)
	if err != nil {
		return Unit{}, err
	}
	u.Logs = []Record{logRec}
	u.Products = make([]Record, 0, len(b.Products))
	for _, p := range b.Products {
		rec, err := ToRecord(p)
		if err != nil {
			return Unit{}, err
		}
		u.Products = append(u.Products, rec)
	}
	return u, nil
}
