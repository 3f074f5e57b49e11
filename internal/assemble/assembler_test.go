package assemble

import (
	"reflect"
	"testing"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/extract"
)

func ptr[T any](v T) *T { return &v }

func sampleFields() extract.Fields {
	return extract.Fields{
		OfferNumber:     ptr(int64(482)),
		CreatedAt:       ptr("19/09/2024"),
		Name:            ptr("Acme Media BV"),
		Street:          ptr("Kerkstraat 12"),
		Address:         ptr("1000 Brussel"),
		Place:           ptr("Brussel"),
		Postal:          ptr("1000"),
		VATNumber:       ptr("BE0123456789"),
		PriceWithoutVAT: ptr(100.0),
		TotalPrice:      ptr(121.0),
		VAT:             ptr(int64(21)),
		Services: []extract.LineItem{
			{ServiceID: 1, Service: "Digital Signage", Region: "Brussel", AssetType: "Scherm", AssetAmount: 2, AssetValue: 25, ProductPrice: 50},
			{ServiceID: 2, Service: "Radio Spot", Region: "Vlaanderen", AssetType: "Audio", AssetAmount: 1, AssetValue: 50, ProductPrice: 50},
		},
	}
}

func TestAssemblePropagatesQuoteID(t *testing.T) {
	lookup := LookupFunc(func(id int64) (string, bool) {
		if id == 482 {
			return "Autumn Push", true
		}
		return "", false
	})
	b := New(lookup, nil).Assemble(sampleFields())

	if b.Campaigns.ID == nil || *b.Campaigns.ID != 482 {
		t.Fatalf("Campaigns.id = %v, want 482", b.Campaigns.ID)
	}
	if *b.Campaigns.Price != 100 || *b.Campaigns.PriceTotal != 121 || *b.Campaigns.VAT != 21 {
		t.Errorf("Campaigns prices = %v/%v/%v", *b.Campaigns.Price, *b.Campaigns.PriceTotal, *b.Campaigns.VAT)
	}
	if b.Campaigns.CampName == nil || *b.Campaigns.CampName != "Autumn Push" {
		t.Errorf("Campaigns.campname = %v, want Autumn Push", b.Campaigns.CampName)
	}
	if *b.Logs.Campaign != 482 || *b.Logs.ID != 482 {
		t.Errorf("Logs ids = %v/%v, want 482", *b.Logs.ID, *b.Logs.Campaign)
	}
	if b.Logs.Note != constants.ImportLogNote {
		t.Errorf("Logs.note = %q", b.Logs.Note)
	}
	if *b.Contacts.ClientID != *b.Clients.ID {
		t.Errorf("Contacts.client_id = %d, Clients.id = %d", *b.Contacts.ClientID, *b.Clients.ID)
	}
	if b.Clients.Number != constants.NotApplicable {
		t.Errorf("Clients.number = %q, want %q", b.Clients.Number, constants.NotApplicable)
	}

	if len(b.Products) != 2 {
		t.Fatalf("Products = %d, want 2", len(b.Products))
	}
	for i, p := range b.Products {
		if p.ServiceID != i+1 {
			t.Errorf("Products[%d].service_id = %d, want %d", i, p.ServiceID, i+1)
		}
		if p.CampaignID == nil || *p.CampaignID != 482 {
			t.Errorf("Products[%d].campaign_id = %v, want 482", i, p.CampaignID)
		}
		if want := int64(482000 + i + 1); p.ProductID == nil || *p.ProductID != want {
			t.Errorf("Products[%d].product_id = %v, want %d", i, p.ProductID, want)
		}
		if p.Campaign == nil || *p.Campaign != "Autumn Push" {
			t.Errorf("Products[%d].campaign = %v", i, p.Campaign)
		}
		if p.Discount {
			t.Errorf("Products[%d].discount = true", i)
		}
		if !reflect.DeepEqual(p.Start, []string{"19/09/2024"}) || !reflect.DeepEqual(p.End, []string{"19/10/2024"}) {
			t.Errorf("Products[%d] run = %v..%v", i, p.Start, p.End)
		}
	}
}

func TestAssembleDoesNotMutateInput(t *testing.T) {
	in := sampleFields()
	before := sampleFields()

	b := New(nil, nil).Assemble(in)
	*b.Campaigns.ID = 1
	*b.Clients.Name = "changed"
	b.Products[0].Service = "changed"

	if !reflect.DeepEqual(in, before) {
		t.Fatalf("input mutated: %+v", in)
	}
}

func TestAssembleWithoutLookupMatch(t *testing.T) {
	b := New(nil, nil).Assemble(sampleFields())
	if b.Campaigns.CampName != nil {
		t.Errorf("campname = %q, want absent", *b.Campaigns.CampName)
	}
	for i, p := range b.Products {
		if p.Campaign != nil {
			t.Errorf("Products[%d].campaign = %q, want absent", i, *p.Campaign)
		}
	}
}

func TestAssembleMissingQuoteID(t *testing.T) {
	f := sampleFields()
	f.OfferNumber = nil
	calls := 0
	lookup := LookupFunc(func(int64) (string, bool) { calls++; return "x", true })

	b := New(lookup, nil).Assemble(f)
	if calls != 0 {
		t.Errorf("lookup called %d times without a quote id", calls)
	}
	if b.Campaigns.ID != nil || b.Clients.ID != nil || b.Logs.Campaign != nil {
		t.Errorf("ids should be absent: %+v", b)
	}
	for i, p := range b.Products {
		if p.ProductID != nil || p.CampaignID != nil {
			t.Errorf("Products[%d] ids should be absent", i)
		}
	}
}

func TestAssembleProductIDOutOfRange(t *testing.T) {
	f := sampleFields()
	f.OfferNumber = ptr(int64(9223372036854775))
	f.Services = []extract.LineItem{{ServiceID: 1}, {ServiceID: 900}}

	b := New(nil, nil).Assemble(f)
	if b.Products[0].ProductID == nil || *b.Products[0].ProductID != 9223372036854775001 {
		t.Fatalf("Products[0].ProductID = %v", b.Products[0].ProductID)
	}
	if b.Products[1].ProductID != nil {
		t.Fatalf("Products[1].ProductID = %d, want absent on overflow", *b.Products[1].ProductID)
	}
}

func TestProductID(t *testing.T) {
	cases := []struct {
		quote   int64
		service int
		want    int64
		ok      bool
	}{
		{482, 1, 482001, true},
		{482, 999, 482999, true},
		{482, 1000, 0, false},
		{482, 0, 0, false},
		{-1, 1, 0, false},
		{9223372036854775, 807, 9223372036854775807, true},
		{9223372036854775, 808, 0, false},
		{9223372036854776, 1, 0, false},
	}
	for _, tc := range cases {
		got, ok := productID(tc.quote, tc.service)
		if ok != tc.ok || got != tc.want {
			t.Errorf("productID(%d, %d) = %d, %v, want %d, %v", tc.quote, tc.service, got, ok, tc.want, tc.ok)
		}
	}
}

func TestAssembleUnparseableDateLeavesRunEmpty(t *testing.T) {
	f := sampleFields()
	f.CreatedAt = ptr("31/02/2024")
	b := New(nil, nil).Assemble(f)
	if len(b.Products[0].Start) != 0 || len(b.Products[0].End) != 0 {
		t.Fatalf("run = %v..%v, want empty", b.Products[0].Start, b.Products[0].End)
	}
	if b.Products[0].Start == nil {
		t.Fatalf("Start should be an empty list, not nil")
	}
}

func TestBundleUnitShape(t *testing.T) {
	u, err := New(nil, nil).Assemble(sampleFields()).Unit()
	if err != nil {
		t.Fatalf("Unit() error = %v", err)
	}
	if len(u.Logs) != 1 || len(u.Products) != 2 {
		t.Fatalf("Unit() logs=%d products=%d", len(u.Logs), len(u.Products))
	}
	if u.Clients["number"] != constants.NotApplicable {
		t.Errorf("Clients.number = %v", u.Clients["number"])
	}
	if _, ok := u.Campaigns["campname"]; !ok {
		t.Errorf("campname key missing from loose record")
	}
}
