package extract

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractFieldsSampleQuote(t *testing.T) {
	f := NewRuleExtractor().ExtractFields(sampleQuote)

	if f.OfferNumber == nil || *f.OfferNumber != 482 {
		t.Fatalf("OfferNumber = %v, want 482", f.OfferNumber)
	}
	assertString(t, "CreatedAt", f.CreatedAt, "19/09/2024")
	assertString(t, "Name", f.Name, "Acme Media BV")
	assertString(t, "Address", f.Address, "1000 Brussel")
	assertString(t, "Street", f.Street, "Kerkstraat 12")
	assertString(t, "Postal", f.Postal, "1000")
	assertString(t, "Place", f.Place, "Brussel")
	assertString(t, "VATNumber", f.VATNumber, "BE0123456789")

	if f.PriceWithoutVAT == nil || *f.PriceWithoutVAT != 100 {
		t.Errorf("PriceWithoutVAT = %v, want 100", f.PriceWithoutVAT)
	}
	if f.TotalPrice == nil || *f.TotalPrice != 121 {
		t.Errorf("TotalPrice = %v, want 121", f.TotalPrice)
	}
	if f.VAT == nil || *f.VAT != 21 {
		t.Errorf("VAT = %v, want 21", f.VAT)
	}
	if len(f.Services) != 2 {
		t.Fatalf("Services = %d, want 2", len(f.Services))
	}
}

func TestExtractFieldsAddressBlock(t *testing.T) {
	cases := []struct {
		name                           string
		text                           string
		address, postal, place, street string
	}{
		{"code and place", "Naam bedrijf X\n  1000 Brussel\n  Kerkstraat 12\n", "1000 Brussel", "1000", "Brussel", "Kerkstraat 12"},
		{"multi word place", "9000   Sint-Martens Latem  \nDorpstraat 1\n", "9000   Sint-Martens Latem", "9000", "Sint-Martens Latem", "Dorpstraat 1"},
		{"code only falls back", "2000\nMeir 5\n", "2000", "2000", "2000", "Meir 5"},
	}
	e := NewRuleExtractor()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := e.ExtractFields(tc.text)
			assertString(t, "Address", f.Address, tc.address)
			assertString(t, "Postal", f.Postal, tc.postal)
			assertString(t, "Place", f.Place, tc.place)
			assertString(t, "Street", f.Street, tc.street)
		})
	}
}

func TestExtractFieldsAddressNeedsStandaloneCode(t *testing.T) {
	f := NewRuleExtractor().ExtractFields("Gemaakt op: 19/09/2024\n10000 Brussel\nKerkstraat 12\n")
	if f.Postal != nil || f.Place != nil || f.Address != nil || f.Street != nil {
		t.Fatalf("address fields = %v %v %v %v, want absent", f.Address, f.Postal, f.Place, f.Street)
	}
}

func TestExtractFieldsMissingMarkerLeavesOthersIntact(t *testing.T) {
	e := NewRuleExtractor()
	full := e.ExtractFields(sampleQuote)

	cases := []struct {
		name   string
		marker string
		absent func(Fields) bool
		strip  func(Fields) Fields
	}{
		{
			name:   "offer number",
			marker: "Offertenummer: 482\n",
			absent: func(f Fields) bool { return f.OfferNumber == nil },
			strip:  func(f Fields) Fields { f.OfferNumber = nil; return f },
		},
		{
			name:   "created at",
			marker: "Gemaakt op: 19/09/2024\n",
			absent: func(f Fields) bool { return f.CreatedAt == nil },
			strip:  func(f Fields) Fields { f.CreatedAt = nil; return f },
		},
		{
			name:   "company name",
			marker: "Naam bedrijf  Acme Media BV\n",
			absent: func(f Fields) bool { return f.Name == nil },
			strip:  func(f Fields) Fields { f.Name = nil; return f },
		},
		{
			name:   "total",
			marker: "Eindtotaal: € 121,00\n",
			absent: func(f Fields) bool { return f.TotalPrice == nil },
			strip:  func(f Fields) Fields { f.TotalPrice = nil; return f },
		},
		{
			name:   "net price",
			marker: "Totaal zonder BTW: € 100,00\n",
			absent: func(f Fields) bool { return f.PriceWithoutVAT == nil },
			strip:  func(f Fields) Fields { f.PriceWithoutVAT = nil; return f },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text := strings.Replace(sampleQuote, tc.marker, "", 1)
			if text == sampleQuote {
				t.Fatalf("marker %q not found in sample", tc.marker)
			}
			got := e.ExtractFields(text)
			if !tc.absent(got) {
				t.Fatalf("field still present after removing %q", tc.marker)
			}
			if want := tc.strip(full); !reflect.DeepEqual(got, want) {
				t.Fatalf("other fields changed:\n got  %+v\n want %+v", got, want)
			}
		})
	}
}

func TestExtractFieldsMalformedPriceIsAbsentNotZero(t *testing.T) {
	text := strings.Replace(sampleQuote, "Eindtotaal: € 121,00", "Eindtotaal: € 1,2,1", 1)
	f := NewRuleExtractor().ExtractFields(text)
	if f.TotalPrice != nil {
		t.Fatalf("TotalPrice = %v, want absent", *f.TotalPrice)
	}
	if f.PriceWithoutVAT == nil {
		t.Fatalf("PriceWithoutVAT should be unaffected")
	}
}

func TestExtractFieldsEmptyText(t *testing.T) {
	f := NewRuleExtractor().ExtractFields("")
	m := f.Map()
	for _, key := range []string{
		FieldOfferNumber, FieldCreatedAt, FieldName, FieldStreet, FieldAddress,
		FieldPlace, FieldPostal, FieldVATNumber, FieldPriceWithoutVAT, FieldTotalPrice, FieldVAT,
	} {
		v, ok := m[key]
		if !ok {
			t.Errorf("Map() missing key %q", key)
			continue
		}
		if v != nil {
			t.Errorf("Map()[%q] = %v, want nil", key, v)
		}
	}
	if len(f.Services) != 0 {
		t.Errorf("Services = %v, want none", f.Services)
	}
}

func TestExtractFieldsDeterministic(t *testing.T) {
	e := NewRuleExtractor()
	first := e.ExtractFields(sampleQuote)
	for i := 0; i < 5; i++ {
		if got := e.ExtractFields(sampleQuote); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func assertString(t *testing.T, name string, got *string, want string) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = <nil>, want %q", name, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %q, want %q", name, *got, want)
	}
}
