package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Field names of the extractor output, as exposed by Fields.Map.
const (
	FieldOfferNumber     = "offertenummer"
	FieldCreatedAt       = "created_at"
	FieldName            = "name"
	FieldStreet          = "street"
	FieldAddress         = "address"
	FieldPlace           = "place"
	FieldPostal          = "postal"
	FieldVATNumber       = "vatnr"
	FieldPriceWithoutVAT = "price_without_vat"
	FieldTotalPrice      = "total_price"
	FieldVAT             = "vat"
	FieldServices        = "services"
)

// Fields is the flat extraction result. A nil pointer means the cue was not
// found in the text.
type Fields struct {
	OfferNumber     *int64
	CreatedAt       *string // dd/mm/yyyy as printed
	Name            *string
	Street          *string
	Address         *string
	Place           *string
	Postal          *string
	VATNumber       *string
	PriceWithoutVAT *float64
	TotalPrice      *float64
	VAT             *int64
	Services        []LineItem
}

// Map returns every recognized field name with its value or nil.
func (f Fields) Map() map[string]any {
	return map[string]any{
		FieldOfferNumber:     orNil(f.OfferNumber),
		FieldCreatedAt:       orNil(f.CreatedAt),
		FieldName:            orNil(f.Name),
		FieldStreet:          orNil(f.Street),
		FieldAddress:         orNil(f.Address),
		FieldPlace:           orNil(f.Place),
		FieldPostal:          orNil(f.Postal),
		FieldVATNumber:       orNil(f.VATNumber),
		FieldPriceWithoutVAT: orNil(f.PriceWithoutVAT),
		FieldTotalPrice:      orNil(f.TotalPrice),
		FieldVAT:             orNil(f.VAT),
		FieldServices:        f.Services,
	}
}

func orNil[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

var (
	reOfferNumber     = regexp.MustCompile(`Offertenummer:\s*(\d+)`)
	reCreatedAt       = regexp.MustCompile(`Gemaakt op:\s+(\d{2}/\d{2}/\d{4})`)
	reCompanyName     = regexp.MustCompile(`Naam bedrijf\s+(.+)`)
	reAddressBlock    = regexp.MustCompile(`(?m)^[ \t]*((\d{4})(?:[ \t]+(\S.*?))?)[ \t]*\n[ \t]*(.+)`)
	reVATNumber       = regexp.MustCompile(`BTW\s+(\w+)`)
	rePriceWithoutVAT = regexp.MustCompile(`Totaal zonder BTW:\s*€\s*([\d.,]+)`)
	reTotalPrice      = regexp.MustCompile(`Eindtotaal:\s*€\s*([\d.,]+)`)
	reVATRate         = regexp.MustCompile(`BTW\s*\((\d+)%\)`)
)

// RuleExtractor pulls the quote header fields and line items out of document
// text with fixed label and position cues.
type RuleExtractor struct {
	items *LineItemParser
}

func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{items: NewLineItemParser()}
}

// ExtractFields runs every field rule independently over text.
//
// The address cue is a line starting with a standalone 4-digit code followed by
// another line. Address is the whole code line, Postal the code, Place the text
// after the code and Street the line after it. When nothing follows the code
// the place is ambiguous and Place falls back to the code, so Place and Postal
// coincide.
func (e *RuleExtractor) ExtractFields(text string) Fields {
	f := Fields{
		OfferNumber:     matchInt(reOfferNumber, text),
		CreatedAt:       matchString(reCreatedAt, text, 1),
		Name:            matchString(reCompanyName, text, 1),
		Address:         matchString(reAddressBlock, text, 1),
		Postal:          matchString(reAddressBlock, text, 2),
		Street:          matchString(reAddressBlock, text, 4),
		Place:           firstOf(matchString(reAddressBlock, text, 3), matchString(reAddressBlock, text, 2)),
		VATNumber:       matchString(reVATNumber, text, 1),
		PriceWithoutVAT: matchAmount(rePriceWithoutVAT, text),
		TotalPrice:      matchAmount(reTotalPrice, text),
		VAT:             matchInt(reVATRate, text),
		Services:        e.items.Parse(text),
	}
	return f
}

func firstOf(vals ...*string) *string {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func matchString(re *regexp.Regexp, text string, group int) *string {
	m := re.FindStringSubmatch(text)
	if m == nil || group >= len(m) {
		return nil
	}
	s := strings.TrimSpace(m[group])
	if s == "" {
		return nil
	}
	return &s
}

func matchInt(re *regexp.Regexp, text string) *int64 {
	s := matchString(re, text, 1)
	if s == nil {
		return nil
	}
	n, err := strconv.ParseInt(*s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func matchAmount(re *regexp.Regexp, text string) *float64 {
	s := matchString(re, text, 1)
	if s == nil {
		return nil
	}
	f, ok := ParseLocaleAmount(*s)
	if !ok {
		return nil
	}
	return &f
}
