package extract

import (
	"regexp"
	"strconv"
)

// LineItem is one priced service row found in the document text.
type LineItem struct {
	ServiceID    int     `json:"service_id"`
	Service      string  `json:"service"`
	Region       string  `json:"region"`
	AssetType    string  `json:"asset_type"`
	AssetAmount  int64   `json:"asset_amount"`
	AssetValue   float64 `json:"asset_value"`
	ProductPrice float64 `json:"product_price"`
}

// Named captures of a line-item row. A row is one line of layout-preserved
// text whose columns are separated by a tab or at least two spaces:
//
//	service  region  asset_type  asset_amount  asset_value  € product_price
//
// Text columns are words joined by single spaces; asset_amount is an integer;
// asset_value and product_price are locale amounts with two decimals.
const (
	CaptureService      = "service"
	CaptureRegion       = "region"
	CaptureAssetType    = "asset_type"
	CaptureAssetAmount  = "asset_amount"
	CaptureAssetValue   = "asset_value"
	CaptureProductPrice = "product_price"
)

const (
	colSep     = `(?:[ ]{2,}|\t)[ \t]*`
	textCol    = `\S+(?: \S+)*`
	amountCol  = `(?:\d{1,3}(?:\.\d{3})+|\d+),\d{2}`
	lineItemRe = `(?m)^[ \t]*` +
		`(?P<service>` + textCol + `)` + colSep +
		`(?P<region>` + textCol + `)` + colSep +
		`(?P<asset_type>` + textCol + `)` + colSep +
		`(?P<asset_amount>\d+)` + colSep +
		`(?P<asset_value>` + amountCol + `)` + colSep +
		`€[ ]?(?P<product_price>` + amountCol + `)` +
		`[ \t]*$`
)

// LineItemParser matches line-item rows and numbers them in document order.
type LineItemParser struct {
	re  *regexp.Regexp
	idx map[string]int
}

func NewLineItemParser() *LineItemParser {
	re := regexp.MustCompile(lineItemRe)
	idx := make(map[string]int, len(re.SubexpNames()))
	for i, name := range re.SubexpNames() {
		if name != "" {
			idx[name] = i
		}
	}
	return &LineItemParser{re: re, idx: idx}
}

// Parse returns every row in top-to-bottom order with ServiceID 1..N. Rows whose
// numbers do not convert are skipped without consuming an id.
func (p *LineItemParser) Parse(text string) []LineItem {
	matches := p.re.FindAllStringSubmatch(text, -1)
	items := make([]LineItem, 0, len(matches))
	for _, m := range matches {
		item, ok := p.fromMatch(m)
		if !ok {
			continue
		}
		item.ServiceID = len(items) + 1
		items = append(items, item)
	}
	return items
}

// ParseLine matches a single row. The returned item has no ServiceID.
func (p *LineItemParser) ParseLine(line string) (LineItem, bool) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return LineItem{}, false
	}
	return p.fromMatch(m)
}

func (p *LineItemParser) fromMatch(m []string) (LineItem, bool) {
	amount, err := strconv.ParseInt(m[p.idx[CaptureAssetAmount]], 10, 64)
	if err != nil {
		return LineItem{}, false
	}
	value, ok := ParseLocaleAmount(m[p.idx[CaptureAssetValue]])
	if !ok {
		return LineItem{}, false
	}
	price, ok := ParseLocaleAmount(m[p.idx[CaptureProductPrice]])
	if !ok {
		return LineItem{}, false
	}
	return LineItem{
		Service:      m[p.idx[CaptureService]],
		Region:       m[p.idx[CaptureRegion]],
		AssetType:    m[p.idx[CaptureAssetType]],
		AssetAmount:  amount,
		AssetValue:   value,
		ProductPrice: price,
	}, true
}
