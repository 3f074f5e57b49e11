package assemble

import (
	"log/slog"
	"math"
	"time"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/entity"
	"github.com/joseph-ayodele/quotes-importer/internal/extract"
)

// DateLayout is how quote dates are printed on the source documents.
const DateLayout = "02/01/2006"

// productIDStride separates the product ids of consecutive quotes.
const productIDStride = 1000

// Lookup resolves a campaign id to its display name.
type Lookup interface {
	CampaignName(id int64) (string, bool)
}

// LookupFunc adapts a plain function to Lookup.
type LookupFunc func(id int64) (string, bool)

func (f LookupFunc) CampaignName(id int64) (string, bool) { return f(id) }

// noLookup never resolves anything.
type noLookup struct{}

func (noLookup) CampaignName(int64) (string, bool) { return "", false }

// Assembler maps extracted fields onto the destination record shapes.
type Assembler struct {
	lookup Lookup
	logger *slog.Logger
}

// New returns an Assembler. A nil lookup resolves every campaign to absent.
func New(lookup Lookup, logger *slog.Logger) *Assembler {
	if lookup == nil {
		lookup = noLookup{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{lookup: lookup, logger: logger}
}

// Assemble builds one Bundle from f. It does not modify f.
//
// The quote id is the only identity the document carries, so the other ids
// are derived from it: client, contact and log share the quote id and each
// product gets quote id * 1000 + service id. Without a quote id all of them
// stay absent and the normalizer rejects the unit. A product whose id cannot be
// derived without overflow or collision keeps ProductID absent, which also
// rejects the unit.
func (a *Assembler) Assemble(f extract.Fields) entity.Bundle {
	quoteID := copyPtr(f.OfferNumber)

	var campName *string
	if quoteID != nil {
		if name, ok := a.lookup.CampaignName(*quoteID); ok {
			campName = &name
		} else {
			a.logger.Debug("campaign not in lookup", "campaign_id", *quoteID)
		}
	}

	b := entity.Bundle{
		Campaigns: entity.Campaign{
			ID:         quoteID,
			CreatedAt:  copyPtr(f.CreatedAt),
			Price:      copyPtr(f.PriceWithoutVAT),
			PriceTotal: copyPtr(f.TotalPrice),
			VAT:        copyPtr(f.VAT),
			CampName:   campName,
		},
		Clients: entity.Client{
			ID:     copyPtr(quoteID),
			Name:   copyPtr(f.Name),
			Street: copyPtr(f.Street),
			Place:  copyPtr(f.Place),
			Number: constants.NotApplicable,
			Postal: copyPtr(f.Postal),
			VATNr:  copyPtr(f.VATNumber),
		},
		Contacts: entity.Contact{
			ID:       copyPtr(quoteID),
			ClientID: copyPtr(quoteID),
			Name:     copyPtr(f.Name),
		},
		Logs: entity.Log{
			ID:       copyPtr(quoteID),
			Campaign: copyPtr(quoteID),
			Note:     constants.ImportLogNote,
		},
		Products: make([]entity.Product, 0, len(f.Services)),
	}

	start, end := runDates(f.CreatedAt)
	for _, item := range f.Services {
		p := entity.Product{
			CampaignID:   copyPtr(quoteID),
			Campaign:     copyPtr(campName),
			CreatedAt:    copyPtr(f.CreatedAt),
			Start:        append([]string{}, start...),
			End:          append([]string{}, end...),
			ServiceID:    item.ServiceID,
			Service:      item.Service,
			Region:       item.Region,
			AssetType:    item.AssetType,
			AssetAmount:  item.AssetAmount,
			AssetValue:   item.AssetValue,
			ProductPrice: item.ProductPrice,
			Discount:     false,
		}
		if quoteID != nil {
			if id, ok := productID(*quoteID, item.ServiceID); ok {
				p.ProductID = &id
			} else {
				a.logger.Warn("product id out of range",
					"campaign_id", *quoteID,
					"service_id", item.ServiceID,
				)
			}
		}
		b.Products = append(b.Products, p)
	}
	return b
}

// productID derives a product id that is unique across quotes. Service ids
// must fall in [1, productIDStride) and the quote id must be non-negative and
// small enough for the product to fit in int64.
func productID(quoteID int64, serviceID int) (int64, bool) {
	if serviceID < 1 || serviceID >= productIDStride || quoteID < 0 {
		return 0, false
	}
	if quoteID > (math.MaxInt64-int64(serviceID))/productIDStride {
		return 0, false
	}
	return quoteID*productIDStride + int64(serviceID), true
}

// runDates returns the default one month run starting on the quote date.
func runDates(createdAt *string) (start, end []string) {
	if createdAt == nil {
		return []string{}, []string{}
	}
	t, err := time.Parse(DateLayout, *createdAt)
	if err != nil {
		return []string{}, []string{}
	}
	return []string{t.Format(DateLayout)}, []string{t.AddDate(0, 1, 0).Format(DateLayout)}
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
