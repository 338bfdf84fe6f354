package feed

import (
	"log/slog"

	"github.com/lysyi3m/shop-feed/app/catalog"
)

type Filterer struct {
	requireProductType bool
}

func NewFilterer(requireProductType bool) *Filterer {
	return &Filterer{requireProductType: requireProductType}
}

// Run keeps the eligible products, preserving their order.
func (f *Filterer) Run(products []catalog.Product) []catalog.Product {
	eligible := make([]catalog.Product, 0, len(products))
	for _, product := range products {
		if reason := f.Reason(product); reason != "" {
			slog.Debug("Product excluded from feed", "product_id", product.ID, "reason", reason)
			continue
		}
		eligible = append(eligible, product)
	}
	return eligible
}

func (f *Filterer) Eligible(product catalog.Product) bool {
	return f.Reason(product) == ""
}

// Reason names the first eligibility rule the product breaks, or returns ""
// when it qualifies for the feed.
func (f *Filterer) Reason(product catalog.Product) string {
	switch {
	case product.ID == 0:
		return "missing id"
	case product.BodyHTML == "":
		return "missing description"
	case f.requireProductType && product.ProductType == "":
		return "missing product type"
	case len(product.Images) == 0:
		return "no images"
	case len(product.Variants) == 0:
		return "no variants"
	}

	variant := product.Variants[0]
	switch {
	case variant.Barcode == "" && variant.SKU == "":
		return "missing barcode and sku"
	// availability is always written as "in stock"
	case variant.InventoryQuantity.IsZero():
		return "out of stock"
	case variant.Title == "":
		return "missing variant title"
	case variant.Price == "":
		return "missing price"
	}

	return ""
}
