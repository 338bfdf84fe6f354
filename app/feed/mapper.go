package feed

import (
	"fmt"
	"strconv"

	"github.com/lysyi3m/shop-feed/app/catalog"
	"github.com/lysyi3m/shop-feed/app/shop"
)

type Mapper struct {
	domain              string
	currency            string
	productTypeFallback bool
}

// NewMapper builds a mapper for one shop. With productTypeFallback set, the
// brand falls back to the product title when the product has no type.
func NewMapper(shopDomain, currency string, productTypeFallback bool) *Mapper {
	return &Mapper{
		domain:              shop.NameToDomain(shop.DomainToName(shopDomain)),
		currency:            currency,
		productTypeFallback: productTypeFallback,
	}
}

func (m *Mapper) Map(product catalog.Product, imageURL string) Record {
	var variant catalog.Variant
	if len(product.Variants) > 0 {
		variant = product.Variants[0]
	}

	brand := product.ProductType
	if brand == "" && m.productTypeFallback {
		brand = product.Title
	}

	var id string
	if product.ID != 0 {
		id = strconv.FormatInt(product.ID, 10)
	}

	var link string
	if product.Handle != "" {
		link = fmt.Sprintf("https://%s/products/%s", m.domain, product.Handle)
	}

	var price string
	if variant.Price != "" {
		price = fmt.Sprintf("%s %s", variant.Price, m.currency)
	}

	record := Record{
		FieldID:           id,
		FieldAvailability: "in stock",
		FieldCondition:    "new",
		FieldDescription:  product.BodyHTML,
		FieldImageLink:    imageURL,
		FieldLink:         link,
		FieldMPN:          variant.SKU,
		FieldGTIN:         variant.Barcode,
		FieldPrice:        price,
		FieldTitle:        product.Title,
		FieldBrand:        brand,
	}

	return record.Compact()
}
