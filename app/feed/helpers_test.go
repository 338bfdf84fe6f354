package feed

import (
	"fmt"

	"github.com/lysyi3m/shop-feed/app/catalog"
)

func eligibleProduct(id int64) catalog.Product {
	return catalog.Product{
		ID:          id,
		Title:       fmt.Sprintf("Product %d", id),
		BodyHTML:    "<p>Soft cotton</p>",
		ProductType: "Shirts",
		Handle:      fmt.Sprintf("product-%d", id),
		Images: []catalog.Image{
			{Src: fmt.Sprintf("https://cdn.shopify.com/s/files/1/products/p%d.jpg?v=100", id)},
			{Src: "https://cdn.shopify.com/s/files/1/products/ignored.jpg"},
		},
		Variants: []catalog.Variant{
			{Title: "Default", SKU: fmt.Sprintf("SKU-%d", id), Barcode: fmt.Sprintf("0000%d", id), Price: "19.99", InventoryQuantity: 3},
		},
	}
}
