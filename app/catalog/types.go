package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	BodyHTML    string    `json:"body_html"`
	ProductType string    `json:"product_type"`
	Handle      string    `json:"handle"`
	Images      []Image   `json:"images"`
	Variants    []Variant `json:"variants"`
}

type Image struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

type Variant struct {
	ID                int64    `json:"id"`
	Title             string   `json:"title"`
	SKU               string   `json:"sku"`
	Barcode           string   `json:"barcode"`
	Price             string   `json:"price"`
	InventoryQuantity Quantity `json:"inventory_quantity"`
}

// Quantity is an inventory count that tolerates the shapes the Admin API has
// returned over time: numbers, numeric strings, booleans and null. Strings
// follow JavaScript number coercion, so "0x10" is 16. Anything that does not
// parse, NaN included, counts as zero.
type Quantity float64

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*q = 0
		return nil
	case bytes.Equal(data, []byte("true")):
		*q = 1
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*q = 0
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	*q = Quantity(parseQuantity(raw))
	return nil
}

// IsZero reports whether the quantity counts as no stock. NaN does.
func (q Quantity) IsZero() bool {
	return q == 0 || math.IsNaN(float64(q))
}

func parseQuantity(raw string) float64 {
	if len(raw) > 2 && raw[0] == '0' {
		base := 0
		switch raw[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(raw[2:], base, 64)
			if err != nil {
				return 0
			}
			return float64(n)
		}
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) {
		return 0
	}
	return n
}

// Credentials identify a shop on the commerce platform.
type Credentials struct {
	Shop        string
	AccessToken string
}

// DefaultFields is the field selector used when listing products for a feed.
var DefaultFields = []string{"id", "title", "variants", "images", "options", "handle", "body_html", "product_type"}

type productsResponse struct {
	Products []Product `json:"products"`
}
