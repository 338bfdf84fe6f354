package feed

import (
	"testing"

	"github.com/lysyi3m/shop-feed/app/catalog"
)

func TestMapper_MapsAllFields(t *testing.T) {
	mapper := NewMapper("demostore", "USD", false)
	product := eligibleProduct(42)

	record := mapper.Map(product, "https://res.cloudinary.com/demo/image/upload/p42jpg100")

	expected := Record{
		FieldID:           "42",
		FieldAvailability: "in stock",
		FieldCondition:    "new",
		FieldDescription:  "<p>Soft cotton</p>",
		FieldImageLink:    "https://res.cloudinary.com/demo/image/upload/p42jpg100",
		FieldLink:         "https://demostore.myshopify.com/products/product-42",
		FieldMPN:          "SKU-42",
		FieldGTIN:         "000042",
		FieldPrice:        "19.99 USD",
		FieldTitle:        "Product 42",
		FieldBrand:        "Shirts",
	}

	if len(record) != len(expected) {
		t.Errorf("Expected %d fields, got %d: %v", len(expected), len(record), record)
	}
	for field, value := range expected {
		if record[field] != value {
			t.Errorf("Field %s: expected '%s', got '%s'", field, value, record[field])
		}
	}
}

func TestMapper_DomainForms(t *testing.T) {
	product := eligibleProduct(1)

	for _, domain := range []string{"demostore", "demostore.myshopify.com", "https://demostore.myshopify.com"} {
		record := NewMapper(domain, "USD", false).Map(product, "")
		if record[FieldLink] != "https://demostore.myshopify.com/products/product-1" {
			t.Errorf("Domain %q: unexpected link '%s'", domain, record[FieldLink])
		}
	}
}

func TestMapper_DropsEmptyFields(t *testing.T) {
	product := eligibleProduct(1)
	product.Variants[0].Barcode = ""
	product.ProductType = ""

	record := NewMapper("demostore", "USD", false).Map(product, "https://img")

	if _, ok := record[FieldGTIN]; ok {
		t.Error("Empty gtin should be absent")
	}
	if _, ok := record[FieldBrand]; ok {
		t.Error("Empty brand should be absent")
	}
	for field, value := range record {
		if value == "" {
			t.Errorf("Field %s is present with an empty value", field)
		}
	}
}

func TestMapper_BrandFallsBackToTitle(t *testing.T) {
	product := eligibleProduct(1)
	product.ProductType = ""

	record := NewMapper("demostore", "USD", true).Map(product, "https://img")
	if record[FieldBrand] != "Product 1" {
		t.Errorf("Expected brand to fall back to title, got '%s'", record[FieldBrand])
	}

	product.ProductType = "Hats"
	record = NewMapper("demostore", "USD", true).Map(product, "https://img")
	if record[FieldBrand] != "Hats" {
		t.Errorf("Expected product type as brand, got '%s'", record[FieldBrand])
	}
}

func TestMapper_SparseForArbitraryProducts(t *testing.T) {
	mapper := NewMapper("demostore", "EUR", true)
	products := []catalog.Product{
		{},
		{ID: 7},
		{ID: 8, Variants: []catalog.Variant{{}}},
		{Title: "Only title", Handle: "only"},
	}

	for _, product := range products {
		record := mapper.Map(product, "")
		for field, value := range record {
			if value == "" {
				t.Errorf("Product %+v: field %s present with empty value", product, field)
			}
		}
	}
}

func TestRecordCompact(t *testing.T) {
	record := Record{"a": "1", "b": "", "c": "3"}
	compacted := record.Compact()

	if len(compacted) != 2 {
		t.Errorf("Expected 2 fields, got %d", len(compacted))
	}
	if _, ok := compacted["b"]; ok {
		t.Error("Empty field should be dropped")
	}
	if len(record) != 3 {
		t.Error("Compact must not modify the receiver")
	}
}
