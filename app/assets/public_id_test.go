package assets

import "testing"

func TestPublicID(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"https://cdn.shopify.com/s/files/1/0001/products/shirt.jpg?v=1489", "shirtjpg1489"},
		{"https://cdn.shopify.com/s/files/1/0001/products/hat.png", "hatpng"},
		{"https://cdn.shopify.com/s/files/1/0001/products/velvet.jpg?v=12", "eletjpg12"},
		{"no-slashes.gif", "no-slashesgif"},
	}

	for _, tc := range cases {
		if got := PublicID(tc.input); got != tc.expected {
			t.Errorf("PublicID(%q): expected '%s', got '%s'", tc.input, tc.expected, got)
		}
	}
}

func TestPublicIDIsDeterministic(t *testing.T) {
	url := "https://cdn.shopify.com/s/files/1/0001/products/shirt.jpg?v=1489"

	first := PublicID(url)
	for i := 0; i < 10; i++ {
		if got := PublicID(url); got != first {
			t.Fatalf("PublicID changed between calls: '%s' != '%s'", got, first)
		}
	}

	if PublicID(url) == PublicID("https://cdn.shopify.com/s/files/1/0001/products/shirt.jpg?v=1490") {
		t.Error("Different image versions should yield different identifiers")
	}
}
