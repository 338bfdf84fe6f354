package feed

const (
	FieldID           = "id"
	FieldAvailability = "availability"
	FieldCondition    = "condition"
	FieldDescription  = "description"
	FieldImageLink    = "image_link"
	FieldLink         = "link"
	FieldMPN          = "mpn"
	FieldGTIN         = "gtin"
	FieldPrice        = "price"
	FieldTitle        = "title"
	FieldBrand        = "brand"
)

// Columns is the fixed column order of the tabular export.
var Columns = []string{
	FieldID,
	FieldTitle,
	FieldDescription,
	FieldAvailability,
	FieldCondition,
	FieldPrice,
	FieldLink,
	FieldImageLink,
	FieldBrand,
	FieldGTIN,
	FieldMPN,
}
