package assets

import "strings"

var publicIDStripper = strings.NewReplacer(".", "", "?", "", "=", "", "v", "")

// PublicID derives the asset identifier for a source image URL: the final
// path segment with dots, query delimiters and every "v" removed, so that
// "shirt.jpg?v=1489" becomes "shirtjpg1489". The same URL always yields the
// same identifier.
func PublicID(imageURL string) string {
	name := imageURL[strings.LastIndex(imageURL, "/")+1:]
	return publicIDStripper.Replace(name)
}
