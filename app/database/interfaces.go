package database

// AssetRepository records which images have already been uploaded to a
// shop's image host.
type AssetRepository interface {
	GetKnownAssets(shopName string) ([]string, error)
	GetAssetCount(shopName string) (int, error)

	SaveAssets(shopName string, publicIDs []string) error
}
