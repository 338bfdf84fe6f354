package database

import (
	"fmt"
)

var _ AssetRepository = (*AssetRepo)(nil)

type AssetRepo struct {
	db *DB
}

func NewAssetRepository(db *DB) *AssetRepo {
	return &AssetRepo{db: db}
}

// GetKnownAssets returns every public ID uploaded for the shop.
func (r *AssetRepo) GetKnownAssets(shopName string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT public_id
		FROM uploaded_assets
		WHERE shop_name = ?
		ORDER BY public_id
	`, shopName)
	if err != nil {
		return nil, fmt.Errorf("failed to get known assets: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset rows: %w", err)
	}

	return ids, nil
}

func (r *AssetRepo) GetAssetCount(shopName string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM uploaded_assets WHERE shop_name = ?`, shopName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get asset count: %w", err)
	}
	return count, nil
}

// SaveAssets records the public IDs in one transaction. IDs already
// recorded for the shop are left untouched.
func (r *AssetRepo) SaveAssets(shopName string, publicIDs []string) error {
	if len(publicIDs) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO uploaded_assets (shop_name, public_id)
		VALUES (?, ?)
		ON CONFLICT (shop_name, public_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		if _, err := stmt.Exec(shopName, id); err != nil {
			return fmt.Errorf("failed to save asset %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assets: %w", err)
	}

	return nil
}
