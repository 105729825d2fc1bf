package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"go.uber.org/zap"
)

// AssetRepository implements port.AssetRepository
type AssetRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *sql.DB, logger *zap.Logger) port.AssetRepository {
	return &AssetRepository{
		db:     db,
		logger: logger,
	}
}

const assetColumns = `id, folder, original_name, stored_path, content_type, size_bytes, width, height, created_at`

// Create records a stored asset
func (r *AssetRepository) Create(ctx context.Context, asset *entity.Asset) error {
	query := `
		INSERT INTO assets (
			id, folder, original_name, stored_path, content_type, size_bytes, width, height, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}

	_, err := executorFor(ctx, r.db).ExecContext(ctx, query,
		asset.ID,
		asset.Folder,
		asset.OriginalName,
		asset.StoredPath,
		asset.ContentType,
		asset.SizeBytes,
		nullInt64(int64(asset.Width)),
		nullInt64(int64(asset.Height)),
		asset.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create asset", zap.String("id", asset.ID), zap.Error(err))
		return wrapWriteErr("create asset", err)
	}

	return nil
}

// GetByID retrieves an asset by ID
func (r *AssetRepository) GetByID(ctx context.Context, id string) (*entity.Asset, error) {
	asset, err := scanAsset(executorFor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get asset", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return asset, nil
}

// ListByFolder retrieves a folder's assets, newest first
func (r *AssetRepository) ListByFolder(ctx context.Context, folder string) ([]*entity.Asset, error) {
	rows, err := executorFor(ctx, r.db).QueryContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE folder = ? ORDER BY created_at DESC, id ASC`, folder)
	if err != nil {
		r.logger.Error("Failed to list assets", zap.String("folder", folder), zap.Error(err))
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []*entity.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}

	return assets, rows.Err()
}

// Delete removes an asset record
func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	if _, err := executorFor(ctx, r.db).ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id); err != nil {
		r.logger.Error("Failed to delete asset", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}

func scanAsset(row rowScanner) (*entity.Asset, error) {
	var a entity.Asset
	var width, height sql.NullInt64

	err := row.Scan(
		&a.ID,
		&a.Folder,
		&a.OriginalName,
		&a.StoredPath,
		&a.ContentType,
		&a.SizeBytes,
		&width,
		&height,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Width = int(width.Int64)
	a.Height = int(height.Int64)
	return &a, nil
}
