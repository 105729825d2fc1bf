package service

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
)

// MaxAssetSize caps a single upload at 20MB
const MaxAssetSize = 20 << 20

var folderRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// allowedImageExts maps accepted extensions to whether their dimensions can be decoded
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".heic": false,
	".heif": false,
}

// UploadRequest is one image upload
type UploadRequest struct {
	Folder   string
	FileName string
	Content  []byte
}

// AssetService stores uploaded images under folders
type AssetService interface {
	Upload(ctx context.Context, req UploadRequest) (*entity.Asset, error)
	Get(ctx context.Context, id string) (*entity.Asset, error)
	// Open returns the asset metadata together with its content
	Open(ctx context.Context, id string) (*entity.Asset, []byte, error)
	List(ctx context.Context, folder string) ([]*entity.Asset, error)
	Delete(ctx context.Context, id string) error
}

type assetServiceImpl struct {
	assetRepo port.AssetRepository
	storage   port.FileStorage
	inspector port.ImageInspector
	logger    Logger
	now       func() time.Time
}

// NewAssetService creates a new AssetService
func NewAssetService(
	assetRepo port.AssetRepository,
	storage port.FileStorage,
	inspector port.ImageInspector,
	logger Logger,
) AssetService {
	return &assetServiceImpl{
		assetRepo: assetRepo,
		storage:   storage,
		inspector: inspector,
		logger:    logger,
		now:       time.Now,
	}
}

// Upload validates, stores and records an image
func (s *assetServiceImpl) Upload(ctx context.Context, req UploadRequest) (*entity.Asset, error) {
	folder := strings.ToLower(strings.TrimSpace(req.Folder))
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(req.FileName), "\\", "/"))
	ext := strings.ToLower(path.Ext(name))

	v := NewValidationError()
	if !folderRegex.MatchString(folder) {
		v.Add("folder", "folder must be lowercase letters, digits, dashes or underscores")
	}
	decodable, allowed := allowedImageExts[ext]
	if !allowed {
		v.Add("file", "file type must be one of jpg, jpeg, png, gif, webp, heic, heif")
	}
	switch {
	case len(req.Content) == 0:
		v.Add("file", "file is empty")
	case len(req.Content) > MaxAssetSize:
		v.Add("file", "file exceeds the 20MB limit")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	asset := &entity.Asset{
		ID:           uuid.New().String(),
		Folder:       folder,
		OriginalName: name,
		ContentType:  contentTypeFor(ext, req.Content),
		SizeBytes:    int64(len(req.Content)),
		CreatedAt:    s.now().UTC(),
	}
	asset.StoredPath = path.Join(folder, asset.ID+ext)

	if decodable {
		info, err := s.inspector.Inspect(req.Content)
		if err != nil {
			return nil, fieldError("file", "file is not a readable image")
		}
		asset.Width = info.Width
		asset.Height = info.Height
	}

	if err := s.storage.Save(ctx, asset.StoredPath, req.Content); err != nil {
		return nil, fmt.Errorf("failed to store asset: %w", err)
	}

	if err := s.assetRepo.Create(ctx, asset); err != nil {
		if delErr := s.storage.Delete(ctx, asset.StoredPath); delErr != nil {
			s.logger.Error("Failed to remove orphaned asset file", "path", asset.StoredPath, "error", delErr)
		}
		return nil, err
	}

	s.logger.Info("Asset uploaded",
		"id", asset.ID,
		"folder", folder,
		"size", asset.SizeBytes,
		"content_type", asset.ContentType)
	return asset, nil
}

// Get returns asset metadata
func (s *assetServiceImpl) Get(ctx context.Context, id string) (*entity.Asset, error) {
	asset, err := s.assetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, fmt.Errorf("%w: asset %s", ErrNotFound, id)
	}
	return asset, nil
}

// Open returns an asset with its stored bytes
func (s *assetServiceImpl) Open(ctx context.Context, id string) (*entity.Asset, []byte, error) {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	content, err := s.storage.Read(ctx, asset.StoredPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read asset %s: %w", id, err)
	}
	return asset, content, nil
}

// List returns the assets of a folder, newest first
func (s *assetServiceImpl) List(ctx context.Context, folder string) ([]*entity.Asset, error) {
	folder = strings.ToLower(strings.TrimSpace(folder))
	if !folderRegex.MatchString(folder) {
		return nil, fieldError("folder", "invalid folder name")
	}
	assets, err := s.assetRepo.ListByFolder(ctx, folder)
	if err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []*entity.Asset{}
	}
	return assets, nil
}

// Delete removes the asset record and its file
func (s *assetServiceImpl) Delete(ctx context.Context, id string) error {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.assetRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, asset.StoredPath); err != nil {
		s.logger.Error("Failed to delete asset file", "id", id, "path", asset.StoredPath, "error", err)
	}
	s.logger.Info("Asset deleted", "id", id)
	return nil
}

// contentTypeFor sniffs the content and falls back to the extension for
// formats the sniffer does not know.
func contentTypeFor(ext string, content []byte) string {
	if ct := http.DetectContentType(content); strings.HasPrefix(ct, "image/") {
		return ct
	}
	switch ext {
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "image/" + strings.TrimPrefix(ext, ".")
	}
}
