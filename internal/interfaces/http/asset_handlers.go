package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/backoffice-console/internal/application/service"
)

// maxUploadBody leaves room for the multipart envelope around a full-size file
const maxUploadBody = service.MaxAssetSize + 1<<20

// UploadAsset handles POST /api/assets (multipart: folder, file)
func (h *Handlers) UploadAsset(c *gin.Context) {
	if c.Request.ContentLength > maxUploadBody {
		uploadTooLarge(c)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			uploadTooLarge(c)
			return
		}
		badRequest(c, "file", "file is required")
		return
	}
	if header.Size > service.MaxAssetSize {
		badRequest(c, "file", "file exceeds the 20MB limit")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.respondError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, service.MaxAssetSize+1))
	if err != nil {
		h.respondError(c, fmt.Errorf("read upload: %w", err))
		return
	}

	asset, err := h.services.Assets.Upload(c.Request.Context(), service.UploadRequest{
		Folder:   c.PostForm("folder"),
		FileName: header.Filename,
		Content:  content,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, asset)
}

// ListAssets handles GET /api/assets?folder=
func (h *Handlers) ListAssets(c *gin.Context) {
	assets, err := h.services.Assets.List(c.Request.Context(), c.Query("folder"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, assets)
}

// GetAsset handles GET /api/assets/:id
func (h *Handlers) GetAsset(c *gin.Context) {
	asset, err := h.services.Assets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, asset)
}

// AssetContent handles GET /api/assets/:id/content
func (h *Handlers) AssetContent(c *gin.Context) {
	asset, content, err := h.services.Assets.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", asset.OriginalName))
	c.Data(http.StatusOK, asset.ContentType, content)
}

// DeleteAsset handles DELETE /api/assets/:id
func (h *Handlers) DeleteAsset(c *gin.Context) {
	if err := h.services.Assets.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	respondMessage(c, "asset deleted")
}

func uploadTooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, Response{
		Success: false,
		Message: "validation failed",
		Errors:  map[string]string{"file": "file exceeds the 20MB limit"},
	})
}
