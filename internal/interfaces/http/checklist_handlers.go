package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/backoffice-console/internal/application/service"
	"github.com/garyjia/backoffice-console/internal/domain/checklist"
)

// ToggleRequest is the body of POST .../:employeeID/toggle
type ToggleRequest struct {
	Task string `json:"task" binding:"required"`
}

// SaveRequest is the body of POST .../:employeeID/save
type SaveRequest struct {
	Final bool `json:"final"`
}

// SaveResponse wraps a save result; Partial marks a saved checklist whose
// status transition failed
type SaveResponse struct {
	*service.SaveResult
	Partial bool `json:"partial"`
}

// ListChecklists handles GET /api/<kind>-checklist
func (h *Handlers) ListChecklists(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := h.services.Checklists.List(c.Request.Context(), kind)
		if err != nil {
			h.respondError(c, err)
			return
		}
		respondOK(c, records)
	}
}

// OpenChecklist handles GET /api/<kind>-checklist/:employeeID
func (h *Handlers) OpenChecklist(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID, ok := pathID(c, "employeeID")
		if !ok {
			return
		}

		view, err := h.services.Checklists.Open(c.Request.Context(), kind, employeeID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		respondOK(c, view)
	}
}

// ToggleTask handles POST /api/<kind>-checklist/:employeeID/toggle
func (h *Handlers) ToggleTask(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID, ok := pathID(c, "employeeID")
		if !ok {
			return
		}
		var req ToggleRequest
		if !bindJSON(c, &req) {
			return
		}

		view, err := h.services.Checklists.Toggle(c.Request.Context(), kind, employeeID, req.Task)
		h.respondToggle(c, view, err)
	}
}

// ToggleAllTasks handles POST /api/<kind>-checklist/:employeeID/toggle-all
func (h *Handlers) ToggleAllTasks(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID, ok := pathID(c, "employeeID")
		if !ok {
			return
		}

		view, err := h.services.Checklists.ToggleAll(c.Request.Context(), kind, employeeID)
		h.respondToggle(c, view, err)
	}
}

// respondToggle returns the unchanged checklist with a warning when a saved task was hit
func (h *Handlers) respondToggle(c *gin.Context, view *service.ChecklistView, err error) {
	if errors.Is(err, checklist.ErrTaskLocked) && view != nil {
		c.JSON(http.StatusConflict, Response{
			Success: false,
			Data:    view,
			Message: "Saved progress cannot be undone",
		})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, view)
}

// SaveChecklist handles POST /api/<kind>-checklist/:employeeID/save
func (h *Handlers) SaveChecklist(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID, ok := pathID(c, "employeeID")
		if !ok {
			return
		}
		var req SaveRequest
		if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
			return
		}

		result, err := h.services.Checklists.Save(c.Request.Context(), kind, employeeID, req.Final)

		var partial *service.PartialSaveError
		if errors.As(err, &partial) && result != nil {
			c.JSON(http.StatusMultiStatus, Response{
				Success: false,
				Data:    SaveResponse{SaveResult: result, Partial: true},
				Message: fmt.Sprintf("Checklist saved, but the employee status was not updated: %v", partial.Err),
			})
			return
		}
		if err != nil {
			h.respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, Response{
			Success: true,
			Data:    SaveResponse{SaveResult: result},
			Message: saveMessage(kind, result),
		})
	}
}

func saveMessage(kind string, result *service.SaveResult) string {
	if result.Finalized {
		return fmt.Sprintf("%s checklist completed; employee is now %s", kind, result.EmployeeStatus)
	}
	return fmt.Sprintf("%s checklist saved", kind)
}

// DiscardChecklist handles POST /api/<kind>-checklist/:employeeID/discard
func (h *Handlers) DiscardChecklist(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID, ok := pathID(c, "employeeID")
		if !ok {
			return
		}

		h.services.Checklists.Discard(kind, employeeID)
		respondMessage(c, "unsaved changes discarded")
	}
}

// ExportChecklist handles GET /api/checklists/:kind/:employeeID/export
func (h *Handlers) ExportChecklist(c *gin.Context) {
	employeeID, ok := pathID(c, "employeeID")
	if !ok {
		return
	}

	export, err := h.services.Export.Checklist(c.Request.Context(), c.Param("kind"), employeeID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	sendExport(c, export)
}

func sendExport(c *gin.Context, export *service.Export) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	c.Data(http.StatusOK, service.XLSXContentType, export.Content)
}
