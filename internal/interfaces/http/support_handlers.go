package http

import (
	"github.com/gin-gonic/gin"

	"github.com/garyjia/backoffice-console/internal/domain/entity"
)

// ReplaceTemplateRequest is the body of PUT /api/clearance-templates/:department
type ReplaceTemplateRequest struct {
	Tasks []string `json:"tasks"`
}

// ListTemplateDepartments handles GET /api/clearance-templates
func (h *Handlers) ListTemplateDepartments(c *gin.Context) {
	departments, err := h.services.Templates.Departments(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, departments)
}

// GetTemplate handles GET /api/clearance-templates/:department
func (h *Handlers) GetTemplate(c *gin.Context) {
	view, err := h.services.Templates.Get(c.Request.Context(), c.Param("department"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, view)
}

// ReplaceTemplate handles PUT /api/clearance-templates/:department
func (h *Handlers) ReplaceTemplate(c *gin.Context) {
	var req ReplaceTemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.services.Templates.Replace(c.Request.Context(), c.Param("department"), req.Tasks)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, view)
}

// GetWizard handles GET /api/onboarding-wizard/:key
func (h *Handlers) GetWizard(c *gin.Context) {
	state, err := h.services.Wizard.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, state)
}

// SaveWizard handles PUT /api/onboarding-wizard/:key
func (h *Handlers) SaveWizard(c *gin.Context) {
	var state entity.WizardState
	if !bindJSON(c, &state) {
		return
	}

	saved, err := h.services.Wizard.Save(c.Request.Context(), c.Param("key"), &state)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, saved)
}

// DeleteWizard handles DELETE /api/onboarding-wizard/:key
func (h *Handlers) DeleteWizard(c *gin.Context) {
	if err := h.services.Wizard.Delete(c.Request.Context(), c.Param("key")); err != nil {
		h.respondError(c, err)
		return
	}
	respondMessage(c, "wizard progress cleared")
}

// Dashboard handles GET /api/dashboard
func (h *Handlers) Dashboard(c *gin.Context) {
	stats, err := h.services.Dashboard.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, stats)
}
