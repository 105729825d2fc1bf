package http

import (
	"github.com/gin-gonic/gin"

	"github.com/garyjia/backoffice-console/internal/domain/entity"
)

// ListAgencies handles GET /api/directory/agencies
func (h *Handlers) ListAgencies(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}

	page, err := h.services.Directory.ListAgencies(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, page)
}

// GetAgency handles GET /api/directory/agencies/:id
func (h *Handlers) GetAgency(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	agency, err := h.services.Directory.GetAgency(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, agency)
}

// CreateAgency handles POST /api/directory/agencies
func (h *Handlers) CreateAgency(c *gin.Context) {
	var agency entity.Agency
	if !bindJSON(c, &agency) {
		return
	}

	created, err := h.services.Directory.CreateAgency(c.Request.Context(), &agency)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, created)
}

// UpdateAgency handles PUT /api/directory/agencies/:id
func (h *Handlers) UpdateAgency(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var agency entity.Agency
	if !bindJSON(c, &agency) {
		return
	}

	updated, err := h.services.Directory.UpdateAgency(c.Request.Context(), id, &agency)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, updated)
}

// DeleteAgency handles DELETE /api/directory/agencies/:id
func (h *Handlers) DeleteAgency(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Directory.DeleteAgency(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	respondMessage(c, "agency deleted")
}

// ListContacts handles GET /api/directory/general-contacts
func (h *Handlers) ListContacts(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}

	page, err := h.services.Directory.ListContacts(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, page)
}

// GetContact handles GET /api/directory/general-contacts/:id
func (h *Handlers) GetContact(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	contact, err := h.services.Directory.GetContact(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, contact)
}

// CreateContact handles POST /api/directory/general-contacts
func (h *Handlers) CreateContact(c *gin.Context) {
	var contact entity.GeneralContact
	if !bindJSON(c, &contact) {
		return
	}

	created, err := h.services.Directory.CreateContact(c.Request.Context(), &contact)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, created)
}

// UpdateContact handles PUT /api/directory/general-contacts/:id
func (h *Handlers) UpdateContact(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var contact entity.GeneralContact
	if !bindJSON(c, &contact) {
		return
	}

	updated, err := h.services.Directory.UpdateContact(c.Request.Context(), id, &contact)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, updated)
}

// DeleteContact handles DELETE /api/directory/general-contacts/:id
func (h *Handlers) DeleteContact(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Directory.DeleteContact(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	respondMessage(c, "contact deleted")
}
