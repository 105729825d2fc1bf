package http

import (
	"github.com/gin-gonic/gin"

	"github.com/garyjia/backoffice-console/internal/domain/entity"
)

// ListBanks handles GET /api/accountant/maintenance/banks
func (h *Handlers) ListBanks(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}

	page, err := h.services.Banks.ListBanks(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, page)
}

// GetBank handles GET /api/accountant/maintenance/banks/:id
func (h *Handlers) GetBank(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	bank, err := h.services.Banks.GetBank(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, bank)
}

// CreateBank handles POST /api/accountant/maintenance/banks
func (h *Handlers) CreateBank(c *gin.Context) {
	var bank entity.Bank
	if !bindJSON(c, &bank) {
		return
	}

	created, err := h.services.Banks.CreateBank(c.Request.Context(), &bank)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, created)
}

// UpdateBank handles PUT /api/accountant/maintenance/banks/:id.
// Contact channels in the body replace the stored ones.
func (h *Handlers) UpdateBank(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var bank entity.Bank
	if !bindJSON(c, &bank) {
		return
	}

	updated, err := h.services.Banks.UpdateBank(c.Request.Context(), id, &bank)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, updated)
}

// DeleteBank handles DELETE /api/accountant/maintenance/banks/:id
func (h *Handlers) DeleteBank(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Banks.DeleteBank(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	respondMessage(c, "bank deleted")
}

// ListBankAccounts handles GET /api/accountant/maintenance/bank-accounts
func (h *Handlers) ListBankAccounts(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}
	bankID, ok := queryID(c, "bank_id")
	if !ok {
		return
	}

	page, err := h.services.Banks.ListAccounts(c.Request.Context(), q, bankID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, page)
}

// GetBankAccount handles GET /api/accountant/maintenance/bank-accounts/:id
func (h *Handlers) GetBankAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	account, err := h.services.Banks.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, account)
}

// CreateBankAccount handles POST /api/accountant/maintenance/bank-accounts
func (h *Handlers) CreateBankAccount(c *gin.Context) {
	var account entity.BankAccount
	if !bindJSON(c, &account) {
		return
	}

	created, err := h.services.Banks.CreateAccount(c.Request.Context(), &account)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, created)
}

// UpdateBankAccount handles PUT /api/accountant/maintenance/bank-accounts/:id
func (h *Handlers) UpdateBankAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var account entity.BankAccount
	if !bindJSON(c, &account) {
		return
	}

	updated, err := h.services.Banks.UpdateAccount(c.Request.Context(), id, &account)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, updated)
}

// DeleteBankAccount handles DELETE /api/accountant/maintenance/bank-accounts/:id
func (h *Handlers) DeleteBankAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Banks.DeleteAccount(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	respondMessage(c, "bank account deleted")
}

// ExportBankAccounts handles GET /api/accountant/maintenance/bank-accounts/export
func (h *Handlers) ExportBankAccounts(c *gin.Context) {
	bankID, ok := queryID(c, "bank_id")
	if !ok {
		return
	}

	export, err := h.services.Export.BankAccounts(c.Request.Context(), bankID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	sendExport(c, export)
}
