package entity

// ListQuery carries search and pagination for list endpoints.
type ListQuery struct {
	Search string
	Limit  int
	Offset int
}

// Normalize clamps the page size to 1..100 (default 20) and the offset to >= 0.
func (q ListQuery) Normalize() ListQuery {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// Page is one page of results plus the unpaginated total.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	EmployeesByStatus  map[string]int `json:"employees_by_status"`
	PendingChecklists  map[string]int `json:"pending_checklists"`
	Agencies           int            `json:"agencies"`
	GeneralContacts    int            `json:"general_contacts"`
	Banks              int            `json:"banks"`
	ActiveBankAccounts int            `json:"active_bank_accounts"`
	OpenWizardDrafts   int            `json:"open_wizard_drafts"`

	// ActiveChecklistSessions is filled from memory, not the database.
	ActiveChecklistSessions int `json:"active_checklist_sessions"`
}
