package entity

import "time"

// Agency is a government agency in the contact directory.
type Agency struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Acronym   string          `json:"acronym,omitempty"`
	Address   string          `json:"address,omitempty"`
	Website   string          `json:"website,omitempty"`
	LogoURL   string          `json:"logo_url,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	Contacts  []AgencyContact `json:"contacts"`
	Steps     []ProcessStep   `json:"process_steps"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AgencyContact is a person reachable at an agency.
type AgencyContact struct {
	ID       int64  `json:"id"`
	AgencyID int64  `json:"agency_id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// ProcessStep describes one step of transacting with an agency.
type ProcessStep struct {
	ID             int64  `json:"id"`
	AgencyID       int64  `json:"agency_id"`
	SequenceNumber int    `json:"sequence_number"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Requirements   string `json:"requirements,omitempty"`
}

// GeneralContact is a directory entry not tied to an agency.
type GeneralContact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
