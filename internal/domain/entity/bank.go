package entity

import "time"

// Bank is a bank maintained by the accounting module.
type Bank struct {
	ID        int64                `json:"id"`
	Code      string               `json:"code"`
	Name      string               `json:"name"`
	Branch    string               `json:"branch,omitempty"`
	Address   string               `json:"address,omitempty"`
	IsActive  bool                 `json:"is_active"`
	Channels  []BankContactChannel `json:"contact_channels"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// BankContactChannel is one way to reach a bank.
type BankContactChannel struct {
	ID     int64  `json:"id"`
	BankID int64  `json:"bank_id"`
	Kind   string `json:"kind"`
	Value  string `json:"value"`
	Label  string `json:"label,omitempty"`
}

// Contact channel kinds
const (
	ChannelKindEmail   = "email"
	ChannelKindPhone   = "phone"
	ChannelKindMobile  = "mobile"
	ChannelKindFax     = "fax"
	ChannelKindWebsite = "website"
)

// ValidChannelKinds lists the accepted BankContactChannel.Kind values.
var ValidChannelKinds = map[string]bool{
	ChannelKindEmail:   true,
	ChannelKindPhone:   true,
	ChannelKindMobile:  true,
	ChannelKindFax:     true,
	ChannelKindWebsite: true,
}

// BankAccount is a company account held at a bank.
type BankAccount struct {
	ID            int64     `json:"id"`
	BankID        int64     `json:"bank_id"`
	BankName      string    `json:"bank_name,omitempty"`
	AccountNumber string    `json:"account_number"`
	AccountName   string    `json:"account_name"`
	AccountType   string    `json:"account_type"`
	Currency      string    `json:"currency"`
	GLCode        string    `json:"gl_code,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Account types
const (
	AccountTypeSavings  = "savings"
	AccountTypeChecking = "checking"
	AccountTypeTime     = "time_deposit"
)

// ValidAccountTypes lists the accepted BankAccount.AccountType values.
var ValidAccountTypes = map[string]bool{
	AccountTypeSavings:  true,
	AccountTypeChecking: true,
	AccountTypeTime:     true,
}
