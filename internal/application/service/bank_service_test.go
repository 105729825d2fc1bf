package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/backoffice-console/internal/domain/entity"
)

func newTestBankService() (BankService, *mockBankRepo, *mockBankAccountRepo) {
	banks := &mockBankRepo{banks: map[int64]*entity.Bank{}}
	accounts := &mockBankAccountRepo{accounts: map[int64]*entity.BankAccount{}}
	return NewBankService(banks, accounts, &mockTxManager{}, &mockLogger{}), banks, accounts
}

func TestBankService_CreateBank(t *testing.T) {
	svc, _, _ := newTestBankService()
	ctx := context.Background()

	bank, err := svc.CreateBank(ctx, &entity.Bank{
		Code: " bdo ",
		Name: "Banco de Oro",
		Channels: []entity.BankContactChannel{
			{Kind: "Email", Value: "support@bdo.com.ph"},
			{Kind: "phone", Value: "+63 2 8631 8000"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "BDO", bank.Code)
	assert.Equal(t, "email", bank.Channels[0].Kind)

	_, err = svc.CreateBank(ctx, &entity.Bank{Code: "BDO", Name: "Duplicate"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "code")
}

func TestBankService_ValidatesChannels(t *testing.T) {
	svc, _, _ := newTestBankService()

	_, err := svc.CreateBank(context.Background(), &entity.Bank{
		Code: "BPI",
		Name: "Bank of the Philippine Islands",
		Channels: []entity.BankContactChannel{
			{Kind: "pager", Value: "123"},
			{Kind: "email", Value: "not-an-email"},
			{Kind: "website", Value: "ftp://bpi"},
			{Kind: "mobile", Value: ""},
		},
	})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "contact_channels[0].kind")
	assert.Contains(t, verr.Fields, "contact_channels[1].value")
	assert.Contains(t, verr.Fields, "contact_channels[2].value")
	assert.Contains(t, verr.Fields, "contact_channels[3].value")
}

func TestBankService_DeleteBankWithAccountsConflicts(t *testing.T) {
	svc, _, _ := newTestBankService()
	ctx := context.Background()

	bank, err := svc.CreateBank(ctx, &entity.Bank{Code: "MBTC", Name: "Metrobank"})
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, &entity.BankAccount{
		BankID: bank.ID, AccountNumber: "0012-3456-78", AccountName: "Payroll", AccountType: "checking",
	})
	require.NoError(t, err)

	err = svc.DeleteBank(ctx, bank.ID)
	assert.ErrorIs(t, err, ErrConflict)

	err = svc.DeleteBank(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBankService_CreateAccount(t *testing.T) {
	svc, _, _ := newTestBankService()
	ctx := context.Background()

	bank, err := svc.CreateBank(ctx, &entity.Bank{Code: "LBP", Name: "Landbank"})
	require.NoError(t, err)

	account, err := svc.CreateAccount(ctx, &entity.BankAccount{
		BankID: bank.ID, AccountNumber: "1234567890", AccountName: "Operating", AccountType: "Savings",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, account.Currency)
	assert.Equal(t, "savings", account.AccountType)

	tests := []struct {
		name  string
		input entity.BankAccount
		field string
	}{
		{"missing bank", entity.BankAccount{BankID: 77, AccountNumber: "555566667777", AccountName: "X", AccountType: "savings"}, "bank_id"},
		{"duplicate number", entity.BankAccount{BankID: bank.ID, AccountNumber: "1234567890", AccountName: "X", AccountType: "savings"}, "account_number"},
		{"bad number", entity.BankAccount{BankID: bank.ID, AccountNumber: "abc", AccountName: "X", AccountType: "savings"}, "account_number"},
		{"bad type", entity.BankAccount{BankID: bank.ID, AccountNumber: "98765432", AccountName: "X", AccountType: "crypto"}, "account_type"},
		{"bad currency", entity.BankAccount{BankID: bank.ID, AccountNumber: "98765432", AccountName: "X", AccountType: "savings", Currency: "peso"}, "currency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			_, err := svc.CreateAccount(ctx, &input)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestBankService_UpdateAccountKeepsOwnNumber(t *testing.T) {
	svc, _, _ := newTestBankService()
	ctx := context.Background()

	bank, err := svc.CreateBank(ctx, &entity.Bank{Code: "PNB", Name: "PNB"})
	require.NoError(t, err)
	account, err := svc.CreateAccount(ctx, &entity.BankAccount{
		BankID: bank.ID, AccountNumber: "11112222", AccountName: "Old", AccountType: "checking",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateAccount(ctx, account.ID, &entity.BankAccount{
		BankID: bank.ID, AccountNumber: "11112222", AccountName: "New", AccountType: "checking", Currency: "usd",
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.AccountName)
	assert.Equal(t, "USD", updated.Currency)
}
