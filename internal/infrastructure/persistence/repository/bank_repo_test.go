package repository

import (
	"testing"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createBank(t *testing.T, repo port.BankRepository, code, name string) *entity.Bank {
	t.Helper()
	bank := &entity.Bank{Code: code, Name: name, IsActive: true}
	require.NoError(t, repo.Create(ctx(), bank))
	return bank
}

func TestBankRepository_ChannelsReplaceAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBankRepository(db.DB, zap.NewNop())

	bank := &entity.Bank{
		Code:     "BDO",
		Name:     "Banco de Oro",
		IsActive: true,
		Channels: []entity.BankContactChannel{
			{Kind: entity.ChannelKindEmail, Value: "branch@bdo.example"},
			{Kind: entity.ChannelKindPhone, Value: "(02) 8631-8000"},
		},
	}
	require.NoError(t, repo.Create(ctx(), bank))

	bank.Channels = []entity.BankContactChannel{{Kind: entity.ChannelKindFax, Value: "(02) 8000-0000", Label: "Ops"}}
	bank.IsActive = false
	require.NoError(t, repo.Update(ctx(), bank))

	got, err := repo.GetByID(ctx(), bank.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsActive)
	require.Len(t, got.Channels, 1)
	assert.Equal(t, entity.ChannelKindFax, got.Channels[0].Kind)
	assert.Equal(t, "Ops", got.Channels[0].Label)

	byCode, err := repo.GetByCode(ctx(), "bdo")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, bank.ID, byCode.ID)
}

func TestBankRepository_DuplicateCodeAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBankRepository(db.DB, zap.NewNop())

	createBank(t, repo, "BPI", "Bank of the Philippine Islands")
	createBank(t, repo, "MBT", "Metrobank")

	err := repo.Create(ctx(), &entity.Bank{Code: "BPI", Name: "Other"})
	assert.ErrorIs(t, err, port.ErrDuplicate)

	banks, total, err := repo.List(ctx(), entity.ListQuery{Search: "metro"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "MBT", banks[0].Code)
	assert.NotNil(t, banks[0].Channels)
}

func TestBankAccountRepository_FilterAndLookup(t *testing.T) {
	db := setupTestDB(t)
	banks := NewBankRepository(db.DB, zap.NewNop())
	repo := NewBankAccountRepository(db.DB, zap.NewNop())

	bpi := createBank(t, banks, "BPI", "Bank of the Philippine Islands")
	mbt := createBank(t, banks, "MBT", "Metrobank")

	accounts := []*entity.BankAccount{
		{BankID: bpi.ID, AccountNumber: "0001-1111", AccountName: "Operating", AccountType: entity.AccountTypeChecking, Currency: "PHP", IsActive: true},
		{BankID: bpi.ID, AccountNumber: "0001-2222", AccountName: "Payroll", AccountType: entity.AccountTypeSavings, Currency: "PHP", IsActive: false},
		{BankID: mbt.ID, AccountNumber: "0002-3333", AccountName: "Dollar", AccountType: entity.AccountTypeSavings, Currency: "USD", IsActive: true},
	}
	for _, a := range accounts {
		require.NoError(t, repo.Create(ctx(), a))
	}

	list, total, err := repo.List(ctx(), entity.ListQuery{}, bpi.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Bank of the Philippine Islands", list[0].BankName)

	list, total, err = repo.List(ctx(), entity.ListQuery{Search: "payroll"}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.False(t, list[0].IsActive)

	n, err := repo.CountByBank(ctx(), mbt.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.GetByAccountNumber(ctx(), "0002-3333")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "USD", got.Currency)

	err = repo.Create(ctx(), &entity.BankAccount{BankID: mbt.ID, AccountNumber: "0002-3333", AccountName: "x", AccountType: entity.AccountTypeSavings, Currency: "PHP"})
	assert.ErrorIs(t, err, port.ErrDuplicate)

	// accounts still reference the bank
	assert.Error(t, banks.Delete(ctx(), mbt.ID))
}

func TestAssetAndStatsRepository(t *testing.T) {
	db := setupTestDB(t)
	assets := NewAssetRepository(db.DB, zap.NewNop())
	stats := NewStatsRepository(db.DB, zap.NewNop())
	employees := NewEmployeeRepository(db.DB, zap.NewNop())

	asset := &entity.Asset{ID: "a1", Folder: "agencies", OriginalName: "logo.png", StoredPath: "agencies/a1.png",
		ContentType: "image/png", SizeBytes: 10, Width: 4, Height: 3}
	require.NoError(t, assets.Create(ctx(), asset))

	list, err := assets.ListByFolder(ctx(), "agencies")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 4, list[0].Width)

	require.NoError(t, employees.Create(ctx(), newEmployee("Ana", "Reyes", "ana@example.com")))

	s, err := stats.Stats(ctx())
	require.NoError(t, err)
	assert.Equal(t, 1, s.EmployeesByStatus[entity.EmployeeStatusOnboarding])
	assert.Equal(t, 0, s.EmployeesByStatus[entity.EmployeeStatusActive])
	assert.Equal(t, 0, s.PendingChecklists[entity.ChecklistKindOnboarding])

	require.NoError(t, assets.Delete(ctx(), "a1"))
	got, err := assets.GetByID(ctx(), "a1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
