package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"github.com/garyjia/backoffice-console/pkg/utils"
)

var (
	bankCodeRegex      = regexp.MustCompile(`^[A-Z0-9]{2,12}$`)
	accountNumberRegex = regexp.MustCompile(`^[0-9][0-9 \-]{3,31}$`)
	currencyRegex      = regexp.MustCompile(`^[A-Z]{3}$`)
)

// DefaultCurrency is applied to accounts created without one
const DefaultCurrency = "PHP"

// BankService manages banks and company bank accounts
type BankService interface {
	ListBanks(ctx context.Context, q entity.ListQuery) (*entity.Page[*entity.Bank], error)
	GetBank(ctx context.Context, id int64) (*entity.Bank, error)
	CreateBank(ctx context.Context, bank *entity.Bank) (*entity.Bank, error)
	UpdateBank(ctx context.Context, id int64, bank *entity.Bank) (*entity.Bank, error)
	DeleteBank(ctx context.Context, id int64) error

	// ListAccounts filters by bank when bankID > 0
	ListAccounts(ctx context.Context, q entity.ListQuery, bankID int64) (*entity.Page[*entity.BankAccount], error)
	GetAccount(ctx context.Context, id int64) (*entity.BankAccount, error)
	CreateAccount(ctx context.Context, account *entity.BankAccount) (*entity.BankAccount, error)
	UpdateAccount(ctx context.Context, id int64, account *entity.BankAccount) (*entity.BankAccount, error)
	DeleteAccount(ctx context.Context, id int64) error
}

type bankServiceImpl struct {
	bankRepo    port.BankRepository
	accountRepo port.BankAccountRepository
	txManager   port.TransactionManager
	logger      Logger
}

// NewBankService creates a new BankService
func NewBankService(
	bankRepo port.BankRepository,
	accountRepo port.BankAccountRepository,
	txManager port.TransactionManager,
	logger Logger,
) BankService {
	return &bankServiceImpl{
		bankRepo:    bankRepo,
		accountRepo: accountRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// ListBanks returns one page of banks with contact channels
func (s *bankServiceImpl) ListBanks(ctx context.Context, q entity.ListQuery) (*entity.Page[*entity.Bank], error) {
	q = q.Normalize()
	items, total, err := s.bankRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entity.Bank{}
	}
	return &entity.Page[*entity.Bank]{Items: items, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

// GetBank returns a bank with its contact channels
func (s *bankServiceImpl) GetBank(ctx context.Context, id int64) (*entity.Bank, error) {
	bank, err := s.bankRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bank == nil {
		return nil, fmt.Errorf("%w: bank %d", ErrNotFound, id)
	}
	return bank, nil
}

// CreateBank validates and stores a bank with its channels
func (s *bankServiceImpl) CreateBank(ctx context.Context, bank *entity.Bank) (*entity.Bank, error) {
	normalizeBank(bank)
	if err := s.validateBank(ctx, bank, 0); err != nil {
		return nil, err
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.bankRepo.Create(txCtx, bank)
	})
	if err != nil {
		return nil, s.writeFailed("create bank", "code", err)
	}

	s.logger.Info("Bank created", "id", bank.ID, "code", bank.Code)
	return s.GetBank(ctx, bank.ID)
}

// UpdateBank replaces a bank's fields and all of its contact channels
func (s *bankServiceImpl) UpdateBank(ctx context.Context, id int64, bank *entity.Bank) (*entity.Bank, error) {
	if _, err := s.GetBank(ctx, id); err != nil {
		return nil, err
	}

	bank.ID = id
	normalizeBank(bank)
	if err := s.validateBank(ctx, bank, id); err != nil {
		return nil, err
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.bankRepo.Update(txCtx, bank)
	})
	if err != nil {
		return nil, s.writeFailed("update bank", "code", err)
	}

	s.logger.Info("Bank updated", "id", id, "channels", len(bank.Channels))
	return s.GetBank(ctx, id)
}

// DeleteBank removes a bank that holds no accounts
func (s *bankServiceImpl) DeleteBank(ctx context.Context, id int64) error {
	if _, err := s.GetBank(ctx, id); err != nil {
		return err
	}

	n, err := s.accountRepo.CountByBank(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: bank still has %d account(s)", ErrConflict, n)
	}

	if err := s.bankRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Bank deleted", "id", id)
	return nil
}

// ListAccounts returns one page of bank accounts
func (s *bankServiceImpl) ListAccounts(ctx context.Context, q entity.ListQuery, bankID int64) (*entity.Page[*entity.BankAccount], error) {
	q = q.Normalize()
	items, total, err := s.accountRepo.List(ctx, q, bankID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entity.BankAccount{}
	}
	return &entity.Page[*entity.BankAccount]{Items: items, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

// GetAccount returns a bank account
func (s *bankServiceImpl) GetAccount(ctx context.Context, id int64) (*entity.BankAccount, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: bank account %d", ErrNotFound, id)
	}
	return account, nil
}

// CreateAccount validates and stores a bank account
func (s *bankServiceImpl) CreateAccount(ctx context.Context, account *entity.BankAccount) (*entity.BankAccount, error) {
	normalizeAccount(account)
	if err := s.validateAccount(ctx, account, 0); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, s.writeFailed("create bank account", "account_number", err)
	}
	s.logger.Info("Bank account created", "id", account.ID, "bank_id", account.BankID)
	return s.GetAccount(ctx, account.ID)
}

// UpdateAccount replaces a bank account's fields
func (s *bankServiceImpl) UpdateAccount(ctx context.Context, id int64, account *entity.BankAccount) (*entity.BankAccount, error) {
	if _, err := s.GetAccount(ctx, id); err != nil {
		return nil, err
	}

	account.ID = id
	normalizeAccount(account)
	if err := s.validateAccount(ctx, account, id); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, s.writeFailed("update bank account", "account_number", err)
	}
	return s.GetAccount(ctx, id)
}

// DeleteAccount removes a bank account
func (s *bankServiceImpl) DeleteAccount(ctx context.Context, id int64) error {
	if _, err := s.GetAccount(ctx, id); err != nil {
		return err
	}
	return s.accountRepo.Delete(ctx, id)
}

func (s *bankServiceImpl) validateBank(ctx context.Context, b *entity.Bank, selfID int64) error {
	v := NewValidationError()
	if !bankCodeRegex.MatchString(b.Code) {
		v.Add("code", "code must be 2-12 letters or digits")
	} else {
		existing, err := s.bankRepo.GetByCode(ctx, b.Code)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			v.Add("code", "bank code already exists")
		}
	}
	if b.Name == "" {
		v.Add("name", "name is required")
	}

	for i, ch := range b.Channels {
		field := fmt.Sprintf("contact_channels[%d]", i)
		if !entity.ValidChannelKinds[ch.Kind] {
			v.Add(field+".kind", "kind must be one of email, phone, mobile, fax, website")
			continue
		}
		switch {
		case ch.Value == "":
			v.Add(field+".value", "value is required")
		case ch.Kind == entity.ChannelKindEmail && utils.ValidateEmail(ch.Value) != nil:
			v.Add(field+".value", "invalid email address")
		case (ch.Kind == entity.ChannelKindPhone || ch.Kind == entity.ChannelKindMobile || ch.Kind == entity.ChannelKindFax) &&
			utils.ValidatePhone(ch.Value) != nil:
			v.Add(field+".value", "invalid phone number")
		case ch.Kind == entity.ChannelKindWebsite && !validURL(ch.Value):
			v.Add(field+".value", "website must be an http or https URL")
		}
	}

	return v.OrNil()
}

func (s *bankServiceImpl) validateAccount(ctx context.Context, a *entity.BankAccount, selfID int64) error {
	v := NewValidationError()

	if a.BankID <= 0 {
		v.Add("bank_id", "bank is required")
	} else {
		bank, err := s.bankRepo.GetByID(ctx, a.BankID)
		if err != nil {
			return err
		}
		if bank == nil {
			v.Add("bank_id", "bank does not exist")
		}
	}

	if !accountNumberRegex.MatchString(a.AccountNumber) {
		v.Add("account_number", "account number must be 4-32 digits, spaces or dashes")
	} else {
		existing, err := s.accountRepo.GetByAccountNumber(ctx, a.AccountNumber)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			v.Add("account_number", "account number already exists")
		}
	}
	if a.AccountName == "" {
		v.Add("account_name", "account name is required")
	}
	if !entity.ValidAccountTypes[a.AccountType] {
		v.Add("account_type", "account type must be savings, checking or time_deposit")
	}
	if !currencyRegex.MatchString(a.Currency) {
		v.Add("currency", "currency must be a 3-letter ISO code")
	}

	return v.OrNil()
}

func (s *bankServiceImpl) writeFailed(op, field string, err error) error {
	if errors.Is(err, port.ErrDuplicate) {
		return fieldError(field, "value already exists")
	}
	s.logger.Error("Bank write failed", "op", op, "error", err)
	return err
}

func normalizeBank(b *entity.Bank) {
	b.Code = strings.ToUpper(strings.TrimSpace(b.Code))
	b.Name = utils.SanitizeString(b.Name)
	b.Branch = utils.SanitizeString(b.Branch)
	b.Address = utils.SanitizeString(b.Address)
	for i := range b.Channels {
		ch := &b.Channels[i]
		ch.ID = 0
		ch.Kind = strings.ToLower(strings.TrimSpace(ch.Kind))
		ch.Value = strings.TrimSpace(ch.Value)
		ch.Label = utils.SanitizeString(ch.Label)
	}
}

func normalizeAccount(a *entity.BankAccount) {
	a.AccountNumber = strings.TrimSpace(a.AccountNumber)
	a.AccountName = utils.SanitizeString(a.AccountName)
	a.AccountType = strings.ToLower(strings.TrimSpace(a.AccountType))
	a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))
	if a.Currency == "" {
		a.Currency = DefaultCurrency
	}
	a.GLCode = strings.TrimSpace(a.GLCode)
	a.BankName = ""
}
