package service

import (
	"context"
	"sync"
	"time"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"github.com/garyjia/backoffice-console/internal/domain/event"
)

// Mock repositories

type mockEmployeeRepo struct {
	createFunc       func(ctx context.Context, employee *entity.Employee) error
	getByIDFunc      func(ctx context.Context, id int64) (*entity.Employee, error)
	getByEmailFunc   func(ctx context.Context, email string) (*entity.Employee, error)
	findByNameFunc   func(ctx context.Context, firstName, lastName string) ([]*entity.Employee, error)
	listFunc         func(ctx context.Context, q entity.ListQuery, status string) ([]*entity.Employee, int, error)
	updateFunc       func(ctx context.Context, employee *entity.Employee) error
	updateStatusFunc func(ctx context.Context, id int64, status string) error
	deleteFunc       func(ctx context.Context, id int64) error
}

func (m *mockEmployeeRepo) Create(ctx context.Context, employee *entity.Employee) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, employee)
	}
	employee.ID = 1
	return nil
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id int64) (*entity.Employee, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockEmployeeRepo) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockEmployeeRepo) FindByName(ctx context.Context, firstName, lastName string) ([]*entity.Employee, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, firstName, lastName)
	}
	return nil, nil
}

func (m *mockEmployeeRepo) List(ctx context.Context, q entity.ListQuery, status string) ([]*entity.Employee, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, q, status)
	}
	return nil, 0, nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, employee *entity.Employee) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, employee)
	}
	return nil
}

func (m *mockEmployeeRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockHistoryRepo struct {
	createFunc func(ctx context.Context, history *entity.EmployeeHistory) error
}

func (m *mockHistoryRepo) Create(ctx context.Context, history *entity.EmployeeHistory) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, history)
	}
	return nil
}

func (m *mockHistoryRepo) GetByEmployeeID(ctx context.Context, employeeID int64) ([]*entity.EmployeeHistory, error) {
	return []*entity.EmployeeHistory{}, nil
}

type mockChecklistRepo struct {
	createFunc              func(ctx context.Context, record *entity.ChecklistRecord) error
	updateFunc              func(ctx context.Context, record *entity.ChecklistRecord) error
	getByIdempotencyKeyFunc func(ctx context.Context, key string) (*entity.ChecklistRecord, error)
	listByKindFunc          func(ctx context.Context, kind string) ([]*entity.ChecklistRecord, error)
	detachFunc              func(ctx context.Context, employeeID int64) error
}

func (m *mockChecklistRepo) Create(ctx context.Context, record *entity.ChecklistRecord) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, record)
	}
	record.ID = 1
	return nil
}

func (m *mockChecklistRepo) Update(ctx context.Context, record *entity.ChecklistRecord) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, record)
	}
	return nil
}

func (m *mockChecklistRepo) GetByID(ctx context.Context, id int64) (*entity.ChecklistRecord, error) {
	return nil, nil
}

func (m *mockChecklistRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.ChecklistRecord, error) {
	if m.getByIdempotencyKeyFunc != nil {
		return m.getByIdempotencyKeyFunc(ctx, key)
	}
	return nil, nil
}

func (m *mockChecklistRepo) ListByKind(ctx context.Context, kind string) ([]*entity.ChecklistRecord, error) {
	if m.listByKindFunc != nil {
		return m.listByKindFunc(ctx, kind)
	}
	return nil, nil
}

func (m *mockChecklistRepo) Detach(ctx context.Context, employeeID int64) error {
	if m.detachFunc != nil {
		return m.detachFunc(ctx, employeeID)
	}
	return nil
}

type mockTemplateRepo struct {
	templates map[string][]string
}

func (m *mockTemplateRepo) ListByDepartment(ctx context.Context, department string) ([]*entity.ClearanceTemplate, error) {
	var out []*entity.ClearanceTemplate
	for i, task := range m.templates[department] {
		out = append(out, &entity.ClearanceTemplate{Department: department, SequenceNumber: i + 1, Task: task})
	}
	return out, nil
}

func (m *mockTemplateRepo) ListDepartments(ctx context.Context) ([]string, error) {
	var out []string
	for dept := range m.templates {
		out = append(out, dept)
	}
	return out, nil
}

func (m *mockTemplateRepo) ReplaceDepartment(ctx context.Context, department string, tasks []string) error {
	if m.templates == nil {
		m.templates = map[string][]string{}
	}
	m.templates[department] = tasks
	return nil
}

type mockWizardRepo struct {
	states map[string]*entity.WizardState
	cutoff time.Time
}

func (m *mockWizardRepo) Get(ctx context.Context, key string) (*entity.WizardState, error) {
	return m.states[key], nil
}

func (m *mockWizardRepo) Upsert(ctx context.Context, state *entity.WizardState) error {
	if m.states == nil {
		m.states = map[string]*entity.WizardState{}
	}
	m.states[state.Key] = state
	return nil
}

func (m *mockWizardRepo) Delete(ctx context.Context, key string) error {
	delete(m.states, key)
	return nil
}

func (m *mockWizardRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.cutoff = cutoff
	var n int64
	for key, state := range m.states {
		if state.UpdatedAt.Before(cutoff) {
			delete(m.states, key)
			n++
		}
	}
	return n, nil
}

type mockBankRepo struct {
	banks map[int64]*entity.Bank
}

func (m *mockBankRepo) List(ctx context.Context, q entity.ListQuery) ([]*entity.Bank, int, error) {
	return nil, 0, nil
}

func (m *mockBankRepo) GetByID(ctx context.Context, id int64) (*entity.Bank, error) {
	return m.banks[id], nil
}

func (m *mockBankRepo) GetByCode(ctx context.Context, code string) (*entity.Bank, error) {
	for _, b := range m.banks {
		if b.Code == code {
			return b, nil
		}
	}
	return nil, nil
}

func (m *mockBankRepo) Create(ctx context.Context, bank *entity.Bank) error {
	if m.banks == nil {
		m.banks = map[int64]*entity.Bank{}
	}
	bank.ID = int64(len(m.banks) + 1)
	m.banks[bank.ID] = bank
	return nil
}

func (m *mockBankRepo) Update(ctx context.Context, bank *entity.Bank) error {
	m.banks[bank.ID] = bank
	return nil
}

func (m *mockBankRepo) Delete(ctx context.Context, id int64) error {
	delete(m.banks, id)
	return nil
}

type mockBankAccountRepo struct {
	accounts map[int64]*entity.BankAccount
	pageSize int
}

func (m *mockBankAccountRepo) List(ctx context.Context, q entity.ListQuery, bankID int64) ([]*entity.BankAccount, int, error) {
	var all []*entity.BankAccount
	for id := int64(1); id <= int64(len(m.accounts)); id++ {
		if a, ok := m.accounts[id]; ok && (bankID == 0 || a.BankID == bankID) {
			all = append(all, a)
		}
	}
	limit := q.Limit
	if m.pageSize > 0 && m.pageSize < limit {
		limit = m.pageSize
	}
	end := q.Offset + limit
	if end > len(all) {
		end = len(all)
	}
	if q.Offset >= len(all) {
		return nil, len(all), nil
	}
	return all[q.Offset:end], len(all), nil
}

func (m *mockBankAccountRepo) GetByID(ctx context.Context, id int64) (*entity.BankAccount, error) {
	return m.accounts[id], nil
}

func (m *mockBankAccountRepo) GetByAccountNumber(ctx context.Context, number string) (*entity.BankAccount, error) {
	for _, a := range m.accounts {
		if a.AccountNumber == number {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockBankAccountRepo) CountByBank(ctx context.Context, bankID int64) (int, error) {
	n := 0
	for _, a := range m.accounts {
		if a.BankID == bankID {
			n++
		}
	}
	return n, nil
}

func (m *mockBankAccountRepo) Create(ctx context.Context, account *entity.BankAccount) error {
	if m.accounts == nil {
		m.accounts = map[int64]*entity.BankAccount{}
	}
	account.ID = int64(len(m.accounts) + 1)
	m.accounts[account.ID] = account
	return nil
}

func (m *mockBankAccountRepo) Update(ctx context.Context, account *entity.BankAccount) error {
	m.accounts[account.ID] = account
	return nil
}

func (m *mockBankAccountRepo) Delete(ctx context.Context, id int64) error {
	delete(m.accounts, id)
	return nil
}

type mockAssetRepo struct {
	createFunc func(ctx context.Context, asset *entity.Asset) error
	assets     map[string]*entity.Asset
}

func (m *mockAssetRepo) Create(ctx context.Context, asset *entity.Asset) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, asset)
	}
	if m.assets == nil {
		m.assets = map[string]*entity.Asset{}
	}
	m.assets[asset.ID] = asset
	return nil
}

func (m *mockAssetRepo) GetByID(ctx context.Context, id string) (*entity.Asset, error) {
	return m.assets[id], nil
}

func (m *mockAssetRepo) ListByFolder(ctx context.Context, folder string) ([]*entity.Asset, error) {
	var out []*entity.Asset
	for _, a := range m.assets {
		if a.Folder == folder {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAssetRepo) Delete(ctx context.Context, id string) error {
	delete(m.assets, id)
	return nil
}

type mockStatsRepo struct {
	stats *entity.Stats
}

func (m *mockStatsRepo) Stats(ctx context.Context) (*entity.Stats, error) {
	return m.stats, nil
}

// Mock infrastructure

type mockFileStorage struct {
	files map[string][]byte
}

func (m *mockFileStorage) Save(ctx context.Context, path string, content []byte) error {
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[path] = content
	return nil
}

func (m *mockFileStorage) Read(ctx context.Context, path string) ([]byte, error) {
	return m.files[path], nil
}

func (m *mockFileStorage) Exists(ctx context.Context, path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *mockFileStorage) Delete(ctx context.Context, path string) error {
	delete(m.files, path)
	return nil
}

func (m *mockFileStorage) GetFullPath(relativePath string) string {
	return "/data/" + relativePath
}

type mockInspector struct {
	info *port.ImageInfo
	err  error
}

func (m *mockInspector) Inspect(content []byte) (*port.ImageInfo, error) {
	return m.info, m.err
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockPublisher struct {
	mu     sync.Mutex
	events []*event.Event
}

func (m *mockPublisher) Dispatch(ctx context.Context, evt *event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return nil
}

func (m *mockPublisher) types() []event.Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]event.Type, len(m.events))
	for i, evt := range m.events {
		out[i] = evt.Type
	}
	return out
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}
