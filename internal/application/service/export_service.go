package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/garyjia/backoffice-console/internal/domain/checklist"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
)

// XLSXContentType is the MIME type of generated workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const exportPageSize = 100

// Export is a generated file ready to be streamed
type Export struct {
	FileName string
	Content  []byte
}

// ExportService renders checklists and bank accounts as spreadsheets
type ExportService interface {
	Checklist(ctx context.Context, kind string, employeeID int64) (*Export, error)
	BankAccounts(ctx context.Context, bankID int64) (*Export, error)
}

type exportServiceImpl struct {
	checklists ChecklistService
	banks      BankService
	logger     Logger
}

// NewExportService creates a new ExportService
func NewExportService(checklists ChecklistService, banks BankService, logger Logger) ExportService {
	return &exportServiceImpl{checklists: checklists, banks: banks, logger: logger}
}

// Checklist exports the current session state, including unsaved toggles
func (s *exportServiceImpl) Checklist(ctx context.Context, kind string, employeeID int64) (*Export, error) {
	view, err := s.checklists.Open(ctx, kind, employeeID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Checklist"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	s.setCell(f, sheet, "A1", "Employee")
	s.setCell(f, sheet, "B1", view.EmployeeName)
	s.setCell(f, sheet, "A2", "Department")
	s.setCell(f, sheet, "B2", view.Department)
	s.setCell(f, sheet, "A3", "Reference date")
	s.setCell(f, sheet, "B3", view.ReferenceDate)
	s.setCell(f, sheet, "A4", "Progress")
	s.setCell(f, sheet, "B4", fmt.Sprintf("%d%% (%d/%d)", view.Percentage, view.Completed, view.Total))
	s.setCell(f, sheet, "A5", "Status")
	s.setCell(f, sheet, "B5", view.Status)

	s.setRow(f, sheet, 7, "#", "Task", "State", "Date")
	for i, task := range view.Tasks {
		date := ""
		if task.At != nil {
			date = task.At.Format(checklist.DateLayout)
		}
		s.setRow(f, sheet, 8+i, i+1, task.Task, task.State, date)
	}
	s.setColWidth(f, sheet, "B", 48)
	s.setColWidth(f, sheet, "D", 24)

	content, err := writeWorkbook(f)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Checklist exported", "kind", kind, "employee_id", employeeID, "tasks", len(view.Tasks))
	return &Export{
		FileName: fmt.Sprintf("%s-checklist-%d.xlsx", kind, employeeID),
		Content:  content,
	}, nil
}

// BankAccounts exports every bank account, optionally limited to one bank
func (s *exportServiceImpl) BankAccounts(ctx context.Context, bankID int64) (*Export, error) {
	var accounts []*entity.BankAccount
	q := entity.ListQuery{Limit: exportPageSize}
	for {
		page, err := s.banks.ListAccounts(ctx, q, bankID)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, page.Items...)
		if len(page.Items) == 0 || len(accounts) >= page.Total {
			break
		}
		q.Offset += len(page.Items)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Bank Accounts"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	s.setRow(f, sheet, 1, "Bank", "Account Number", "Account Name", "Type", "Currency", "GL Code", "Active")
	for i, a := range accounts {
		active := "No"
		if a.IsActive {
			active = "Yes"
		}
		s.setRow(f, sheet, 2+i, a.BankName, a.AccountNumber, a.AccountName,
			strings.ReplaceAll(a.AccountType, "_", " "), a.Currency, a.GLCode, active)
	}
	s.setColWidth(f, sheet, "A", 28)
	s.setColWidth(f, sheet, "B", 22)
	s.setColWidth(f, sheet, "C", 32)

	content, err := writeWorkbook(f)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Bank accounts exported", "bank_id", bankID, "rows", len(accounts))
	name := "bank-accounts.xlsx"
	if bankID > 0 {
		name = fmt.Sprintf("bank-accounts-%d.xlsx", bankID)
	}
	return &Export{FileName: name, Content: content}, nil
}

// setCell sets a cell value, logging instead of failing
func (s *exportServiceImpl) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		s.logger.Error("Failed to set cell value", "sheet", sheet, "cell", cell, "error", err)
	}
}

func (s *exportServiceImpl) setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			s.logger.Error("Invalid cell coordinates", "col", col+1, "row", row, "error", err)
			continue
		}
		s.setCell(f, sheet, cell, value)
	}
}

func (s *exportServiceImpl) setColWidth(f *excelize.File, sheet, col string, width float64) {
	if err := f.SetColWidth(sheet, col, col, width); err != nil {
		s.logger.Error("Failed to set column width", "sheet", sheet, "col", col, "error", err)
	}
}

func writeWorkbook(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
