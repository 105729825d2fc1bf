package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"github.com/garyjia/backoffice-console/pkg/utils"
)

// ClearanceTemplateView is a department's ordered clearance tasks
type ClearanceTemplateView struct {
	Department string   `json:"department"`
	Tasks      []string `json:"tasks"`

	// Fallback is set when the department has no template and the default one is returned
	Fallback bool `json:"fallback"`
}

// TemplateService manages department clearance templates
type TemplateService interface {
	Get(ctx context.Context, department string) (*ClearanceTemplateView, error)
	Departments(ctx context.Context) ([]string, error)
	Replace(ctx context.Context, department string, tasks []string) (*ClearanceTemplateView, error)
}

type templateServiceImpl struct {
	templateRepo port.TemplateRepository
	txManager    port.TransactionManager
	logger       Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templateRepo port.TemplateRepository, txManager port.TransactionManager, logger Logger) TemplateService {
	return &templateServiceImpl{
		templateRepo: templateRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Get returns the department's template, falling back to the default template
func (s *templateServiceImpl) Get(ctx context.Context, department string) (*ClearanceTemplateView, error) {
	department = utils.SanitizeString(department)
	if department == "" {
		department = entity.DefaultTemplateDepartment
	}

	tasks, fallback, err := clearanceLabels(ctx, s.templateRepo, department)
	if err != nil {
		return nil, err
	}
	return &ClearanceTemplateView{Department: department, Tasks: tasks, Fallback: fallback}, nil
}

// Departments lists departments that have their own template
func (s *templateServiceImpl) Departments(ctx context.Context) ([]string, error) {
	departments, err := s.templateRepo.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	if departments == nil {
		departments = []string{}
	}
	return departments, nil
}

// Replace swaps the department's template. Existing checklists keep their
// saved tasks; new sessions pick up the new list.
func (s *templateServiceImpl) Replace(ctx context.Context, department string, tasks []string) (*ClearanceTemplateView, error) {
	department = utils.SanitizeString(department)

	v := NewValidationError()
	if department == "" {
		v.Add("department", "department is required")
	}

	cleaned := make([]string, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for i, task := range tasks {
		task = utils.SanitizeString(task)
		key := strings.ToLower(task)
		switch {
		case task == "":
			v.Add(fmt.Sprintf("tasks[%d]", i), "task is required")
		case seen[key]:
			v.Add(fmt.Sprintf("tasks[%d]", i), "duplicate task")
		default:
			seen[key] = true
			cleaned = append(cleaned, task)
		}
	}
	if len(tasks) == 0 {
		v.Add("tasks", "at least one task is required")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.templateRepo.ReplaceDepartment(txCtx, department, cleaned)
	})
	if err != nil {
		s.logger.Error("Failed to replace clearance template", "error", err, "department", department)
		return nil, err
	}

	s.logger.Info("Clearance template replaced", "department", department, "tasks", len(cleaned))
	return &ClearanceTemplateView{Department: department, Tasks: cleaned}, nil
}

// clearanceLabels loads a department's clearance tasks, falling back to the
// default department. fallback reports whether the default was used.
func clearanceLabels(ctx context.Context, repo port.TemplateRepository, department string) ([]string, bool, error) {
	templates, err := repo.ListByDepartment(ctx, department)
	if err != nil {
		return nil, false, fmt.Errorf("load clearance template: %w", err)
	}

	fallback := false
	if len(templates) == 0 && department != entity.DefaultTemplateDepartment {
		fallback = true
		if templates, err = repo.ListByDepartment(ctx, entity.DefaultTemplateDepartment); err != nil {
			return nil, false, fmt.Errorf("load default clearance template: %w", err)
		}
	}

	labels := make([]string, 0, len(templates))
	for _, t := range templates {
		labels = append(labels, t.Task)
	}
	return labels, fallback, nil
}
