package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/garyjia/backoffice-console/internal/application/service"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
)

// ListOptions filters a list call
type ListOptions struct {
	Search string
	Status string
	Limit  int
	Offset int
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Search != "" {
		v.Set("search", o.Search)
	}
	if o.Status != "" {
		v.Set("status", o.Status)
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		v.Set("offset", strconv.Itoa(o.Offset))
	}
	return v
}

// Exists is the answer to an existence check; Seq echoes the request's number
type Exists struct {
	Exists bool  `json:"exists"`
	Seq    int64 `json:"seq"`
}

// SaveOutcome is the result of a checklist save
type SaveOutcome struct {
	service.SaveResult
	Partial bool `json:"partial"`
}

// ListEmployees returns one page of employees
func (c *Client) ListEmployees(ctx context.Context, opts ListOptions) (*entity.Page[*entity.Employee], error) {
	var page entity.Page[*entity.Employee]
	err := c.doWithFallback(ctx, request{method: http.MethodGet, path: "/api/employees", query: opts.values()}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetEmployee fetches one employee
func (c *Client) GetEmployee(ctx context.Context, id int64) (*entity.Employee, error) {
	var employee entity.Employee
	err := c.doWithFallback(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/api/employees/%d", id)}, &employee)
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// CreateEmployee registers a new employee in onboarding
func (c *Client) CreateEmployee(ctx context.Context, employee *entity.Employee) (*entity.Employee, error) {
	var created entity.Employee
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/employees", body: employee}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CheckEmail asks whether another employee uses email. Pair seq with a
// Sequencer and drop answers that are no longer the latest.
func (c *Client) CheckEmail(ctx context.Context, email string, excludeID, seq int64) (*Exists, error) {
	q := url.Values{}
	q.Set("email", email)
	q.Set("seq", strconv.FormatInt(seq, 10))
	if excludeID > 0 {
		q.Set("exclude_id", strconv.FormatInt(excludeID, 10))
	}

	var res Exists
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/employees/check-email", query: q}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CheckName asks whether another employee has the same first and last name
func (c *Client) CheckName(ctx context.Context, firstName, lastName string, excludeID, seq int64) (*Exists, error) {
	q := url.Values{}
	q.Set("first_name", firstName)
	q.Set("last_name", lastName)
	q.Set("seq", strconv.FormatInt(seq, 10))
	if excludeID > 0 {
		q.Set("exclude_id", strconv.FormatInt(excludeID, 10))
	}

	var res Exists
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/employees/check-name", query: q}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SubmitExit records a termination or resignation. The call is abandoned
// after the termination timeout.
func (c *Client) SubmitExit(ctx context.Context, id int64, req service.ExitRequest) (*entity.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, c.terminationTimeout)
	defer cancel()

	var employee entity.Employee
	err := c.do(ctx, request{method: http.MethodPost, path: fmt.Sprintf("/api/employees/%d/exit", id), body: req}, &employee)
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// Rehire moves an exited employee back to onboarding; hireDate may be empty
func (c *Client) Rehire(ctx context.Context, id int64, hireDate string) (*entity.Employee, error) {
	body := map[string]string{"hire_date": hireDate}

	var employee entity.Employee
	err := c.do(ctx, request{method: http.MethodPost, path: fmt.Sprintf("/api/employees/%d/rehire", id), body: body}, &employee)
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// EmployeeHistory returns the status transitions of an employee
func (c *Client) EmployeeHistory(ctx context.Context, id int64) ([]*entity.EmployeeHistory, error) {
	var history []*entity.EmployeeHistory
	err := c.doWithFallback(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/api/employees/%d/history", id)}, &history)
	if err != nil {
		return nil, err
	}
	return history, nil
}

func checklistPath(kind string, employeeID int64, action string) string {
	p := fmt.Sprintf("/api/%s-checklist/%d", kind, employeeID)
	if action != "" {
		p += "/" + action
	}
	return p
}

// OpenChecklist returns the working copy of an employee's checklist
func (c *Client) OpenChecklist(ctx context.Context, kind string, employeeID int64) (*service.ChecklistView, error) {
	var view service.ChecklistView
	if err := c.do(ctx, request{method: http.MethodGet, path: checklistPath(kind, employeeID, "")}, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ToggleTask flips one task. When the task is already saved the unchanged
// view is returned together with a conflict error.
func (c *Client) ToggleTask(ctx context.Context, kind string, employeeID int64, task string) (*service.ChecklistView, error) {
	body := map[string]string{"task": task}
	return c.toggle(ctx, request{method: http.MethodPost, path: checklistPath(kind, employeeID, "toggle"), body: body})
}

// ToggleAll completes every pending task, or clears the unsaved ones when all are done
func (c *Client) ToggleAll(ctx context.Context, kind string, employeeID int64) (*service.ChecklistView, error) {
	return c.toggle(ctx, request{method: http.MethodPost, path: checklistPath(kind, employeeID, "toggle-all")})
}

func (c *Client) toggle(ctx context.Context, req request) (*service.ChecklistView, error) {
	var view service.ChecklistView
	err := c.do(ctx, req, &view)
	if err == nil {
		return &view, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict && len(apiErr.Data) > 0 {
		if json.Unmarshal(apiErr.Data, &view) == nil {
			return &view, err
		}
	}
	return nil, err
}

// SaveChecklist persists the working copy. On a partial save the outcome is
// returned together with an error for which IsPartial is true.
func (c *Client) SaveChecklist(ctx context.Context, kind string, employeeID int64, final bool) (*SaveOutcome, error) {
	body := map[string]bool{"final": final}

	var outcome SaveOutcome
	err := c.do(ctx, request{method: http.MethodPost, path: checklistPath(kind, employeeID, "save"), body: body}, &outcome)
	if err == nil {
		return &outcome, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusMultiStatus && len(apiErr.Data) > 0 {
		if json.Unmarshal(apiErr.Data, &outcome) == nil {
			return &outcome, err
		}
	}
	return nil, err
}

// DiscardChecklist drops unsaved changes
func (c *Client) DiscardChecklist(ctx context.Context, kind string, employeeID int64) error {
	return c.do(ctx, request{method: http.MethodPost, path: checklistPath(kind, employeeID, "discard")}, nil)
}

// ExportChecklist downloads the checklist workbook and its file name
func (c *Client) ExportChecklist(ctx context.Context, kind string, employeeID int64) ([]byte, string, error) {
	return c.download(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/api/checklists/%s/%d/export", kind, employeeID)})
}

// Dashboard returns the admin summary
func (c *Client) Dashboard(ctx context.Context) (*entity.Stats, error) {
	var stats entity.Stats
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/dashboard"}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
