package http

import (
	"github.com/gin-gonic/gin"

	"github.com/garyjia/backoffice-console/internal/application/service"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
)

// ExistsResponse answers an existence check. Seq echoes the caller's
// request sequence number so it can drop stale answers.
type ExistsResponse struct {
	Exists bool  `json:"exists"`
	Seq    int64 `json:"seq"`
}

// CheckEmailRequest represents query parameters of GET /api/employees/check-email
type CheckEmailRequest struct {
	Email     string `form:"email" binding:"required"`
	ExcludeID int64  `form:"exclude_id"`
	Seq       int64  `form:"seq"`
}

// CheckNameRequest represents query parameters of GET /api/employees/check-name
type CheckNameRequest struct {
	FirstName string `form:"first_name" binding:"required"`
	LastName  string `form:"last_name" binding:"required"`
	ExcludeID int64  `form:"exclude_id"`
	Seq       int64  `form:"seq"`
}

// RehireRequest is the body of POST /api/employees/:id/rehire
type RehireRequest struct {
	HireDate string `json:"hire_date"`
}

// ListEmployees handles GET /api/employees
func (h *Handlers) ListEmployees(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}

	page, err := h.services.Employees.List(c.Request.Context(), q, c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, page)
}

// GetEmployee handles GET /api/employees/:id
func (h *Handlers) GetEmployee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	employee, err := h.services.Employees.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, employee)
}

// CreateEmployee handles POST /api/employees
func (h *Handlers) CreateEmployee(c *gin.Context) {
	var employee entity.Employee
	if !bindJSON(c, &employee) {
		return
	}

	created, err := h.services.Employees.Create(c.Request.Context(), &employee)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, created)
}

// UpdateEmployee handles PUT /api/employees/:id
func (h *Handlers) UpdateEmployee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var employee entity.Employee
	if !bindJSON(c, &employee) {
		return
	}

	updated, err := h.services.Employees.Update(c.Request.Context(), id, &employee)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, updated)
}

// DeleteEmployee handles DELETE /api/employees/:id
func (h *Handlers) DeleteEmployee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Employees.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	respondMessage(c, "employee deleted")
}

// CheckEmail handles GET /api/employees/check-email
func (h *Handlers) CheckEmail(c *gin.Context) {
	var req CheckEmailRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "email", "email is required")
		return
	}

	exists, err := h.services.Employees.CheckEmail(c.Request.Context(), req.Email, req.ExcludeID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, ExistsResponse{Exists: exists, Seq: req.Seq})
}

// CheckName handles GET /api/employees/check-name
func (h *Handlers) CheckName(c *gin.Context) {
	var req CheckNameRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "name", "first_name and last_name are required")
		return
	}

	exists, err := h.services.Employees.CheckName(c.Request.Context(), req.FirstName, req.LastName, req.ExcludeID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, ExistsResponse{Exists: exists, Seq: req.Seq})
}

// SubmitExit handles POST /api/employees/:id/exit
func (h *Handlers) SubmitExit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.ExitRequest
	if !bindJSON(c, &req) {
		return
	}

	employee, err := h.services.Employees.SubmitExit(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, employee)
}

// RehireEmployee handles POST /api/employees/:id/rehire
func (h *Handlers) RehireEmployee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RehireRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	employee, err := h.services.Employees.Rehire(c.Request.Context(), id, req.HireDate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, employee)
}

// EmployeeHistory handles GET /api/employees/:id/history
func (h *Handlers) EmployeeHistory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	history, err := h.services.Employees.History(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, history)
}
