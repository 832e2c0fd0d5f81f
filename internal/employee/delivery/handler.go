package delivery

import (
	"errors"
	"net/http"

	"itam-backend/internal/employee/domain"
	"itam-backend/internal/employee/dto"
	"itam-backend/internal/employee/usecase"
	"itam-backend/pkg/token"

	"github.com/gin-gonic/gin"
)

// EmployeeHandler handles dashboard and form HTTP requests
type EmployeeHandler struct {
	employeeUsecase usecase.EmployeeUsecase
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeUsecase usecase.EmployeeUsecase) *EmployeeHandler {
	return &EmployeeHandler{employeeUsecase: employeeUsecase}
}

// GetDashboard returns every record for the admin view
// GET /api/dashboard
func (h *EmployeeHandler) GetDashboard(c *gin.Context) {
	employees, err := h.employeeUsecase.Dashboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, employees)
}

// UpdateEmployee applies field updates to one record
// PUT /api/employee/:id
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employee, err := h.employeeUsecase.UpdateEmployee(c.Param("id"), fields)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found."})
		case errors.Is(err, domain.ErrUnknownField):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee updated successfully!", "employee": employee})
}

// DeleteEmployee removes one record
// DELETE /api/employee/:id
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.employeeUsecase.DeleteEmployee(c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully!"})
}

// DeleteAllEmployees wipes the record store
// DELETE /api/delete-all
func (h *EmployeeHandler) DeleteAllEmployees(c *gin.Context) {
	if err := h.employeeUsecase.DeleteAll(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All records have been deleted successfully!"})
}

// GetForm returns the minimal identity the form renders
// GET /api/form?token=...
func (h *EmployeeHandler) GetForm(c *gin.Context) {
	identity, err := h.employeeUsecase.FormIdentity(c.GetString("formToken"))
	if err != nil {
		h.formError(c, err)
		return
	}
	c.JSON(http.StatusOK, identity)
}

// GetEmployeeAssets returns the asset count and marks the form opened
// GET /api/employee-assets?token=...
func (h *EmployeeHandler) GetEmployeeAssets(c *gin.Context) {
	count, err := h.employeeUsecase.OpenForm(c.GetString("formToken"))
	if err != nil {
		h.formError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assetCount": count})
}

// SubmitForm applies the entered values and reconciles each asset
// POST /api/submit-form
func (h *EmployeeHandler) SubmitForm(c *gin.Context) {
	var req dto.SubmitFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.employeeUsecase.Submit(req.Token, req.FormDetails); err != nil {
		h.formError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Form submitted successfully.", "correct": true})
}

// formError maps form-workflow failures onto HTTP statuses.
func (h *EmployeeHandler) formError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, token.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token expired", "correct": false})
	case errors.Is(err, token.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "correct": false})
	case errors.Is(err, domain.ErrAlreadySubmitted):
		c.JSON(http.StatusForbidden, gin.H{"error": "Form already submitted.", "correct": false})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found.", "correct": false})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
