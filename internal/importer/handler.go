package importer

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadHandler handles the spreadsheet upload endpoint
type UploadHandler struct {
	service *Service
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(service *Service) *UploadHandler {
	return &UploadHandler{service: service}
}

// BulkUpload accepts a CSV file and merges it into the record store
// POST /api/bulk-upload
func (h *UploadHandler) BulkUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded."})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	result, err := h.service.Import(file)
	if err != nil {
		var validationErr *ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Validation failed. No records were imported.",
				"rowErrors": validationErr.RowErrors,
			})
		case errors.Is(err, ErrEmptyFile):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Uploaded file contains no data rows."})
		case errors.Is(err, ErrMissingColumn), errors.Is(err, ErrInvalidCSV):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	status := http.StatusOK
	if len(result.Failures) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, gin.H{
		"message":          "Bulk upload processed.",
		"employeesCreated": result.EmployeesCreated,
		"employeesUpdated": result.EmployeesUpdated,
		"assetsAdded":      result.AssetsAdded,
		"failures":         result.Failures,
	})
}
