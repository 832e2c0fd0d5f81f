package delivery

import (
	"net/http"
	"strconv"

	"itam-backend/internal/campaign/usecase"
	"itam-backend/internal/employee/domain"

	"github.com/gin-gonic/gin"
)

// CampaignHandler handles campaign-related HTTP requests
type CampaignHandler struct {
	campaignUsecase  usecase.CampaignUsecase
	defaultBatchSize int
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaignUsecase usecase.CampaignUsecase, defaultBatchSize int) *CampaignHandler {
	return &CampaignHandler{
		campaignUsecase:  campaignUsecase,
		defaultBatchSize: defaultBatchSize,
	}
}

func (h *CampaignHandler) batchSize(c *gin.Context) int {
	size, err := strconv.Atoi(c.DefaultQuery("batchSize", ""))
	if err != nil || size <= 0 {
		return h.defaultBatchSize
	}
	return size
}

// SendEmails triggers a batch on the employee track
// POST /api/send-emails?batchSize=100
func (h *CampaignHandler) SendEmails(c *gin.Context) {
	h.sendBatch(c, domain.TrackEmployee)
}

// SendEmailsToManagers triggers a batch on the manager-CC track
// POST /api/send-emails-to-managers?batchSize=100
func (h *CampaignHandler) SendEmailsToManagers(c *gin.Context) {
	h.sendBatch(c, domain.TrackManager)
}

func (h *CampaignHandler) sendBatch(c *gin.Context, track domain.Track) {
	result, err := h.campaignUsecase.SendBatch(c.Request.Context(), track, h.batchSize(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetRemainingEmails returns the unsent count on the employee track
// GET /api/remaining-emails
func (h *CampaignHandler) GetRemainingEmails(c *gin.Context) {
	h.remaining(c, domain.TrackEmployee)
}

// GetRemainingManagerEmails returns the unsent count on the manager track
// GET /api/remaining-manager-emails
func (h *CampaignHandler) GetRemainingManagerEmails(c *gin.Context) {
	h.remaining(c, domain.TrackManager)
}

func (h *CampaignHandler) remaining(c *gin.Context, track domain.Track) {
	remaining, err := h.campaignUsecase.Remaining(track)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"remaining": remaining})
}

// ResetEmailFlags reopens the employee track
// POST /api/reset-email-status
func (h *CampaignHandler) ResetEmailFlags(c *gin.Context) {
	h.reset(c, domain.TrackEmployee, "Employee email statuses reset successfully!")
}

// ResetManagerEmailFlags reopens the manager track
// POST /api/reset-manager-email-status
func (h *CampaignHandler) ResetManagerEmailFlags(c *gin.Context) {
	h.reset(c, domain.TrackManager, "Manager email statuses reset successfully!")
}

func (h *CampaignHandler) reset(c *gin.Context, track domain.Track, message string) {
	if err := h.campaignUsecase.ResetFlags(track); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// GetMaxEmailTimes returns the latest send timestamp per track
// GET /api/max-email-times
func (h *CampaignHandler) GetMaxEmailTimes(c *gin.Context) {
	times, err := h.campaignUsecase.MaxTimes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, times)
}
