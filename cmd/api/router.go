package api

import (
	"net/http"

	"itam-backend/internal/auth/delivery"
	authUsecase "itam-backend/internal/auth/usecase"
	campaignDelivery "itam-backend/internal/campaign/delivery"
	employeeDelivery "itam-backend/internal/employee/delivery"
	"itam-backend/internal/importer"
	"itam-backend/pkg/token"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, issuer *token.Issuer, employeeHandler *employeeDelivery.EmployeeHandler, campaignHandler *campaignDelivery.CampaignHandler, uploadHandler *importer.UploadHandler) {
	authHandler := delivery.NewAuthHandler(authUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		// Recipient form routes, gated by the emailed token
		form := api.Group("")
		form.Use(delivery.FormTokenMiddleware(issuer))
		{
			form.GET("/form", employeeHandler.GetForm)
			form.GET("/employee-assets", employeeHandler.GetEmployeeAssets)
		}

		// Submission carries its token in the body
		api.POST("/submit-form", employeeHandler.SubmitForm)

		// Admin routes (protected)
		admin := api.Group("")
		admin.Use(delivery.AdminMiddleware(authUc))
		{
			admin.GET("/dashboard", employeeHandler.GetDashboard)
			admin.PUT("/employee/:id", employeeHandler.UpdateEmployee)
			admin.DELETE("/employee/:id", employeeHandler.DeleteEmployee)
			admin.DELETE("/delete-all", employeeHandler.DeleteAllEmployees)

			admin.POST("/bulk-upload", uploadHandler.BulkUpload)

			admin.POST("/send-emails", campaignHandler.SendEmails)
			admin.POST("/send-emails-to-managers", campaignHandler.SendEmailsToManagers)
			admin.GET("/remaining-emails", campaignHandler.GetRemainingEmails)
			admin.GET("/remaining-manager-emails", campaignHandler.GetRemainingManagerEmails)
			admin.POST("/reset-email-status", campaignHandler.ResetEmailFlags)
			admin.POST("/reset-manager-email-status", campaignHandler.ResetManagerEmailFlags)
			admin.GET("/max-email-times", campaignHandler.GetMaxEmailTimes)
		}
	}
}
