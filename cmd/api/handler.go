package api

import (
	authUsecase "itam-backend/internal/auth/usecase"
	campaignDelivery "itam-backend/internal/campaign/delivery"
	campaignUsecasePkg "itam-backend/internal/campaign/usecase"
	employeeDelivery "itam-backend/internal/employee/delivery"
	employeeUsecasePkg "itam-backend/internal/employee/usecase"
	"itam-backend/internal/importer"
	"itam-backend/pkg/config"
	"itam-backend/pkg/token"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase     authUsecase.AuthUsecase
	issuer          *token.Issuer
	employeeHandler *employeeDelivery.EmployeeHandler
	campaignHandler *campaignDelivery.CampaignHandler
	uploadHandler   *importer.UploadHandler
}

func NewHandler(authUc authUsecase.AuthUsecase, employeeUc employeeUsecasePkg.EmployeeUsecase, campaignUc campaignUsecasePkg.CampaignUsecase, importerSvc *importer.Service, issuer *token.Issuer, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:     authUc,
		issuer:          issuer,
		employeeHandler: employeeDelivery.NewEmployeeHandler(employeeUc),
		campaignHandler: campaignDelivery.NewCampaignHandler(campaignUc, cfg.EmailBatchSize),
		uploadHandler:   importer.NewUploadHandler(importerSvc),
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.issuer, h.employeeHandler, h.campaignHandler, h.uploadHandler)

	return r.Run(addr)
}
