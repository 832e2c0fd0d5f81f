package dto

// AssetSubmission carries the recipient-entered values for one asset.
type AssetSubmission struct {
	SerialNumber            string `json:"serialNumber"`
	ManufacturerNameEntered string `json:"manufacturerNameEntered"`
	ModelVersionEntered     string `json:"modelVersionEntered"`
	AssetConditionEntered   string `json:"assetConditionEntered"`
}

// SubmitFormRequest is the body of POST /api/submit-form.
type SubmitFormRequest struct {
	Token       string            `json:"token" binding:"required"`
	FormDetails []AssetSubmission `json:"formDetails" binding:"required"`
}

// FormIdentityResponse is the minimal identity returned to the form.
type FormIdentityResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
