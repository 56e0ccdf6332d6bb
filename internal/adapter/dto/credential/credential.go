package credential

// SaveCredentialRequest replaces the stored API credential
type SaveCredentialRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}

// CredentialStatusResponse describes the stored credential without revealing it
type CredentialStatusResponse struct {
	Configured bool   `json:"configured"`
	Masked     string `json:"masked,omitempty"`
}
