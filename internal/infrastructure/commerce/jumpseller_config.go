package commerce

import "errors"

// JumpSellerConfig holds configuration for the JumpSeller API integration.
type JumpSellerConfig struct {
	// Login is the API key (basic-auth user) from the JumpSeller admin panel.
	Login string
	// AuthToken is the API secret (basic-auth password).
	AuthToken string
	// APIBaseURL is the base URL for the JumpSeller API.
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout.
	TimeoutSeconds int
}

// JumpSellerAPIURL is the production API endpoint.
const JumpSellerAPIURL = "https://api.jumpseller.com/v1"

// Errors for JumpSeller configuration
var (
	ErrJumpSellerConfigMissingLogin     = errors.New("jumpseller: API login is required")
	ErrJumpSellerConfigMissingAuthToken = errors.New("jumpseller: API auth token is required")
)

// NewJumpSellerConfig creates a new JumpSeller configuration with defaults.
func NewJumpSellerConfig(login, authToken string) *JumpSellerConfig {
	return &JumpSellerConfig{
		Login:          login,
		AuthToken:      authToken,
		APIBaseURL:     JumpSellerAPIURL,
		TimeoutSeconds: 30,
	}
}

// Validate validates the JumpSeller configuration and fills defaults.
// Credentials are read once at adapter construction and never mutated
// per-request.
func (c *JumpSellerConfig) Validate() error {
	if c.Login == "" {
		return ErrJumpSellerConfigMissingLogin
	}
	if c.AuthToken == "" {
		return ErrJumpSellerConfigMissingAuthToken
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = JumpSellerAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
