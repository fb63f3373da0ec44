package commerce

import "errors"

// WeareCloudConfig holds configuration for the WeareCloud feed, reached
// through the intermediary scraping microservice.
type WeareCloudConfig struct {
	// BaseURL is the base URL of the scraping microservice.
	BaseURL string
	// APIKey is the static key sent in the X-API-Key header. Optional; the
	// intermediary runs unauthenticated in development.
	APIKey string
	// TimeoutSeconds is the HTTP request timeout.
	TimeoutSeconds int
}

// ErrWeareCloudConfigMissingBaseURL indicates the scraper base URL is not set.
var ErrWeareCloudConfigMissingBaseURL = errors.New("wearecloud: base URL is required")

// NewWeareCloudConfig creates a new WeareCloud configuration with defaults.
func NewWeareCloudConfig(baseURL, apiKey string) *WeareCloudConfig {
	return &WeareCloudConfig{
		BaseURL:        baseURL,
		APIKey:         apiKey,
		TimeoutSeconds: 30,
	}
}

// Validate validates the WeareCloud configuration and fills defaults.
func (c *WeareCloudConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrWeareCloudConfigMissingBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
