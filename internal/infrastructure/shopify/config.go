package shopify

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultAPIVersion is the Storefront API version used when none is configured
	DefaultAPIVersion = "2025-01"
	// DefaultPageSize is the number of products fetched for the catalog
	DefaultPageSize = 50
	// MaxPageSize is the largest page the Storefront API accepts
	MaxPageSize = 250
	// defaultTimeoutSeconds bounds every request to the Storefront API
	defaultTimeoutSeconds = 10
	// maxResponseSize caps the body read from the Storefront API (10MB)
	maxResponseSize = 10 * 1024 * 1024
)

// Errors for Shopify configuration
var (
	ErrConfigMissingDomain = errors.New("shopify: store domain is required")
	ErrConfigMissingToken  = errors.New("shopify: storefront access token is required")
)

// Config holds configuration for the Shopify Storefront API
type Config struct {
	// StoreDomain is the shop's myshopify.com domain
	StoreDomain string
	// AccessToken is the public Storefront API access token
	AccessToken string
	// APIVersion is the dated API version, e.g. 2025-01
	APIVersion string
	// Endpoint overrides the URL derived from StoreDomain and APIVersion
	Endpoint string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// MaxResponseBytes caps the response body size
	MaxResponseBytes int64
}

// NewConfig creates a Shopify configuration with defaults
func NewConfig(storeDomain, accessToken string) *Config {
	return &Config{
		StoreDomain:    storeDomain,
		AccessToken:    accessToken,
		APIVersion:     DefaultAPIVersion,
		TimeoutSeconds: defaultTimeoutSeconds,
	}
}

// Validate validates the configuration and fills defaults
func (c *Config) Validate() error {
	if c.StoreDomain == "" && c.Endpoint == "" {
		return ErrConfigMissingDomain
	}
	if c.AccessToken == "" {
		return ErrConfigMissingToken
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = maxResponseSize
	}
	return nil
}

// GraphQLURL returns the Storefront GraphQL endpoint
func (c *Config) GraphQLURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	domain := strings.TrimSuffix(strings.TrimPrefix(c.StoreDomain, "https://"), "/")
	return fmt.Sprintf("https://%s/api/%s/graphql.json", domain, c.APIVersion)
}
