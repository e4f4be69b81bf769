package app

import (
	"fmt"

	"gitclerk/internal/config"
	"gitclerk/internal/scm"
)

// ProviderFactory creates hosting providers from configuration.
type ProviderFactory struct{}

// NewProviderFactory creates a new provider factory instance.
func NewProviderFactory() *ProviderFactory {
	return &ProviderFactory{}
}

// GetProvider returns the provider named by the configuration.
func (f *ProviderFactory) GetProvider(cfg *config.SCM) (scm.Provider, error) {
	switch cfg.Provider {
	case "gitlab":
		return scm.NewGitLabProvider(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported SCM provider: %s", cfg.Provider)
	}
}
