package provider

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/petraflow/wellscope/pkg/logger"
)

// Catalog is the provider configuration file (providers.yaml).
type Catalog struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig declares one data provider instance.
type ProviderConfig struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"` // mock / http
	BaseURL string `yaml:"base_url,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
	Wells   int    `yaml:"wells,omitempty"` // mock only
	Seed    int64  `yaml:"seed,omitempty"`  // mock only
}

// LoadCatalog parses the provider catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider catalog: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse provider catalog: %w", err)
	}

	return &catalog, nil
}

// Build instantiates all configured providers by name. Unknown types are
// logged and skipped; an empty catalog falls back to a single default mock
// provider so the service always has a data source.
func Build(catalog *Catalog, log logger.Logger) map[string]DataProvider {
	providers := make(map[string]DataProvider)

	if catalog != nil {
		for _, cfg := range catalog.Providers {
			switch cfg.Type {
			case "mock":
				providers[cfg.Name] = NewMockProvider(cfg)
			case "http":
				providers[cfg.Name] = NewHTTPProvider(cfg)
			default:
				log.Warn("Unknown provider type, skipping",
					logger.Field{Key: "name", Value: cfg.Name},
					logger.Field{Key: "type", Value: cfg.Type},
				)
			}
		}
	}

	if len(providers) == 0 {
		log.Warn("No providers configured, registering default mock provider")
		providers["mock"] = NewMockProvider(ProviderConfig{Name: "mock", Type: "mock", Wells: 5, Seed: 1})
	}

	return providers
}
