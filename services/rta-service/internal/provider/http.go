package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/petraflow/wellscope/services/rta-service/internal/models"
)

// HTTPProvider fetches well data from a remote JSON API:
// GET {base}/wells, GET {base}/wells/{id}/production,
// GET {base}/wells/{id}/properties.
type HTTPProvider struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPProvider(cfg ProviderConfig) *HTTPProvider {
	return &HTTPProvider{
		name:    cfg.Name,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (p *HTTPProvider) Name() string {
	return p.name
}

func (p *HTTPProvider) ListWells(ctx context.Context) ([]models.WellSummary, error) {
	var wells []models.WellSummary
	if err := p.getJSON(ctx, "/wells", &wells); err != nil {
		return nil, err
	}
	return wells, nil
}

func (p *HTTPProvider) GetProductionSeries(ctx context.Context, wellID string) (*models.ProductionSeries, error) {
	var series models.ProductionSeries
	if err := p.getJSON(ctx, "/wells/"+wellID+"/production", &series); err != nil {
		return nil, err
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("provider %s returned malformed series: %w", p.name, err)
	}
	return &series, nil
}

func (p *HTTPProvider) GetWellProperties(ctx context.Context, wellID string) (*models.WellStaticProperties, error) {
	var props models.WellStaticProperties
	if err := p.getJSON(ctx, "/wells/"+wellID+"/properties", &props); err != nil {
		return nil, err
	}
	return &props, nil
}

func (p *HTTPProvider) getJSON(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("provider %s request failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.ErrWellNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider %s returned status %d for %s", p.name, resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("provider %s returned invalid JSON: %w", p.name, err)
	}
	return nil
}
