// Package enrichment implements the enrichment adapter boundary: given
// a raw lead, return a supplemented record. Adapters may fail or return
// partial data; retry and timeout policy belongs to the caller.
package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	commonhttp "lead-qualification-workers/internal/common/http"
	"lead-qualification-workers/internal/qualify"
)

// Client is the single enrichment operation. The returned record may
// have any enrichment field absent; the qualification engine handles
// partial data. Callers must treat an error as "no data at all" and
// degrade to raw-lead scoring.
type Client interface {
	Enrich(ctx context.Context, lead qualify.Lead) (*qualify.EnrichedLead, error)
}

// HTTPClient enriches leads through a people/company lookup provider.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *commonhttp.Client
}

func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: commonhttp.NewClient(timeout),
	}
}

type enrichRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
}

type enrichResponse struct {
	CompanySize      *int    `json:"companySize"`
	CorporateEmail   *bool   `json:"corporateEmail"`
	IncomeBand       *string `json:"incomeBand"`
	EmploymentStatus *string `json:"employmentStatus"`
	YearsInCity      *int    `json:"yearsInCity"`
}

func (c *HTTPClient) Enrich(ctx context.Context, lead qualify.Lead) (*qualify.EnrichedLead, error) {
	url := fmt.Sprintf("%s/v1/enrich", c.baseURL)

	jsonData, err := json.Marshal(enrichRequest{
		Email:   lead.Email,
		Name:    lead.Name,
		Company: lead.Company,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal enrich request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("enrichment provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload enrichResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode enrich response: %w", err)
	}

	return merge(lead, payload), nil
}

// merge lays provider fields over the raw lead. Fields the lead already
// carries are kept; enrichment only fills gaps.
func merge(lead qualify.Lead, payload enrichResponse) *qualify.EnrichedLead {
	enriched := &qualify.EnrichedLead{Lead: lead}

	enriched.CompanySize = payload.CompanySize
	enriched.CorporateEmail = payload.CorporateEmail
	enriched.IncomeBand = payload.IncomeBand

	if enriched.EmploymentStatus == nil && payload.EmploymentStatus != nil {
		status := qualify.ParseEmploymentStatus(*payload.EmploymentStatus)
		if status != qualify.EmploymentUnknown {
			enriched.EmploymentStatus = &status
		}
	}
	if enriched.YearsInCity == nil && payload.YearsInCity != nil {
		enriched.YearsInCity = payload.YearsInCity
	}

	return enriched
}
