package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	commonhttp "lead-qualification-workers/internal/common/http"
)

type Client struct {
	oauthToken string
	baseURL    string
	httpClient *commonhttp.Client
}

// LeadRecord is the CRM representation of a qualified lead.
type LeadRecord struct {
	ID               string `json:"id,omitempty"`
	Email            string `json:"Email"`
	FullName         string `json:"Full_Name"`
	Company          string `json:"Company,omitempty"`
	Source           string `json:"Lead_Source,omitempty"`
	Status           string `json:"Lead_Status,omitempty"`
	Score            int    `json:"Qualification_Score,omitempty"`
	Confidence       string `json:"Qualification_Confidence,omitempty"`
	NeedsHumanReview bool   `json:"Needs_Human_Review,omitempty"`
}

type upsertResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

func NewClient(baseURL, oauthToken string, timeout time.Duration) *Client {
	return &Client{
		oauthToken: oauthToken,
		baseURL:    baseURL,
		httpClient: commonhttp.NewClient(timeout),
	}
}

func (c *Client) CreateLead(ctx context.Context, lead *LeadRecord) (string, error) {
	endpoint := fmt.Sprintf("%s/Leads", c.baseURL)

	payload := map[string]interface{}{
		"data": []LeadRecord{*lead},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.oauthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("rate limited by CRM (status %d)", resp.StatusCode)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("CRM rejected credentials (status %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to create lead (status %d): %s", resp.StatusCode, string(body))
	}

	var createResp upsertResponse
	if err := json.Unmarshal(body, &createResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(createResp.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}

	if createResp.Data[0].Status != "success" {
		return "", fmt.Errorf("lead creation failed: %s", createResp.Data[0].Message)
	}

	return createResp.Data[0].Details.ID, nil
}

func (c *Client) UpdateLead(ctx context.Context, leadID string, lead *LeadRecord) error {
	endpoint := fmt.Sprintf("%s/Leads/%s", c.baseURL, leadID)

	payload := map[string]interface{}{
		"data": []LeadRecord{*lead},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.oauthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to update lead (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

// SearchLeads looks up existing CRM leads by email so sync can upsert
// instead of creating duplicates.
func (c *Client) SearchLeads(ctx context.Context, email string) ([]LeadRecord, error) {
	endpoint := fmt.Sprintf("%s/Leads/search?email=%s", c.baseURL, url.QueryEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.oauthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to search leads (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []LeadRecord `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Data, nil
}
