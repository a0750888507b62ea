package enrichment

import (
	"context"
	"strings"

	"lead-qualification-workers/internal/qualify"
)

// freeMailProviders are domains that say nothing about the lead's
// employer.
var freeMailProviders = map[string]bool{
	"gmail.com":      true,
	"googlemail.com": true,
	"yahoo.com":      true,
	"hotmail.com":    true,
	"outlook.com":    true,
	"live.com":       true,
	"aol.com":        true,
	"icloud.com":     true,
	"proton.me":      true,
	"protonmail.com": true,
}

// HeuristicClient infers enrichment fields from the lead record itself,
// chiefly from the email domain. It is the default adapter when no
// provider is configured and it never fails.
type HeuristicClient struct{}

func NewHeuristicClient() *HeuristicClient {
	return &HeuristicClient{}
}

func (c *HeuristicClient) Enrich(_ context.Context, lead qualify.Lead) (*qualify.EnrichedLead, error) {
	enriched := &qualify.EnrichedLead{Lead: lead}

	domain := emailDomain(lead.Email)
	if domain == "" {
		return enriched, nil
	}

	corporate := !freeMailProviders[domain]
	enriched.CorporateEmail = &corporate

	if corporate {
		// A company-domain address suggests current employment and a
		// mid-size employer; stated lead fields always win.
		if enriched.EmploymentStatus == nil {
			status := qualify.EmploymentEmployed
			enriched.EmploymentStatus = &status
		}
		if enriched.CompanySize == nil {
			size := 200
			enriched.CompanySize = &size
		}
		if enriched.IncomeBand == nil {
			band := "middle"
			enriched.IncomeBand = &band
		}
	}

	return enriched, nil
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}
