// internal/workers/qualification/enrich-lead/models.go
package enrichlead

import "lead-qualification-workers/internal/qualify"

type Input struct {
	Lead qualify.Lead `json:"lead"`
}

type Output struct {
	Lead             qualify.EnrichedLead `json:"lead"`
	EnrichmentFailed bool                 `json:"enrichmentFailed"`
	FromCache        bool                 `json:"enrichmentFromCache,omitempty"`
}
