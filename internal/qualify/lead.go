// Package qualify implements the lead qualification engine: scoring,
// decision classification, and human-review escalation. The package is
// pure computation; it performs no I/O and never returns an error.
package qualify

import "strings"

// LeadSource is the acquisition channel a lead arrived through.
type LeadSource string

const (
	SourceReferral LeadSource = "referral"
	SourcePaidAd   LeadSource = "paid-ad"
	SourceOrganic  LeadSource = "organic"
	SourceUnknown  LeadSource = "unknown"
)

// ParseSource normalizes a raw channel string to a known LeadSource.
// Anything unrecognized maps to SourceUnknown.
func ParseSource(raw string) LeadSource {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	switch normalized {
	case "referral":
		return SourceReferral
	case "paid-ad", "paid", "ad", "ads":
		return SourcePaidAd
	case "organic", "web", "website":
		return SourceOrganic
	default:
		return SourceUnknown
	}
}

// EmploymentStatus describes the lead's work situation.
type EmploymentStatus string

const (
	EmploymentEmployed     EmploymentStatus = "employed"
	EmploymentSelfEmployed EmploymentStatus = "self-employed"
	EmploymentUnemployed   EmploymentStatus = "unemployed"
	EmploymentUnknown      EmploymentStatus = "unknown"
)

// ParseEmploymentStatus normalizes a raw status string.
func ParseEmploymentStatus(raw string) EmploymentStatus {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	switch normalized {
	case "employed", "full-time", "part-time":
		return EmploymentEmployed
	case "self-employed", "business-owner", "freelance":
		return EmploymentSelfEmployed
	case "unemployed", "retired", "student":
		return EmploymentUnemployed
	default:
		return EmploymentUnknown
	}
}

// Lead is the raw inbound record. Optional fields are pointers so that
// missing is distinguishable from a zero value. A Lead is immutable
// once received; scoring only reads it.
type Lead struct {
	ID      string `json:"leadId,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`

	// Budget is the stated budget as supplied, e.g. "450000" or
	// "$450,000". Nil when the lead did not state one.
	Budget *string `json:"budget,omitempty"`

	Source LeadSource `json:"source"`

	// ResponseMinutes is the time between first contact and the lead's
	// response. Nil when no response has been observed.
	ResponseMinutes *float64 `json:"responseTimeMinutes,omitempty"`

	YearsInCity      *int              `json:"yearsInCity,omitempty"`
	EmploymentStatus *EmploymentStatus `json:"employmentStatus,omitempty"`
}

// EnrichedLead is a Lead plus enrichment-derived fields. Any enrichment
// field may be absent; enrichment may also fill optional Lead fields
// (employment status, tenure) that the raw record lacked. Never mutated
// after creation.
type EnrichedLead struct {
	Lead

	CompanySize    *int    `json:"companySize,omitempty"`
	CorporateEmail *bool   `json:"corporateEmail,omitempty"`
	IncomeBand     *string `json:"incomeBand,omitempty"`

	// EnrichmentFailed is set by the enrichment worker when the adapter
	// returned nothing and the raw lead was passed through unchanged.
	EnrichmentFailed bool `json:"enrichmentFailed,omitempty"`
}
