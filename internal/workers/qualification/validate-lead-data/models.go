// internal/workers/qualification/validate-lead-data/models.go
package validateleaddata

import "lead-qualification-workers/internal/qualify"

type Input struct {
	Lead map[string]interface{} `json:"lead"`
}

type Output struct {
	LeadValid        bool              `json:"leadValid"`
	Lead             qualify.Lead      `json:"lead"`
	ValidationErrors []ValidationError `json:"validationErrors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
