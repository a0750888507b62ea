package enrichment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-qualification-workers/internal/qualify"
)

func TestHTTPClientEnrich(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/enrich", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req enrichRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "jordan@acme.io", req.Email)

		size := 800
		corporate := true
		status := "employed"
		years := 7
		json.NewEncoder(w).Encode(enrichResponse{
			CompanySize:      &size,
			CorporateEmail:   &corporate,
			EmploymentStatus: &status,
			YearsInCity:      &years,
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", 5*time.Second)

	enriched, err := client.Enrich(context.Background(), qualify.Lead{
		Name:  "Jordan Reyes",
		Email: "jordan@acme.io",
	})
	require.NoError(t, err)

	require.NotNil(t, enriched.CompanySize)
	assert.Equal(t, 800, *enriched.CompanySize)
	require.NotNil(t, enriched.EmploymentStatus)
	assert.Equal(t, qualify.EmploymentEmployed, *enriched.EmploymentStatus)
	require.NotNil(t, enriched.YearsInCity)
	assert.Equal(t, 7, *enriched.YearsInCity)
}

func TestHTTPClientDoesNotOverrideStatedFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := "unemployed"
		years := 1
		json.NewEncoder(w).Encode(enrichResponse{
			EmploymentStatus: &status,
			YearsInCity:      &years,
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", 5*time.Second)

	stated := qualify.EmploymentSelfEmployed
	statedYears := 9
	enriched, err := client.Enrich(context.Background(), qualify.Lead{
		Email:            "sam@samco.dev",
		EmploymentStatus: &stated,
		YearsInCity:      &statedYears,
	})
	require.NoError(t, err)

	assert.Equal(t, qualify.EmploymentSelfEmployed, *enriched.EmploymentStatus)
	assert.Equal(t, 9, *enriched.YearsInCity)
}

func TestHTTPClientProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", 5*time.Second)

	_, err := client.Enrich(context.Background(), qualify.Lead{Email: "x@y.com"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHTTPClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", 20*time.Millisecond)

	_, err := client.Enrich(context.Background(), qualify.Lead{Email: "x@y.com"})
	assert.Error(t, err)
}

func TestHeuristicClient(t *testing.T) {
	client := NewHeuristicClient()

	tests := []struct {
		name            string
		email           string
		expectCorporate *bool
		expectEmployed  bool
	}{
		{name: "corporate domain", email: "pat@northwind.com", expectCorporate: boolPtr(true), expectEmployed: true},
		{name: "free mail provider", email: "pat@gmail.com", expectCorporate: boolPtr(false)},
		{name: "uppercase domain normalized", email: "pat@GMAIL.COM", expectCorporate: boolPtr(false)},
		{name: "no domain gives no signal", email: "not-an-email"},
		{name: "empty email gives no signal", email: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enriched, err := client.Enrich(context.Background(), qualify.Lead{Email: tt.email})
			require.NoError(t, err)

			if tt.expectCorporate == nil {
				assert.Nil(t, enriched.CorporateEmail)
			} else {
				require.NotNil(t, enriched.CorporateEmail)
				assert.Equal(t, *tt.expectCorporate, *enriched.CorporateEmail)
			}

			if tt.expectEmployed {
				require.NotNil(t, enriched.EmploymentStatus)
				assert.Equal(t, qualify.EmploymentEmployed, *enriched.EmploymentStatus)
			}
		})
	}
}

func TestHeuristicClientKeepsStatedEmployment(t *testing.T) {
	client := NewHeuristicClient()

	stated := qualify.EmploymentUnemployed
	enriched, err := client.Enrich(context.Background(), qualify.Lead{
		Email:            "casey@bigcorp.com",
		EmploymentStatus: &stated,
	})
	require.NoError(t, err)
	assert.Equal(t, qualify.EmploymentUnemployed, *enriched.EmploymentStatus)
}

func boolPtr(b bool) *bool { return &b }
