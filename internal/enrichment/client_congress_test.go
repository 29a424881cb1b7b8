package enrichment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"council/internal/proposal"
	dErrors "council/pkg/domain-errors"
)

func TestCongressClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bill/118/hr/42", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"bill": {
				"title": "An Act",
				"sponsors": [{"fullName": "Rep. Doe"}],
				"introducedDate": "2025-01-15",
				"latestAction": {"text": "Referred to committee"}
			}
		}`))
	}))
	defer server.Close()

	client := NewCongressClient(server.URL, "test-key")
	got, err := client.Fetch(context.Background(), proposal.BillRef{Congress: 118, Type: "HR", Number: 42})
	require.NoError(t, err)
	assert.Equal(t, BillMetadata{
		Title:          "An Act",
		Sponsor:        "Rep. Doe",
		IntroducedDate: "2025-01-15",
		LatestAction:   "Referred to committee",
	}, got)
}

func TestCongressClientFetchMissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bill": {"title": "An Act"}}`))
	}))
	defer server.Close()

	client := NewCongressClient(server.URL, "")
	got, err := client.Fetch(context.Background(), proposal.BillRef{Congress: 118, Type: "hr", Number: 42})
	require.NoError(t, err)
	assert.Equal(t, "An Act", got.Title)
	assert.Equal(t, "N/A", got.Sponsor)
	assert.Equal(t, "N/A", got.IntroducedDate)
	assert.Equal(t, "N/A", got.LatestAction)
}

func TestCongressClientFetchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewCongressClient(server.URL, "")
	_, err := client.Fetch(context.Background(), proposal.BillRef{Congress: 118, Type: "hr", Number: 42})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}
