package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"council/internal/proposal"
	dErrors "council/pkg/domain-errors"
)

const defaultCongressBaseURL = "https://api.congress.gov/v3"

// CongressClient reads bill metadata from the congress.gov v3 API.
type CongressClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type CongressOption func(c *CongressClient)

func WithHTTPClient(client *http.Client) CongressOption {
	return func(c *CongressClient) {
		c.httpClient = client
	}
}

// NewCongressClient constructs a client. An empty baseURL selects the public
// congress.gov endpoint.
func NewCongressClient(baseURL, apiKey string, opts ...CongressOption) *CongressClient {
	if baseURL == "" {
		baseURL = defaultCongressBaseURL
	}
	c := &CongressClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// billEnvelope mirrors the nested response shape of GET /bill/{congress}/{type}/{number}.
type billEnvelope struct {
	Bill struct {
		Title    string `json:"title"`
		Sponsors []struct {
			FullName string `json:"fullName"`
		} `json:"sponsors"`
		IntroducedDate string `json:"introducedDate"`
		LatestAction   struct {
			Text string `json:"text"`
		} `json:"latestAction"`
	} `json:"bill"`
}

func (c *CongressClient) Fetch(ctx context.Context, ref proposal.BillRef) (BillMetadata, error) {
	url := fmt.Sprintf("%s/bill/%d/%s/%d", c.baseURL, ref.Congress, strings.ToLower(ref.Type), ref.Number)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return BillMetadata{}, dErrors.Wrap(err, dErrors.CodeInternal, "build bill request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return BillMetadata{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "fetch bill")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return BillMetadata{}, dErrors.Newf(dErrors.CodeUnavailable, "bill lookup returned status %d", resp.StatusCode)
	}

	var envelope billEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return BillMetadata{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "decode bill response")
	}

	metadata := BillMetadata{
		Title:          envelope.Bill.Title,
		IntroducedDate: envelope.Bill.IntroducedDate,
		LatestAction:   envelope.Bill.LatestAction.Text,
	}
	if len(envelope.Bill.Sponsors) > 0 {
		metadata.Sponsor = envelope.Bill.Sponsors[0].FullName
	}
	return metadata.normalize(), nil
}
