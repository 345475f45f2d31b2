package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// BiotoolsClient reads tool counts from the bio.tools registry API.
type BiotoolsClient struct {
	httpClient *http.Client
	endpoint   string
}

func NewBiotoolsClient(endpoint string) *BiotoolsClient {
	return &BiotoolsClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   endpoint,
	}
}

// ToolCount returns the number of tools registered on bio.tools.
func (c *BiotoolsClient) ToolCount(ctx context.Context) (int64, error) {
	if strings.TrimSpace(c.endpoint) == "" {
		return 0, fmt.Errorf("bio.tools endpoint is not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return 0, fmt.Errorf("unexpected status %d from bio.tools: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var page struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return 0, fmt.Errorf("decode bio.tools response: %w", err)
	}
	return page.Count, nil
}
