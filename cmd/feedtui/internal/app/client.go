package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"rescuefeed/cmd/feedtui/internal/feedlist"
)

// PageFetcher retrieves one page of the case listing.
type PageFetcher interface {
	FetchPage(cursor string, limit int) (feedlist.Page, error)
}

// APIClient fetches pages from the marketplace HTTP API.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient creates a client for the given API base URL.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type casePayload struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Status         string `json:"status"`
	LifecycleStage string `json:"lifecycle_stage"`
	Fundraising    struct {
		Raised   int64  `json:"raised"`
		Goal     int64  `json:"goal"`
		Currency string `json:"currency"`
	} `json:"fundraising"`
	CreatedAt time.Time `json:"created_at"`
}

type listPayload struct {
	Items      []casePayload `json:"items"`
	HasMore    bool          `json:"has_more"`
	NextCursor string        `json:"next_cursor"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FetchPage calls GET /v1/cases.
func (c *APIClient) FetchPage(cursor string, limit int) (feedlist.Page, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	resp, err := c.http.Get(c.baseURL + "/v1/cases?" + q.Encode())
	if err != nil {
		return feedlist.Page{}, err
	}
	defer resp.Body.Close()

	var payload listPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return feedlist.Page{}, fmt.Errorf("decode page: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if payload.Error != nil {
			return feedlist.Page{}, fmt.Errorf("%s: %s", payload.Error.Code, payload.Error.Message)
		}
		return feedlist.Page{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	page := feedlist.Page{HasMore: payload.HasMore, NextCursor: payload.NextCursor}
	for _, item := range payload.Items {
		page.Items = append(page.Items, feedlist.Item{
			ID:        item.ID,
			Title:     item.Title,
			Status:    item.Status,
			Stage:     item.LifecycleStage,
			Raised:    item.Fundraising.Raised,
			Goal:      item.Fundraising.Goal,
			Currency:  item.Fundraising.Currency,
			CreatedAt: item.CreatedAt,
		})
	}
	return page, nil
}
