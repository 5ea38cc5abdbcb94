// Package youtube is a minimal YouTube Data API v3 client for highlight search.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pable/hoopstats/internal/model"
)

// DefaultBaseURL is the YouTube Data API v3 root.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// ErrNoAPIKey is returned by Search when the client has no API key.
var ErrNoAPIKey = errors.New("YouTube API key not configured")

// Client searches YouTube for videos.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client authenticated with apiKey. An empty baseURL
// selects DefaultBaseURL.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Search returns up to maxResults medium-length English videos matching query.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]model.Video, error) {
	if c == nil || c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	params := url.Values{
		"key":               {c.apiKey},
		"q":                 {query},
		"part":              {"snippet"},
		"type":              {"video"},
		"maxResults":        {strconv.Itoa(maxResults)},
		"videoDuration":     {"medium"},
		"relevanceLanguage": {"en"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("youtube: HTTP %d: %s", resp.StatusCode, snippet)
	}

	var result struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
				Thumbnails   struct {
					Medium struct {
						URL string `json:"url"`
					} `json:"medium"`
				} `json:"thumbnails"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("youtube: decode response: %w", err)
	}

	videos := make([]model.Video, 0, len(result.Items))
	for _, it := range result.Items {
		if it.ID.VideoID == "" {
			continue
		}
		videos = append(videos, model.Video{
			VideoID:   it.ID.VideoID,
			Title:     it.Snippet.Title,
			Thumbnail: it.Snippet.Thumbnails.Medium.URL,
			Channel:   it.Snippet.ChannelTitle,
			EmbedURL:  "https://www.youtube.com/embed/" + it.ID.VideoID,
		})
	}
	return videos, nil
}
