package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/hoopstats/internal/model"
)

const searchResponse = `{
  "items": [
    {"id": {"kind": "youtube#video", "videoId": "abc123"},
     "snippet": {"title": "Jokic Highlights", "channelTitle": "NBA",
                 "thumbnails": {"medium": {"url": "https://i.ytimg.com/vi/abc123/mqdefault.jpg"}}}},
    {"id": {"kind": "youtube#channel"}, "snippet": {"title": "skip me"}}
  ]
}`

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "k", q.Get("key"))
		assert.Equal(t, "Nikola Jokic highlights 2025", q.Get("q"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "4", q.Get("maxResults"))
		assert.Equal(t, "medium", q.Get("videoDuration"))
		assert.Equal(t, "en", q.Get("relevanceLanguage"))
		fmt.Fprint(w, searchResponse)
	}))
	defer srv.Close()

	videos, err := NewClient("k", srv.URL+"/").Search(context.Background(), "Nikola Jokic highlights 2025", 4)
	require.NoError(t, err)
	assert.Equal(t, []model.Video{{
		VideoID:   "abc123",
		Title:     "Jokic Highlights",
		Thumbnail: "https://i.ytimg.com/vi/abc123/mqdefault.jpg",
		Channel:   "NBA",
		EmbedURL:  "https://www.youtube.com/embed/abc123",
	}}, videos)
}

func TestSearchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient("k", srv.URL).Search(context.Background(), "x", 4)
	assert.ErrorContains(t, err, "HTTP 403")

	_, err = NewClient("", srv.URL).Search(context.Background(), "x", 4)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
