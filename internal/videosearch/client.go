package videosearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/aprendia/estadistica-backend/internal/model"
	"github.com/rs/zerolog"
)

// videoIDPattern extracts video IDs from the search results page markup.
var videoIDPattern = regexp.MustCompile(`"videoId":"([a-zA-Z0-9_-]{11})"`)

const (
	defaultBaseURL = "https://www.youtube.com"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0 Safari/537.36"
	foundLabel = "Video educativo encontrado"
)

// Client discovers candidate videos by scraping the public search page.
// There is no API key involved; results are best-effort.
type Client struct {
	// BaseURL is exported so tests can point the client at a fake server.
	BaseURL string

	http *http.Client
	log  zerolog.Logger
}

// NewClient creates a video discovery client.
func NewClient(timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "video_search").Logger(),
	}
}

// Search returns up to limit candidate videos for a free-text query. It
// never fails: zero matches yield a single "no results" sentinel entry and a
// transport failure yields a single error sentinel entry.
func (c *Client) Search(ctx context.Context, query string, limit int) []model.Video {
	searchURL := fmt.Sprintf("%s/results?search_query=%s", c.BaseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return errSentinel(err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("video search failed")
		return errSentinel(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errSentinel(err)
	}

	ids := dedupe(videoIDPattern.FindAllStringSubmatch(string(body), -1))
	if len(ids) == 0 {
		return []model.Video{{Titulo: "Sin resultados", URL: "No se encontraron videos."}}
	}

	if len(ids) > limit {
		ids = ids[:limit]
	}
	videos := make([]model.Video, 0, len(ids))
	for _, id := range ids {
		videos = append(videos, model.Video{
			Titulo: foundLabel,
			URL:    fmt.Sprintf("https://www.youtube.com/watch?v=%s", id),
		})
	}
	return videos
}

// dedupe keeps the first occurrence of each video ID, preserving page order.
func dedupe(matches [][]string) []string {
	seen := make(map[string]struct{}, len(matches))
	var ids []string
	for _, m := range matches {
		id := m[1]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func errSentinel(err error) []model.Video {
	return []model.Video{{Titulo: "Error", URL: err.Error()}}
}
