package videos

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"

	"studyaid-backend/internal/shared/telemetry"
)

// Video is the metadata kept for one search hit. Description feeds the
// educational filter but is excluded from persisted and returned payloads.
type Video struct {
	Title       string `json:"title"`
	VideoID     string `json:"videoId"`
	Channel     string `json:"channel"`
	Description string `json:"-"`
	ViewCount   uint64 `json:"viewCount"`
	PublishedAt string `json:"publishedAt"`
	Thumbnail   string `json:"thumbnail"`
	URL         string `json:"url"`
}

// SearchResult wraps an ordered list of videos. Success is false only when
// the provider failed and the list holds the synthetic placeholder.
type SearchResult struct {
	Success bool    `json:"success"`
	Videos  []Video `json:"videos"`
}

const educationalResultCap = 8

// Service wraps the YouTube Data API. A nil client means the provider is not
// configured; searches then return the placeholder result.
type Service struct {
	yt *youtube.Service
}

// New constructs the video search service. Client construction errors are
// absorbed; the service stays usable and serves placeholder results.
func New(ctx context.Context, apiKey string) *Service {
	if strings.TrimSpace(apiKey) == "" {
		return &Service{}
	}
	yt, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		telemetry.Warn("videos.client_unavailable", map[string]any{"error": err.Error()})
		return &Service{}
	}
	return &Service{yt: yt}
}

// NewUnconfigured returns a service that always serves placeholder results.
func NewUnconfigured() *Service {
	return &Service{}
}

// Configured reports whether a YouTube client is available.
func (s *Service) Configured() bool {
	return s.yt != nil
}

// Search issues a keyword search, joins in per-video statistics, and returns
// results sorted by view count descending. On provider error it returns a
// single synthetic placeholder linking to a generic search URL, with
// Success=false.
func (s *Service) Search(ctx context.Context, keywords []string, maxResults int) SearchResult {
	query := strings.Join(keywords, " ")
	if maxResults <= 0 {
		maxResults = 10
	}

	found, err := s.search(ctx, query, maxResults)
	if err != nil {
		telemetry.Warn("videos.search_fallback", map[string]any{"query": query, "error": err.Error()})
		return placeholderResult(query)
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].ViewCount > found[j].ViewCount
	})
	return SearchResult{Success: true, Videos: found}
}

func (s *Service) search(ctx context.Context, query string, maxResults int) ([]Video, error) {
	if s.yt == nil {
		return nil, fmt.Errorf("youtube client not configured")
	}

	searchResp, err := s.yt.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	ids := make([]string, 0, len(searchResp.Items))
	byID := make(map[string]Video, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		id := item.Id.VideoId
		ids = append(ids, id)
		byID[id] = Video{
			Title:       item.Snippet.Title,
			VideoID:     id,
			Channel:     item.Snippet.ChannelTitle,
			Description: item.Snippet.Description,
			PublishedAt: item.Snippet.PublishedAt,
			Thumbnail:   thumbnailURL(item.Snippet.Thumbnails),
			URL:         "https://www.youtube.com/watch?v=" + id,
		}
	}
	if len(ids) == 0 {
		return []Video{}, nil
	}

	statsResp, err := s.yt.Videos.List([]string{"statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube statistics: %w", err)
	}
	for _, item := range statsResp.Items {
		v, ok := byID[item.Id]
		if !ok || item.Statistics == nil {
			continue
		}
		v.ViewCount = item.Statistics.ViewCount
		byID[item.Id] = v
	}

	out := make([]Video, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out, nil
}

func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	switch {
	case t.Medium != nil:
		return t.Medium.Url
	case t.High != nil:
		return t.High.Url
	case t.Default != nil:
		return t.Default.Url
	}
	return ""
}

func placeholderResult(query string) SearchResult {
	searchURL := "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
	return SearchResult{
		Success: false,
		Videos: []Video{
			{
				Title:   "Search YouTube for: " + query,
				Channel: "YouTube",
				URL:     searchURL,
			},
		},
	}
}
