package videos

import (
	"context"
	"sort"
	"strings"

	"studyaid-backend/internal/shared/telemetry"
)

// Fixed vocabularies driving educational filtering and relevance scoring.
var (
	educationalTerms = []string{
		"tutorial", "lesson", "course", "learn", "education", "educational",
		"explained", "lecture", "study", "guide", "basics", "introduction",
		"academy",
	}

	titleBoostTerms = []string{"tutorial", "explained", "lesson", "course", "lecture"}

	academicMarkers = []string{
		"university", "academy", "school", "institute", "college",
		"khan", "mit", "stanford", "harvard",
	}
)

// SearchEducational biases the query toward tutorial/lesson content, filters
// out results with no educational signal, ranks by a relevance score, and
// keeps the top results. Provider errors degrade to the plain Search result.
func (s *Service) SearchEducational(ctx context.Context, keywords []string, subject string) SearchResult {
	query := strings.Join(keywords, " ")
	if strings.TrimSpace(subject) != "" {
		query += " " + subject
	}
	query += " tutorial lesson"

	found, err := s.search(ctx, query, 20)
	if err != nil {
		telemetry.Warn("videos.educational_fallback", map[string]any{"query": query, "error": err.Error()})
		return s.Search(ctx, keywords, 10)
	}

	type scored struct {
		video Video
		score float64
	}
	ranked := make([]scored, 0, len(found))
	for _, v := range found {
		if !looksEducational(v) {
			continue
		}
		ranked = append(ranked, scored{video: v, score: relevanceScore(v)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > educationalResultCap {
		ranked = ranked[:educationalResultCap]
	}

	out := make([]Video, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.video)
	}
	return SearchResult{Success: true, Videos: out}
}

// looksEducational reports whether any fixed educational term appears in the
// title, channel name, or description.
func looksEducational(v Video) bool {
	haystack := strings.ToLower(v.Title + " " + v.Channel + " " + v.Description)
	for _, term := range educationalTerms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

// relevanceScore = min(viewCount/10000, 100) + 20 per matched title boost
// term + 30 if the channel carries an academic-institution marker.
func relevanceScore(v Video) float64 {
	score := float64(v.ViewCount) / 10000
	if score > 100 {
		score = 100
	}

	title := strings.ToLower(v.Title)
	for _, term := range titleBoostTerms {
		if strings.Contains(title, term) {
			score += 20
		}
	}

	channel := strings.ToLower(v.Channel)
	for _, marker := range academicMarkers {
		if strings.Contains(channel, marker) {
			score += 30
			break
		}
	}
	return score
}
