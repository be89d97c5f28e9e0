package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Layered response parsing: stripCodeFences and firstBalancedJSON recover a
// candidate JSON span from free-form model output, parseAnalysisJSON applies
// a strict parse with per-field defaults, and scrapeAnalysis falls back to
// regex key/value scraping. Each layer is independently testable and all of
// them return the same result shape.

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// firstBalancedJSON returns the first balanced {...} span in s, or "".
func firstBalancedJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if start != -1 {
				inString = true
			}
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start != -1 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

// parseAnalysisJSON attempts a strict JSON parse of the model output.
// Missing fields are individually defaulted rather than failing the parse.
func parseAnalysisJSON(raw string) (AnalysisResult, bool) {
	span := firstBalancedJSON(stripCodeFences(raw))
	if span == "" {
		return AnalysisResult{}, false
	}

	var parsed struct {
		Summary        string   `json:"summary"`
		Explanation    string   `json:"explanation"`
		KeyPoints      []string `json:"keyPoints"`
		Concepts       []string `json:"concepts"`
		SearchKeywords []string `json:"searchKeywords"`
	}
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return AnalysisResult{}, false
	}
	if parsed.Summary == "" && parsed.Explanation == "" && len(parsed.KeyPoints) == 0 {
		return AnalysisResult{}, false
	}

	return AnalysisResult{
		Success:        true,
		Summary:        defaultString(parsed.Summary, "Summary unavailable for this material."),
		Explanation:    defaultString(parsed.Explanation, "No detailed explanation was produced for this material."),
		KeyPoints:      defaultList(parsed.KeyPoints, "Review the extracted material for key details."),
		Concepts:       defaultList(parsed.Concepts, "General study material"),
		SearchKeywords: parsed.SearchKeywords,
	}, true
}

var (
	quotedString = `"((?:[^"\\]|\\.)*)"`
	scrapeValue  = map[string]*regexp.Regexp{}
	scrapeArray  = map[string]*regexp.Regexp{}
)

func init() {
	for _, field := range []string{"summary", "explanation"} {
		scrapeValue[field] = regexp.MustCompile(`"` + field + `"\s*:\s*` + quotedString)
	}
	for _, field := range []string{"keyPoints", "concepts", "searchKeywords"} {
		scrapeArray[field] = regexp.MustCompile(`"` + field + `"\s*:\s*\[([^\]]*)\]`)
	}
}

var quotedItem = regexp.MustCompile(quotedString)

// scrapeAnalysis recovers fields from output that is not valid JSON by
// matching quoted "field": "value" and "field": [...] patterns.
func scrapeAnalysis(raw string) (AnalysisResult, bool) {
	summary := scrapeStringField(raw, "summary")
	explanation := scrapeStringField(raw, "explanation")
	keyPoints := scrapeListField(raw, "keyPoints")
	concepts := scrapeListField(raw, "concepts")
	keywords := scrapeListField(raw, "searchKeywords")

	if summary == "" && explanation == "" && len(keyPoints) == 0 {
		return AnalysisResult{}, false
	}

	return AnalysisResult{
		Success:        true,
		Summary:        defaultString(summary, "Summary unavailable for this material."),
		Explanation:    defaultString(explanation, "No detailed explanation was produced for this material."),
		KeyPoints:      defaultList(keyPoints, "Review the extracted material for key details."),
		Concepts:       defaultList(concepts, "General study material"),
		SearchKeywords: keywords,
	}, true
}

func scrapeStringField(raw, field string) string {
	re, ok := scrapeValue[field]
	if !ok {
		return ""
	}
	m := re.FindStringSubmatch(raw)
	if len(m) < 2 {
		return ""
	}
	return unescapeJSONString(m[1])
}

func scrapeListField(raw, field string) []string {
	re, ok := scrapeArray[field]
	if !ok {
		return nil
	}
	m := re.FindStringSubmatch(raw)
	if len(m) < 2 {
		return nil
	}
	var out []string
	for _, item := range quotedItem.FindAllStringSubmatch(m[1], -1) {
		if v := strings.TrimSpace(unescapeJSONString(item[1])); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func unescapeJSONString(s string) string {
	var decoded string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &decoded); err != nil {
		return s
	}
	return decoded
}

// parseQuizJSON parses quiz output, tolerating code fences and surrounding
// prose. Questions with unknown types or empty text are dropped.
func parseQuizJSON(raw string) (QuizResult, bool) {
	span := firstBalancedJSON(stripCodeFences(raw))
	if span == "" {
		return QuizResult{}, false
	}

	var parsed struct {
		Questions []QuizQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return QuizResult{}, false
	}

	questions := make([]QuizQuestion, 0, len(parsed.Questions))
	for _, q := range parsed.Questions {
		if strings.TrimSpace(q.Question) == "" {
			continue
		}
		switch q.Type {
		case QuestionTypeMCQ, QuestionTypeShortAnswer, QuestionTypeFlashcard:
		default:
			q.Type = QuestionTypeShortAnswer
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return QuizResult{}, false
	}
	return QuizResult{Success: true, Questions: questions}, true
}

func defaultString(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func defaultList(list []string, placeholder string) []string {
	if len(list) == 0 {
		return []string{placeholder}
	}
	return list
}
