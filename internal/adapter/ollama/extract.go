package ollama

import "strings"

// candidateSource names the response field a text candidate came from.
type candidateSource string

const (
	sourceOutput   candidateSource = "output"
	sourceResponse candidateSource = "response"
	sourceContent  candidateSource = "content"
)

type textCandidate struct {
	source candidateSource
	text   string
}

// extractCandidates collects the textual fields of a generation response in
// priority order: output (array joined or string), then response, then
// content. The response schema is not under our control, so fields of the
// wrong shape are skipped rather than rejected.
func extractCandidates(result map[string]any) []textCandidate {
	var candidates []textCandidate

	if raw, ok := result["output"]; ok {
		switch output := raw.(type) {
		case []any:
			var sb strings.Builder
			for _, elem := range output {
				if s, ok := elem.(string); ok {
					sb.WriteString(s)
				}
			}
			candidates = append(candidates, textCandidate{source: sourceOutput, text: sb.String()})
		case string:
			candidates = append(candidates, textCandidate{source: sourceOutput, text: output})
		}
	}

	if s, ok := result["response"].(string); ok {
		candidates = append(candidates, textCandidate{source: sourceResponse, text: s})
	}

	if s, ok := result["content"].(string); ok {
		candidates = append(candidates, textCandidate{source: sourceContent, text: s})
	}

	return candidates
}

// selectText picks the first candidate with non-blank text.
func selectText(candidates []textCandidate) (textCandidate, bool) {
	for _, c := range candidates {
		if strings.TrimSpace(c.text) != "" {
			return c, true
		}
	}
	return textCandidate{}, false
}

// sanitize strips a wrapping markdown code fence from generated text. The
// opening marker line (including any language tag) and the closing marker are
// removed; surrounding whitespace is trimmed.
func sanitize(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 {
			cleaned = cleaned[idx+1:]
		} else {
			cleaned = ""
		}
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = cleaned[:strings.LastIndex(cleaned, "```")]
	}
	return strings.TrimSpace(cleaned)
}
