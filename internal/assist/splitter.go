package assist

import "strings"

// defaultSegmentTokens is the per-request budget for long bodies.
const defaultSegmentTokens = 1500

// EstimateTokens gives a rough token count using a words-based
// heuristic. Exact tokenization is not required for segmenting.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	// Roughly 1.33 tokens per English word.
	tokens := int(float64(len(strings.Fields(text))) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// SplitMarkdown splits a Markdown body into segments that each fit
// the token budget. Segments break at blank lines, never inside a
// fenced code region, so every segment stays valid Markdown. A single
// over-budget paragraph becomes its own segment rather than being cut.
func SplitMarkdown(markdown string, maxTokens int) []string {
	if maxTokens <= 0 {
		maxTokens = defaultSegmentTokens
	}

	paragraphs := splitParagraphs(markdown)
	if len(paragraphs) == 0 {
		return nil
	}

	var segments []string
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) > 0 {
			segments = append(segments, strings.Join(current, "\n\n"))
			current = nil
			currentTokens = 0
		}
	}

	for _, para := range paragraphs {
		tokens := EstimateTokens(para)
		if currentTokens+tokens > maxTokens && len(current) > 0 {
			flush()
		}
		current = append(current, para)
		currentTokens += tokens
	}
	flush()

	return segments
}

// splitParagraphs cuts Markdown at blank lines while treating a fenced
// code region as a single unbreakable paragraph.
func splitParagraphs(markdown string) []string {
	var paragraphs []string
	var current []string
	inFence := false

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			current = append(current, line)
			continue
		}
		if trimmed == "" && !inFence {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return paragraphs
}
