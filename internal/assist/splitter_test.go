package assist

import (
	"strings"
	"testing"
)

func TestSplitMarkdown_ShortBodyStaysWhole(t *testing.T) {
	body := "# Title\n\nA short paragraph.\n\nAnother one."
	segments := SplitMarkdown(body, 1000)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if !strings.Contains(segments[0], "A short paragraph.") {
		t.Errorf("segment lost content: %q", segments[0])
	}
}

func TestSplitMarkdown_PacksUpToBudget(t *testing.T) {
	para := strings.TrimSpace(strings.Repeat("word ", 60)) // ~80 tokens
	body := strings.Join([]string{para, para, para, para}, "\n\n")

	segments := SplitMarkdown(body, 180)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	for i, seg := range segments {
		if got := len(strings.Split(seg, "\n\n")); got != 2 {
			t.Errorf("segment %d: expected 2 paragraphs, got %d", i, got)
		}
	}
}

func TestSplitMarkdown_OverBudgetParagraphAlone(t *testing.T) {
	huge := strings.TrimSpace(strings.Repeat("word ", 500))
	body := "small one\n\n" + huge + "\n\nsmall two"

	segments := SplitMarkdown(body, 100)
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	if segments[1] != huge {
		t.Errorf("expected huge paragraph isolated, got %q", truncate(segments[1], 60))
	}
}

func TestSplitMarkdown_NeverSplitsCodeFence(t *testing.T) {
	fence := "```go\nfunc a() {}\n\nfunc b() {}\n```"
	body := "intro\n\n" + fence + "\n\noutro"

	segments := SplitMarkdown(body, 5)
	for _, seg := range segments {
		opens := strings.Count(seg, "```")
		if opens%2 != 0 {
			t.Errorf("segment has unbalanced fence markers: %q", seg)
		}
	}
	found := false
	for _, seg := range segments {
		if strings.Contains(seg, "func a() {}\n\nfunc b() {}") {
			found = true
		}
	}
	if !found {
		t.Error("fence content was split across segments")
	}
}

func TestSplitMarkdown_EmptyInput(t *testing.T) {
	if segments := SplitMarkdown("", 100); len(segments) != 0 {
		t.Errorf("expected no segments, got %d", len(segments))
	}
	if segments := SplitMarkdown("\n\n\n", 100); len(segments) != 0 {
		t.Errorf("expected no segments for blank input, got %d", len(segments))
	}
}

func TestEstimateTokens(t *testing.T) {
	if EstimateTokens("") != 0 {
		t.Error("expected 0 tokens for empty text")
	}
	if got := EstimateTokens("one"); got != 1 {
		t.Errorf("expected 1 token, got %d", got)
	}
	if got := EstimateTokens(strings.TrimSpace(strings.Repeat("word ", 100))); got != 133 {
		t.Errorf("expected 133 tokens for 100 words, got %d", got)
	}
}
