package assist

import (
	"errors"
	"fmt"
	"strings"
)

// Model output is applied directly to a draft, so obviously broken
// responses are rejected here rather than saved.

var refusalPrefixes = []string{
	"i can't",
	"i cannot",
	"i'm sorry",
	"i am sorry",
	"i won't",
	"as an ai",
}

// CheckOutput validates and normalizes one model response. It returns
// the cleaned text or an error describing why the response is unusable.
func CheckOutput(action Action, input, output string) (string, error) {
	out := strings.TrimSpace(output)
	if out == "" {
		return "", errors.New("empty response")
	}

	lower := strings.ToLower(out)
	for _, prefix := range refusalPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return "", fmt.Errorf("model refused: %s", truncate(out, 120))
		}
	}

	if action == ActionTitle {
		return checkTitle(out)
	}

	// A response several times the input length means the model went
	// off script.
	if len(out) > 8*len(input)+1024 {
		return "", fmt.Errorf("response too long: %d bytes for %d input", len(out), len(input))
	}
	if action == ActionShorten && len(out) > len(input) {
		return "", fmt.Errorf("shorten produced longer text: %d > %d bytes", len(out), len(input))
	}
	return out, nil
}

func checkTitle(out string) (string, error) {
	// Keep the first non-empty line; models sometimes add alternatives
	// below it.
	line := out
	if i := strings.IndexByte(out, '\n'); i >= 0 {
		line = out[:i]
	}
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "# ")
	line = strings.Trim(line, `"'`)
	line = strings.TrimSpace(line)

	if line == "" {
		return "", errors.New("empty title")
	}
	if len([]rune(line)) > 200 {
		return "", fmt.Errorf("title too long: %d characters", len([]rune(line)))
	}
	return line, nil
}
