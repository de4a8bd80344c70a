// Package textkit provides the small text derivations the save path
// needs: reading time, URL slugs, excerpt truncation, and a plain-text
// rendering of Markdown for descriptions. Every function is total and
// safe for concurrent use.
package textkit

import (
	"regexp"
	"strings"
	"unicode"
)

const wordsPerMinute = 200

var (
	syntaxCharRe    = regexp.MustCompile("[#*`>\\[\\]()-]")
	slugStripRe     = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRunRe = regexp.MustCompile(`\s+`)
	hyphenRunRe     = regexp.MustCompile(`-{2,}`)
	imageSyntaxRe   = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkSyntaxRe    = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
	newlineRunRe    = regexp.MustCompile(`\n{2,}`)
)

// ReadingTime estimates reading minutes for a Markdown body. Syntax
// characters are stripped before counting words so heading markers and
// list bullets do not inflate the count. Always returns at least 1.
func ReadingTime(markdown string) int {
	words := len(strings.Fields(stripSyntax(markdown)))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Slug derives a URL path segment from a title: lowercase, word
// characters and hyphens only, whitespace runs become single hyphens.
// The result can be empty when the title holds no usable characters.
func Slug(title string) string {
	s := strings.ToLower(title)
	s = slugStripRe.ReplaceAllString(s, "")
	s = whitespaceRunRe.ReplaceAllString(s, "-")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Truncate shortens text to at most max runes, dropping trailing
// whitespace at the cut and appending an ellipsis. Text already within
// the limit is returned unchanged.
func Truncate(text string, max int) string {
	if max < 0 {
		max = 0
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	cut := strings.TrimRightFunc(string(runes[:max]), unicode.IsSpace)
	return cut + "..."
}

// PlainText renders Markdown down to prose for descriptions and search
// snippets. Images are dropped, links keep only their label, syntax
// characters are stripped, and blank-line runs collapse to a single
// newline.
func PlainText(markdown string) string {
	s := imageSyntaxRe.ReplaceAllString(markdown, "")
	s = linkSyntaxRe.ReplaceAllString(s, "$1")
	s = stripSyntax(s)
	s = newlineRunRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

func stripSyntax(s string) string {
	return syntaxCharRe.ReplaceAllString(s, "")
}
