package blocks

import (
	"regexp"
	"strings"
)

var (
	headingRe       = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	unorderedItemRe = regexp.MustCompile(`^[-*+]\s`)
	orderedItemRe   = regexp.MustCompile(`^\d+\.\s`)
	ruleRe          = regexp.MustCompile(`^[-*_]{3,}$`)
	imageRe         = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)]+)\)$`)

	unorderedMarkerRe = regexp.MustCompile(`^[-*+]\s+`)
	orderedMarkerRe   = regexp.MustCompile(`^\d+\.\s+`)
)

// FromMarkdown parses Markdown text into a flat block sequence. It never
// fails: anything it does not recognize degrades to paragraph blocks.
//
// The parser is a single forward pass over the input lines. Each iteration
// classifies the current trimmed line against a priority-ordered list of
// block starts (blank, heading, code fence, list item, blockquote,
// horizontal rule, image, paragraph fallback) and greedily consumes the run
// of lines belonging to that block. Pipe tables have no classification rule
// and fall through to paragraphs; a contiguous run of list items adopts the
// first line's marker style even when later lines switch families.
func FromMarkdown(src string) Document {
	lines := strings.Split(src, "\n")
	doc := Document{}

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		switch {
		case line == "":
			i++

		case headingRe.MatchString(line):
			m := headingRe.FindStringSubmatch(line)
			doc = append(doc, Header{Text: m[2], Level: len(m[1])})
			i++

		case strings.HasPrefix(line, "```"):
			language := strings.TrimSpace(strings.TrimPrefix(line, "```"))
			i++
			var code []string
			for i < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
				code = append(code, lines[i])
				i++
			}
			if i < len(lines) {
				i++ // closing fence
			}
			doc = append(doc, Code{Code: strings.Join(code, "\n"), Language: language})

		case isListItem(line):
			style := Unordered
			if orderedItemRe.MatchString(line) {
				style = Ordered
			}
			var items []string
			for i < len(lines) {
				l := strings.TrimSpace(lines[i])
				if !isListItem(l) {
					break
				}
				items = append(items, stripListMarker(l))
				i++
			}
			doc = append(doc, List{Style: style, Items: items})

		case strings.HasPrefix(line, ">"):
			var parts []string
			for i < len(lines) {
				l := strings.TrimSpace(lines[i])
				if !strings.HasPrefix(l, ">") {
					break
				}
				parts = append(parts, strings.TrimSpace(strings.TrimPrefix(l, ">")))
				i++
			}
			doc = append(doc, Quote{Text: strings.Join(parts, " ")})

		case ruleRe.MatchString(line):
			doc = append(doc, Delimiter{})
			i++

		case imageRe.MatchString(line):
			m := imageRe.FindStringSubmatch(line)
			doc = append(doc, Image{Caption: m[1], URL: m[2]})
			i++

		default:
			var parts []string
			for i < len(lines) {
				l := strings.TrimSpace(lines[i])
				if l == "" || startsBlock(l) {
					break
				}
				parts = append(parts, l)
				i++
			}
			doc = append(doc, Paragraph{Text: strings.Join(parts, " ")})
		}
	}

	return doc
}

func isListItem(line string) bool {
	return unorderedItemRe.MatchString(line) || orderedItemRe.MatchString(line)
}

func stripListMarker(line string) string {
	if unorderedItemRe.MatchString(line) {
		return strings.TrimSpace(unorderedMarkerRe.ReplaceAllString(line, ""))
	}
	return strings.TrimSpace(orderedMarkerRe.ReplaceAllString(line, ""))
}

// startsBlock reports whether a trimmed line opens any non-paragraph block.
// Paragraph runs stop at these lines so the next iteration can classify them.
func startsBlock(line string) bool {
	return headingRe.MatchString(line) ||
		strings.HasPrefix(line, "```") ||
		isListItem(line) ||
		strings.HasPrefix(line, ">") ||
		ruleRe.MatchString(line) ||
		imageRe.MatchString(line)
}
