package importer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/inkpost/inkpost/internal/blocks"
)

// HTMLImporter converts an HTML page into blocks: headings, paragraphs,
// lists, code, quotes, images, rules and tables. Chrome elements like
// nav and footer are skipped.
type HTMLImporter struct{}

func (p *HTMLImporter) Import(r io.Reader, filename string) (*Result, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var doc blocks.Document
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if b, handled := blockFromElement(n); handled {
				if b != nil {
					doc = append(doc, b)
				}
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}

	title := findTitle(root)
	if title == "" {
		title = firstHeaderText(doc)
	}
	if title == "" {
		title = titleFromFilename(filename)
	}

	return &Result{Title: title, Blocks: doc}, nil
}

// blockFromElement maps one content element to a block. The second
// return reports whether the element was consumed; consumed elements
// are not recursed into.
func blockFromElement(n *html.Node) (blocks.Block, bool) {
	if level := headingLevel(n.Data); level > 0 {
		text := textContent(n)
		if text == "" {
			return nil, true
		}
		return blocks.Header{Text: text, Level: level}, true
	}

	switch n.Data {
	case "p":
		text := textContent(n)
		if text == "" {
			return nil, true
		}
		return blocks.Paragraph{Text: text}, true
	case "ul", "ol":
		items := listItems(n)
		if len(items) == 0 {
			return nil, true
		}
		style := blocks.Unordered
		if n.Data == "ol" {
			style = blocks.Ordered
		}
		return blocks.List{Style: style, Items: items}, true
	case "pre":
		return blocks.Code{Code: strings.TrimRight(rawText(n), "\n")}, true
	case "blockquote":
		text := textContent(n)
		if text == "" {
			return nil, true
		}
		return blocks.Quote{Text: text}, true
	case "img":
		src := attr(n, "src")
		if src == "" {
			return nil, true
		}
		return blocks.Image{URL: src, Caption: attr(n, "alt")}, true
	case "hr":
		return blocks.Delimiter{}, true
	case "table":
		rows := tableRows(n)
		if len(rows) == 0 {
			return nil, true
		}
		return blocks.Table{Content: rows}, true
	}
	return nil, false
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// textContent flattens all text below a node, collapsing whitespace
// runs to single spaces.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

// rawText flattens text below a node without reflowing whitespace,
// which keeps code indentation intact.
func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimPrefix(buf.String(), "\n")
}

func listItems(n *html.Node) []string {
	var items []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			if text := textContent(c); text != "" {
				items = append(items, text)
			}
		}
	}
	return items
}

func tableRows(n *html.Node) [][]string {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, textContent(c))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return rows
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
