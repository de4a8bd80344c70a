// Package blocks defines the flat block model used for structured post
// content and converts it to and from Markdown. A Document is an ordered
// slice of Block values with no nesting; the admin editor exchanges it as
// JSON, the store persists it as Markdown text.
package blocks

// Style selects the marker family of a list block.
type Style string

const (
	Ordered   Style = "ordered"
	Unordered Style = "unordered"
)

// Block is one unit of a structured document. The set of implementations
// is closed: Header, Paragraph, List, Code, Quote, Delimiter, Image, Table,
// and Unknown for editor block types this package does not model.
type Block interface {
	// Type returns the wire discriminator ("header", "paragraph", ...).
	Type() string
}

// Document is an ordered block sequence representing one piece of content.
type Document []Block

// Header is a section heading with level 1-6.
type Header struct {
	Text  string
	Level int
}

// Paragraph is a run of plain text.
type Paragraph struct {
	Text string
}

// List is a flat sequence of items sharing one marker style.
type List struct {
	Style Style
	Items []string
}

// Code is a fenced code sample with an optional language tag.
type Code struct {
	Code     string
	Language string
}

// Quote is a quotation with an optional attribution caption.
type Quote struct {
	Text    string
	Caption string
}

// Delimiter is a thematic break between sections.
type Delimiter struct{}

// Image references an image by URL with an optional caption.
type Image struct {
	URL     string
	Caption string
}

// Table holds rows of cells. Rows need not be rectangular; the first row
// is treated as the header row when serializing.
type Table struct {
	Content [][]string
}

// Unknown carries a block type this package does not model. Text holds the
// payload's text field when one was present; everything else is dropped.
type Unknown struct {
	Name string
	Text string
}

func (Header) Type() string    { return "header" }
func (Paragraph) Type() string { return "paragraph" }
func (List) Type() string      { return "list" }
func (Code) Type() string      { return "code" }
func (Quote) Type() string     { return "quote" }
func (Delimiter) Type() string { return "delimiter" }
func (Image) Type() string     { return "image" }
func (Table) Type() string     { return "table" }

func (u Unknown) Type() string {
	if u.Name == "" {
		return "unknown"
	}
	return u.Name
}
