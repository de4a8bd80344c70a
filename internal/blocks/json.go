package blocks

import (
	"encoding/json"
	"fmt"
)

// envelope is the wire form of a single block: a type tag plus a
// type-specific data object.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// payload is the union of every known data shape. Decoding through a
// single struct keeps the codec tolerant of extra fields sent by
// editor frontends.
type payload struct {
	Text     string     `json:"text"`
	Level    int        `json:"level"`
	Style    Style      `json:"style"`
	Items    []string   `json:"items"`
	Code     string     `json:"code"`
	Language string     `json:"language"`
	Caption  string     `json:"caption"`
	URL      string     `json:"url"`
	Content  [][]string `json:"content"`
}

// MarshalJSON renders the document as an array of typed envelopes.
func (d Document) MarshalJSON() ([]byte, error) {
	envs := make([]envelope, 0, len(d))
	for _, b := range d {
		data, err := json.Marshal(blockData(b))
		if err != nil {
			return nil, fmt.Errorf("marshal %s block: %w", b.Type(), err)
		}
		envs = append(envs, envelope{Type: b.Type(), Data: data})
	}
	return json.Marshal(envs)
}

// UnmarshalJSON decodes an envelope array back into typed blocks.
// Envelope types without a known shape are kept as Unknown so a
// save/load cycle never silently discards content.
func (d *Document) UnmarshalJSON(raw []byte) error {
	var envs []envelope
	if err := json.Unmarshal(raw, &envs); err != nil {
		return fmt.Errorf("decode blocks: %w", err)
	}

	doc := make(Document, 0, len(envs))
	for i, env := range envs {
		var p payload
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &p); err != nil {
				return fmt.Errorf("decode %s block %d: %w", env.Type, i, err)
			}
		}
		doc = append(doc, blockFromPayload(env.Type, p))
	}
	*d = doc
	return nil
}

func blockFromPayload(typ string, p payload) Block {
	switch typ {
	case "header":
		return Header{Text: p.Text, Level: p.Level}
	case "paragraph":
		return Paragraph{Text: p.Text}
	case "list":
		items := p.Items
		if items == nil {
			items = []string{}
		}
		return List{Style: p.Style, Items: items}
	case "code":
		return Code{Code: p.Code, Language: p.Language}
	case "quote":
		return Quote{Text: p.Text, Caption: p.Caption}
	case "delimiter":
		return Delimiter{}
	case "image":
		return Image{URL: p.URL, Caption: p.Caption}
	case "table":
		content := p.Content
		if content == nil {
			content = [][]string{}
		}
		return Table{Content: content}
	default:
		return Unknown{Name: typ, Text: p.Text}
	}
}

// blockData builds the data object for one block. Slices are
// normalized to empty rather than null so frontends can iterate
// without nil checks.
func blockData(b Block) any {
	switch b := b.(type) {
	case Header:
		return struct {
			Text  string `json:"text"`
			Level int    `json:"level"`
		}{b.Text, b.Level}
	case Paragraph:
		return struct {
			Text string `json:"text"`
		}{b.Text}
	case List:
		items := b.Items
		if items == nil {
			items = []string{}
		}
		return struct {
			Style Style    `json:"style"`
			Items []string `json:"items"`
		}{b.Style, items}
	case Code:
		return struct {
			Code     string `json:"code"`
			Language string `json:"language,omitempty"`
		}{b.Code, b.Language}
	case Quote:
		return struct {
			Text    string `json:"text"`
			Caption string `json:"caption,omitempty"`
		}{b.Text, b.Caption}
	case Delimiter:
		return struct{}{}
	case Image:
		return struct {
			URL     string `json:"url"`
			Caption string `json:"caption,omitempty"`
		}{b.URL, b.Caption}
	case Table:
		content := b.Content
		if content == nil {
			content = [][]string{}
		}
		return struct {
			Content [][]string `json:"content"`
		}{content}
	case Unknown:
		return struct {
			Text string `json:"text,omitempty"`
		}{b.Text}
	default:
		return struct{}{}
	}
}
