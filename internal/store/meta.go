package store

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/inkpost/inkpost/internal/textkit"
)

// slugRe is the shape every stored slug (and therefore every post
// filename) must match. It rules out path separators and dots, so a
// validated slug is always safe to join into a content path.
var slugRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// descriptionLimit caps auto-generated descriptions at a length search
// engines display without cutting.
const descriptionLimit = 160

// Meta is the YAML front matter of a stored post.
type Meta struct {
	Title       string    `yaml:"title" json:"title"`
	Slug        string    `yaml:"slug" json:"slug"`
	Date        time.Time `yaml:"date,omitempty" json:"date"`
	Updated     time.Time `yaml:"updated,omitempty" json:"updated"`
	Author      string    `yaml:"author,omitempty" json:"author,omitempty"`
	Tags        []string  `yaml:"tags,omitempty" json:"tags,omitempty"`
	Draft       bool      `yaml:"draft" json:"draft"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	ReadingTime int       `yaml:"reading_time,omitempty" json:"reading_time,omitempty"`
}

// Validate checks the fields a post cannot be saved without.
func (m Meta) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&m.Slug, validation.Required, validation.Match(slugRe)),
		validation.Field(&m.Author, validation.Length(0, 100)),
		validation.Field(&m.Description, validation.Length(0, 300)),
		validation.Field(&m.ReadingTime, validation.Min(0)),
	)
}

// EnrichMeta fills the derived fields the editor leaves blank: slug
// from the title, reading time and description from the Markdown body,
// and timestamps. Fields the author set explicitly are kept.
func EnrichMeta(m *Meta, markdown string, now time.Time) {
	if m.Slug == "" {
		m.Slug = textkit.Slug(m.Title)
	}
	m.ReadingTime = textkit.ReadingTime(markdown)
	if m.Description == "" {
		plain := strings.ReplaceAll(textkit.PlainText(markdown), "\n", " ")
		m.Description = textkit.Truncate(plain, descriptionLimit)
	}
	if m.Date.IsZero() {
		m.Date = now
	}
	m.Updated = now
}
