package reference

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/poiesic/forumqa/core"
	"gopkg.in/yaml.v3"
)

// frontMatter matches a leading block delimited by --- lines.
var frontMatter = regexp.MustCompile(`\A\x{FEFF}?\s*---\r?\n((?s:.*?))\r?\n---[ \t]*(?:\r?\n|\z)`)

// ParseFrontMatter extracts the reference document described by the front
// matter of content. A missing block, malformed YAML or an empty title or
// original_url is reported as core.ErrMalformedDocument.
func ParseFrontMatter(content string) (core.ReferenceDocument, error) {
	m := frontMatter.FindStringSubmatch(content)
	if m == nil {
		return core.ReferenceDocument{}, fmt.Errorf("%w: no front matter", core.ErrMalformedDocument)
	}

	var doc core.ReferenceDocument
	if err := yaml.Unmarshal([]byte(m[1]), &doc); err != nil {
		return core.ReferenceDocument{}, fmt.Errorf("%w: front matter: %w", core.ErrMalformedDocument, err)
	}

	doc.Title = strings.TrimSpace(doc.Title)
	doc.OriginalURL = strings.TrimSpace(doc.OriginalURL)
	if doc.Title == "" {
		return core.ReferenceDocument{}, fmt.Errorf("%w: missing title", core.ErrMalformedDocument)
	}
	if doc.OriginalURL == "" {
		return core.ReferenceDocument{}, fmt.Errorf("%w: missing original_url", core.ErrMalformedDocument)
	}

	return doc, nil
}
