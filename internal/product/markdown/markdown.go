// Package markdown stores products as text documents: a YAML front matter
// block holding the product fields followed by the product content.
package markdown

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/smallbiznis/farmstand/internal/product/domain"
	"gopkg.in/yaml.v3"
)

const delimiter = "---"

var ErrMissingFrontMatter = errors.New("markdown: missing front matter")

// Encode renders p as a front matter document.
func Encode(p domain.Product) ([]byte, error) {
	header, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("markdown: encode %s: %w", p.Slug, err)
	}

	var buf bytes.Buffer
	buf.Grow(len(header) + len(p.Content) + 8)
	buf.WriteString(delimiter + "\n")
	buf.Write(header)
	buf.WriteString(delimiter + "\n")
	buf.WriteString(p.Content)
	return buf.Bytes(), nil
}

// Decode parses a document produced by Encode. Everything after the closing
// delimiter line is the content, byte for byte.
func Decode(data []byte) (domain.Product, error) {
	var p domain.Product

	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	open := []byte(delimiter + "\n")
	if !bytes.HasPrefix(data, open) {
		return p, ErrMissingFrontMatter
	}
	rest := data[len(open):]

	var header, body []byte
	switch {
	case bytes.HasPrefix(rest, open):
		body = rest[len(open):]
	default:
		end := bytes.Index(rest, []byte("\n"+delimiter+"\n"))
		if end < 0 {
			if !bytes.HasSuffix(rest, []byte("\n"+delimiter)) {
				return p, ErrMissingFrontMatter
			}
			header = rest[:len(rest)-len(delimiter)]
		} else {
			header = rest[:end+1]
			body = rest[end+len(delimiter)+2:]
		}
	}

	if err := yaml.Unmarshal(header, &p); err != nil {
		return p, fmt.Errorf("markdown: decode front matter: %w", err)
	}
	p.Content = string(body)
	return p, nil
}
