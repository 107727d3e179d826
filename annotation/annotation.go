/*
Package annotation defines the annotations being highlighted.

Annotations are created and persisted elsewhere. This package only knows
what the highlighter needs: an optional identifier, the quoted text and a
list of stored ranges. Stored ranges are opaque values; package xrange
knows how to turn them back into ranges of a document.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package annotation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

// Annotation is a highlightable annotation.
type Annotation struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Quote  string `json:"quote,omitempty" yaml:"quote,omitempty"`
	Ranges []any  `json:"ranges" yaml:"ranges"`

	// Highlights caches the marker elements currently drawn for the
	// annotation. It is maintained by the highlighter and never stored.
	Highlights []*html.Node `json:"-" yaml:"-"`
}

// HasID is true if the annotation carries an identifier.
func (a *Annotation) HasID() bool {
	return a != nil && a.ID != ""
}

// Clone returns a copy of a without its highlights.
func (a *Annotation) Clone() *Annotation {
	if a == nil {
		return nil
	}
	return &Annotation{
		ID:     a.ID,
		Quote:  a.Quote,
		Ranges: append([]any(nil), a.Ranges...),
	}
}

func (a *Annotation) String() string {
	if a.HasID() {
		return fmt.Sprintf("annotation(%s, %d ranges)", a.ID, len(a.Ranges))
	}
	return fmt.Sprintf("annotation(%d ranges)", len(a.Ranges))
}

// UnmarshalJSON accepts identifiers given as JSON numbers as well as strings.
func (a *Annotation) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     json.RawMessage `json:"id"`
		Quote  string          `json:"quote"`
		Ranges []any           `json:"ranges"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := idFromJSON(raw.ID)
	if err != nil {
		return err
	}
	a.ID, a.Quote, a.Ranges = id, raw.Quote, raw.Ranges
	a.Highlights = nil
	return nil
}

func idFromJSON(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("annotation id must be a string or a number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

// LoadJSON reads a JSON array of annotations.
func LoadJSON(r io.Reader) ([]*Annotation, error) {
	var anns []*Annotation
	if err := json.NewDecoder(r).Decode(&anns); err != nil {
		return nil, fmt.Errorf("reading annotations: %w", err)
	}
	return anns, nil
}

// LoadYAML reads a YAML sequence of annotations.
func LoadYAML(r io.Reader) ([]*Annotation, error) {
	var anns []*Annotation
	if err := yaml.NewDecoder(r).Decode(&anns); err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading annotations: %w", err)
	}
	return anns, nil
}

// Creator accepts requests for new annotations, e.g. to persist them.
// Create may assign an identifier to ann.
type Creator interface {
	Create(ctx context.Context, ann *Annotation) error
}

// CreatorFunc adapts a function to the Creator interface.
type CreatorFunc func(ctx context.Context, ann *Annotation) error

// Create calls f(ctx, ann).
func (f CreatorFunc) Create(ctx context.Context, ann *Annotation) error {
	return f(ctx, ann)
}
