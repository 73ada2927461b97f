// Package extract turns acquired markup into flat records using a
// selector schema. It is a stateless pass over the markup: the loader
// delivers HTML, extract delivers a ResultSet.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Record maps output field names to textual values. A field that did not
// match in the markup is present with an empty value; the data shape does
// not distinguish "absent" from "present but blank".
type Record map[string]string

// ResultSet is an ordered collection of records, in document order at
// extraction time. Columns fixes the field order for tabular output.
type ResultSet struct {
	Columns []string
	Records []Record
}

// Field describes one directly-selected output field. Every field is
// optional: a non-matching selector yields an empty value, never a
// dropped record.
type Field struct {
	Name     string `yaml:"name"`
	Selector string `yaml:"selector"`
	// Attr extracts an attribute instead of the element text.
	Attr string `yaml:"attr,omitempty"`
	// AttrFallback is tried when Attr is missing or empty (e.g. data-src
	// for lazily-loaded images).
	AttrFallback string `yaml:"attr_fallback,omitempty"`
	// Resolve resolves the value against the schema's BaseURL, for
	// relative links and asset paths.
	Resolve bool `yaml:"resolve,omitempty"`
}

// GroupField binds one recognised label to an output field.
type GroupField struct {
	Label string `yaml:"label"`
	Field string `yaml:"field"`
}

// Group describes a labeled feature group: a set of small sub-elements
// each carrying a label and a value (area / beds / baths on a listing
// card). Labels are case-normalised before matching; unrecognised labels
// are ignored.
type Group struct {
	Selector      string       `yaml:"selector"`
	LabelSelector string       `yaml:"label_selector"`
	ValueSelector string       `yaml:"value_selector"`
	Fields        []GroupField `yaml:"fields"`
}

// Schema describes how to locate items and assemble records from them.
type Schema struct {
	// Container matches one top-level listing item.
	Container string `yaml:"container"`
	// BaseURL resolves fields marked Resolve.
	BaseURL string  `yaml:"base_url,omitempty"`
	Fields  []Field `yaml:"fields"`
	Groups  []Group `yaml:"groups,omitempty"`
}

// Columns returns the output field names in declaration order: direct
// fields first, then group fields.
func (s Schema) Columns() []string {
	cols := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		cols = append(cols, f.Name)
	}
	for _, g := range s.Groups {
		for _, gf := range g.Fields {
			cols = append(cols, gf.Field)
		}
	}
	return cols
}

// Validate reports the first schema violation.
func (s Schema) Validate() error {
	if s.Container == "" {
		return fmt.Errorf("extract: container selector is required")
	}
	if len(s.Fields) == 0 && len(s.Groups) == 0 {
		return fmt.Errorf("extract: schema has no fields")
	}
	seen := map[string]bool{}
	for _, name := range s.Columns() {
		if name == "" {
			return fmt.Errorf("extract: field with empty name")
		}
		if seen[name] {
			return fmt.Errorf("extract: duplicate field %q", name)
		}
		seen[name] = true
	}
	return nil
}

// Extract assembles one record per container match in markup. Zero
// matches yield an empty ResultSet, not an error. Records are built as
// whole value objects, never parallel slices, so one field's matching
// logic cannot drift against another's.
func Extract(markup string, schema Schema) (*ResultSet, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("extract: parse markup: %w", err)
	}

	rs := &ResultSet{Columns: schema.Columns()}

	doc.Find(schema.Container).Each(func(_ int, item *goquery.Selection) {
		rec := make(Record, len(rs.Columns))
		for _, name := range rs.Columns {
			rec[name] = ""
		}

		for _, f := range schema.Fields {
			rec[f.Name] = fieldValue(item, f, schema.BaseURL)
		}
		for _, g := range schema.Groups {
			applyGroup(item, g, rec)
		}

		rs.Records = append(rs.Records, rec)
	})

	return rs, nil
}

func fieldValue(item *goquery.Selection, f Field, base string) string {
	sel := item.Find(f.Selector).First()
	if sel.Length() == 0 {
		return ""
	}

	var value string
	if f.Attr != "" {
		value, _ = sel.Attr(f.Attr)
		if value == "" && f.AttrFallback != "" {
			value, _ = sel.Attr(f.AttrFallback)
		}
	} else {
		value = sel.Text()
	}

	value = strings.TrimSpace(value)
	if f.Resolve && value != "" {
		value = ResolveRef(base, value)
	}
	return value
}

func applyGroup(item *goquery.Selection, g Group, rec Record) {
	item.Find(g.Selector).Each(func(_ int, block *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(block.Find(g.LabelSelector).First().Text()))
		value := strings.TrimSpace(block.Find(g.ValueSelector).First().Text())
		if label == "" || value == "" {
			return
		}
		for _, gf := range g.Fields {
			if strings.ToLower(gf.Label) == label {
				rec[gf.Field] = value
				return
			}
		}
		// Unknown label: ignore, forward-compatible with new attributes.
	})
}

// Row returns the record's values in column order.
func (rs *ResultSet) Row(i int) []string {
	row := make([]string, len(rs.Columns))
	for j, name := range rs.Columns {
		row[j] = rs.Records[i][name]
	}
	return row
}
