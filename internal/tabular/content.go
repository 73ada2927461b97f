// Package tabular renders a result set in every output format the CLI
// supports. All listing sites share this one Content implementation.
package tabular

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"lurl/internal/extract"
	"lurl/internal/scraper"
	"lurl/internal/sink"
)

// Content implements scraper.Content and scraper.Tabular over an
// extracted result set.
type Content struct {
	title string
	meta  scraper.Meta
	rs    *extract.ResultSet
}

// New wraps a result set for formatting.
func New(title string, meta scraper.Meta, rs *extract.ResultSet) *Content {
	return &Content{title: title, meta: meta, rs: rs}
}

// ResultSet exposes the underlying records.
func (c *Content) ResultSet() *extract.ResultSet { return c.rs }

// Meta exposes the acquisition metadata.
func (c *Content) Meta() scraper.Meta { return c.meta }

// ToCSV renders a header row plus one row per record.
func (c *Content) ToCSV() (string, error) {
	var buf bytes.Buffer
	if err := sink.WriteCSV(&buf, c.rs); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ToJSON renders the metadata and all records.
func (c *Content) ToJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title     string           `json:"title"`
		Source    string           `json:"source"`
		Converged bool             `json:"converged"`
		Attempts  int              `json:"attempts"`
		Count     int              `json:"count"`
		Records   []extract.Record `json:"records"`
	}{
		Title:     c.title,
		Source:    c.meta.URL,
		Converged: c.meta.Converged,
		Attempts:  c.meta.Attempts,
		Count:     len(c.rs.Records),
		Records:   c.rs.Records,
	})
}

// ToMarkdown renders a Markdown table preceded by a summary line.
func (c *Content) ToMarkdown() (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", c.title))
	sb.WriteString(fmt.Sprintf("%d items from %s", len(c.rs.Records), c.meta.URL))
	if !c.meta.Converged {
		sb.WriteString(" (attempt budget exhausted before convergence; more items may exist)")
	}
	sb.WriteString("\n\n")

	if len(c.rs.Records) == 0 {
		return sb.String(), nil
	}

	sb.WriteString("| " + strings.Join(c.rs.Columns, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat("---|", len(c.rs.Columns)) + "\n")
	for i := range c.rs.Records {
		cells := c.rs.Row(i)
		for j, cell := range cells {
			cells[j] = strings.ReplaceAll(strings.ReplaceAll(cell, "|", "\\|"), "\n", " ")
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return sb.String(), nil
}

// ToText renders one name: value block per record.
func (c *Content) ToText() (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%d items)\n\n", c.title, len(c.rs.Records)))
	for i := range c.rs.Records {
		sb.WriteString(fmt.Sprintf("-- %d --\n", i+1))
		row := c.rs.Row(i)
		for j, name := range c.rs.Columns {
			sb.WriteString(fmt.Sprintf("%s: %s\n", name, row[j]))
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// ToHTML renders a plain HTML table.
func (c *Content) ToHTML() (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h1>%s</h1>\n<table>\n<tr>", htmlEscape(c.title)))
	for _, name := range c.rs.Columns {
		sb.WriteString("<th>" + htmlEscape(name) + "</th>")
	}
	sb.WriteString("</tr>\n")
	for i := range c.rs.Records {
		sb.WriteString("<tr>")
		for _, cell := range c.rs.Row(i) {
			sb.WriteString("<td>" + htmlEscape(cell) + "</td>")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>\n")
	return sb.String(), nil
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
