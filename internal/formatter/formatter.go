// Package formatter dispatches a scrape result to the requested output
// format.
package formatter

import (
	"bytes"
	"fmt"

	"lurl/internal/scraper"
	"lurl/internal/sink"
)

// Format renders content in the given format. "jsonl" streams one record
// per line and is only available for tabular results.
func Format(content scraper.Content, format string) (string, error) {
	switch format {
	case "html":
		return content.ToHTML()
	case "text":
		return content.ToText()
	case "markdown":
		return content.ToMarkdown()
	case "csv":
		return content.ToCSV()
	case "json":
		b, err := content.ToJSON()
		if err != nil {
			return "", err
		}
		return string(b), nil
	case "jsonl":
		tab, ok := content.(scraper.Tabular)
		if !ok {
			return "", fmt.Errorf("jsonl output requires a tabular result (use a listing site or a scrape profile)")
		}
		var buf bytes.Buffer
		if err := sink.WriteJSONLines(&buf, tab.ResultSet()); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}
