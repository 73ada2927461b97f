package tabular

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lurl/internal/extract"
	"lurl/internal/scraper"
)

func sampleContent(converged bool) *Content {
	rs := &extract.ResultSet{
		Columns: []string{"name", "price"},
		Records: []extract.Record{
			{"name": "Loft | Zed East", "price": "5,900,000"},
			{"name": "Studio", "price": ""},
		},
	}
	meta := scraper.Meta{
		Site:      "nawy",
		URL:       "https://www.nawy.com/search",
		StartedAt: time.Now(),
		Converged: converged,
		Attempts:  7,
	}
	return New("Nawy Properties", meta, rs)
}

func TestContentToCSV(t *testing.T) {
	out, err := sampleContent(true).ToCSV()
	require.NoError(t, err)
	require.Equal(t, "name,price\nLoft | Zed East,\"5,900,000\"\nStudio,\n", out)
}

func TestContentToJSON(t *testing.T) {
	b, err := sampleContent(true).ToJSON()
	require.NoError(t, err)

	var out struct {
		Title     string              `json:"title"`
		Source    string              `json:"source"`
		Converged bool                `json:"converged"`
		Count     int                 `json:"count"`
		Records   []map[string]string `json:"records"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	require.Equal(t, "Nawy Properties", out.Title)
	require.Equal(t, "https://www.nawy.com/search", out.Source)
	require.True(t, out.Converged)
	require.Equal(t, 2, out.Count)
	require.Len(t, out.Records, 2)
	require.Equal(t, "", out.Records[1]["price"])
}

func TestContentToMarkdownEscapesAndWarns(t *testing.T) {
	out, err := sampleContent(false).ToMarkdown()
	require.NoError(t, err)
	require.Contains(t, out, "attempt budget exhausted")
	require.Contains(t, out, "| name | price |")
	require.Contains(t, out, `Loft \| Zed East`)
}

func TestContentToHTMLEscapes(t *testing.T) {
	rs := &extract.ResultSet{
		Columns: []string{"name"},
		Records: []extract.Record{{"name": "<b>bold</b> & more"}},
	}
	out, err := New("T", scraper.Meta{}, rs).ToHTML()
	require.NoError(t, err)
	require.Contains(t, out, "&lt;b&gt;bold&lt;/b&gt; &amp; more")
}
