package generic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const pageMarkup = `<html><head><script>var x = 1;</script></head><body>
<h1>City Guide</h1>
<p>Neighborhoods worth a <a href="/visit">visit</a>.</p>
</body></html>`

func TestPageContentToText(t *testing.T) {
	c := NewPageContent("City Guide", "https://example.com/guide", pageMarkup)

	text, err := c.ToText()
	require.NoError(t, err)
	require.Contains(t, text, "City Guide")
	require.Contains(t, text, "Neighborhoods worth a visit.")
	require.NotContains(t, text, "var x")
}

func TestPageContentToMarkdown(t *testing.T) {
	c := NewPageContent("City Guide", "https://example.com/guide", pageMarkup)

	markdown, err := c.ToMarkdown()
	require.NoError(t, err)
	require.Contains(t, markdown, "# City Guide")
	require.Contains(t, markdown, "[visit](/visit)")
}

func TestPageContentToJSON(t *testing.T) {
	c := NewPageContent("City Guide", "https://example.com/guide", pageMarkup)

	b, err := c.ToJSON()
	require.NoError(t, err)

	var out struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		HTML  string `json:"html"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	require.Equal(t, "City Guide", out.Title)
	require.Equal(t, "https://example.com/guide", out.URL)
	require.Equal(t, pageMarkup, out.HTML)
}

func TestPageContentToCSVNeedsProfile(t *testing.T) {
	c := NewPageContent("City Guide", "https://example.com/guide", pageMarkup)

	_, err := c.ToCSV()
	require.Error(t, err)
}
