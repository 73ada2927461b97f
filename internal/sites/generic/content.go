package generic

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// PageContent holds the raw markup captured from a page without a
// scrape profile. Markup is captured while the browser is still open,
// so the formatters do not need a live connection.
type PageContent struct {
	title  string
	url    string
	markup string
}

func NewPageContent(title, url, markup string) *PageContent {
	return &PageContent{title: title, url: url, markup: markup}
}

// ToHTML returns the captured markup unchanged.
func (p *PageContent) ToHTML() (string, error) {
	return p.markup, nil
}

// ToText returns the visible text of the captured markup.
func (p *PageContent) ToText() (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.markup))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript").Remove()
	return strings.TrimSpace(doc.Text()), nil
}

// ToMarkdown converts the captured markup to Markdown.
func (p *PageContent) ToMarkdown() (string, error) {
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(p.markup)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}
	return markdown, nil
}

// ToJSON returns the page title, URL, and markup as a JSON document.
func (p *PageContent) ToJSON() ([]byte, error) {
	markdown, err := p.ToMarkdown()
	if err != nil {
		return nil, err
	}

	type jsonOutput struct {
		Title    string `json:"title"`
		URL      string `json:"url"`
		HTML     string `json:"html"`
		Markdown string `json:"markdown"`
	}

	output := jsonOutput{
		Title:    p.title,
		URL:      p.url,
		HTML:     p.markup,
		Markdown: markdown,
	}
	return json.MarshalIndent(output, "", "  ")
}

// ToCSV is only meaningful for tabular results produced by a scrape
// profile.
func (p *PageContent) ToCSV() (string, error) {
	return "", errors.New("csv output requires a scrape profile; pass one with --scrape-profile")
}
