package view

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/mgomes/pfind/internal/search"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse html: %v", err)
	}
	return doc
}

func TestHTML_PonantCard(t *testing.T) {
	html, err := ponant().HTML()
	if err != nil {
		t.Fatalf("failed to render: %v", err)
	}

	doc := parseHTML(t, html)

	fields := map[string]string{
		"first_name":    "Jean",
		"last_name":     "Dupont",
		"current_title": "CEO",
		"confidence":    "87%",
		"sources_used":  "3",
	}

	for field, expected := range fields {
		got := strings.TrimSpace(doc.Find(`[data-field="` + field + `"]`).Text())
		if got != expected {
			t.Errorf("%s: expected '%s', got '%s'", field, expected, got)
		}
	}

	style, _ := doc.Find(".confidence-fill").Attr("style")
	if style != "width: 87%" {
		t.Errorf("expected bar style 'width: 87%%', got '%s'", style)
	}

	link := doc.Find(`[data-field="source_url"] a`)
	if href, _ := link.Attr("href"); href != "https://example.com/p" {
		t.Errorf("expected href 'https://example.com/p', got '%s'", href)
	}

	if target, _ := link.Attr("target"); target != "_blank" {
		t.Errorf("expected link to open in a new browsing context, got target '%s'", target)
	}
}

func TestHTML_EscapesServerValues(t *testing.T) {
	r := New(search.Person{
		FirstName: "<script>alert(1)</script>",
		SourceURL: "javascript:alert(1)",
	}, "1")

	html, err := r.HTML()
	if err != nil {
		t.Fatalf("failed to render: %v", err)
	}

	if strings.Contains(html, "<script>") {
		t.Error("expected names to be escaped")
	}

	doc := parseHTML(t, html)
	if href, _ := doc.Find("a").Attr("href"); strings.HasPrefix(href, "javascript:") {
		t.Errorf("expected unsafe URL to be neutralised, got '%s'", href)
	}
}

func TestErrorHTML(t *testing.T) {
	html, err := ErrorHTML(search.NoResultsMessage)
	if err != nil {
		t.Fatalf("failed to render: %v", err)
	}

	doc := parseHTML(t, html)
	if got := doc.Find(".error-card").Text(); got != search.NoResultsMessage {
		t.Errorf("expected '%s', got '%s'", search.NoResultsMessage, got)
	}
}
