package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText flattens an HTML job description to a single line of text.
// Input without markup is only whitespace-cleaned.
func PlainText(s string) string {
	if !strings.Contains(s, "<") {
		return CleanText(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CleanText(s)
	}
	doc.Find("script, style").Remove()
	doc.Find("br, p, li, div, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, sel *goquery.Selection) {
		sel.AfterHtml(" ")
	})
	return CleanText(doc.Find("body").Text())
}
