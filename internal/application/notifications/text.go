package notifications

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText renders the text alternative of an email body: one paragraph per
// heading, paragraph or footer cell, separated by blank lines.
func PlainText(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}
	var parts []string
	doc.Find("h1, p, td").Each(func(_ int, s *goquery.Selection) {
		if s.Is("td") && s.Find("h1, p").Length() > 0 {
			return
		}
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n"), nil
}
