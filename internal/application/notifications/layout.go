package notifications

import (
	"fmt"
	"html"
	"time"
)

const themePrimary = "#E4405F"

// Layout wraps content in the shared email shell.
func Layout(contentHTML string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>StreamHub</title></head>
<body style="margin:0;padding:24px;background:#F3F4F6;font-family:-apple-system,Segoe UI,Roboto,Arial,sans-serif;">
  <table width="100%%" style="max-width:600px;margin:0 auto;background:#FFFFFF;border-top:4px solid %s;">
    <tr><td style="padding:32px;">%s</td></tr>
    <tr><td style="padding:16px 32px;font-size:12px;color:#6B7280;">&copy; %d StreamHub</td></tr>
  </table>
</body>
</html>`, themePrimary, contentHTML, time.Now().Year())
}

// EscapeHTML escapes user-supplied text placed into templates.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

func decisionContent(what, title, status, reason string) string {
	body := fmt.Sprintf(`
    <h1>Update on your %s</h1>
    <p>Your %s for <strong>%s</strong> is now <strong>%s</strong>.</p>`,
		EscapeHTML(what), EscapeHTML(what), EscapeHTML(title), EscapeHTML(status))
	if reason != "" {
		body += fmt.Sprintf(`
    <p>Reason: %s</p>`, EscapeHTML(reason))
	}
	return body + `
    <p>The StreamHub Team</p>
`
}
