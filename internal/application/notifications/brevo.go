package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

var defaultHTTPClient = &http.Client{Timeout: 15 * time.Second}

// BrevoSendRequest matches the Brevo API v3 transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoContact   `json:"sender"`
	To          []BrevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	TextContent string         `json:"textContent,omitempty"`
}

type BrevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Sender tells the other party about a workflow decision. Nil = no-op.
type Sender interface {
	ApplicationDecided(ctx context.Context, toEmail, demandTitle, status, reason string) error
	RentalDecided(ctx context.Context, toEmail, serviceTitle, status, reason string) error
	RentalCancelled(ctx context.Context, toEmail, serviceTitle, reason string) error
}

// BrevoClient sends emails via the Brevo (Sendinblue) API. An empty APIKey disables sending.
// It is never mutated after construction and may be shared across goroutines.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	Endpoint string
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@streamhub.vn"
}

func (c *BrevoClient) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return brevoAPI
}

func (c *BrevoClient) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return defaultHTTPClient
}

func (c *BrevoClient) send(ctx context.Context, toEmail, subject, html string) error {
	if c.APIKey == "" || toEmail == "" {
		return nil
	}
	body := BrevoSendRequest{
		Sender:      BrevoContact{Email: c.from(), Name: "StreamHub"},
		To:          []BrevoContact{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
	}
	if text, err := PlainText(html); err == nil {
		body.TextContent = text
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

func (c *BrevoClient) ApplicationDecided(ctx context.Context, toEmail, demandTitle, status, reason string) error {
	subject := fmt.Sprintf("Your application for \"%s\" was %s", demandTitle, status)
	return c.send(ctx, toEmail, subject, Layout(decisionContent("application", demandTitle, status, reason)))
}

func (c *BrevoClient) RentalDecided(ctx context.Context, toEmail, serviceTitle, status, reason string) error {
	subject := fmt.Sprintf("Your rental of \"%s\" was %s", serviceTitle, status)
	return c.send(ctx, toEmail, subject, Layout(decisionContent("rental request", serviceTitle, status, reason)))
}

func (c *BrevoClient) RentalCancelled(ctx context.Context, toEmail, serviceTitle, reason string) error {
	subject := fmt.Sprintf("Rental of \"%s\" was cancelled", serviceTitle)
	return c.send(ctx, toEmail, subject, Layout(decisionContent("rental", serviceTitle, "cancelled", reason)))
}
