package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/otttrusted/storefront/internal/config"
)

// Mailer dispatches transactional email through the Brevo SMTP API.
type Mailer interface {
	SendOTPEmail(ctx context.Context, to, code string) error
}

type brevoMailer struct {
	httpClient  *http.Client
	baseAPIURL  string
	apiKey      string
	senderName  string
	senderEmail string
}

func NewBrevoMailer(cfg *config.Brevo) Mailer {
	return &brevoMailer{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseAPIURL:  cfg.BaseAPIURL,
		apiKey:      cfg.APIKey,
		senderName:  cfg.SenderName,
		senderEmail: cfg.SenderEmail,
	}
}

type emailAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type sendEmailRequest struct {
	Sender      emailAddress   `json:"sender"`
	To          []emailAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

func (m *brevoMailer) SendOTPEmail(ctx context.Context, to, code string) error {
	payload := sendEmailRequest{
		Sender:      emailAddress{Name: m.senderName, Email: m.senderEmail},
		To:          []emailAddress{{Email: to}},
		Subject:     "Your Verification Code",
		HTMLContent: otpEmailBody(m.senderName, code),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.baseAPIURL+"/v3/smtp/email", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("brevo send request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo error %d: %s", resp.StatusCode, string(raw))
	}

	return nil
}

func otpEmailBody(brand, code string) string {
	return fmt.Sprintf(`
<div style="font-family: sans-serif; padding: 20px; border: 1px solid #eee; border-radius: 10px; max-width: 400px; margin: auto;">
  <h2 style="color: #FF0000; text-align: center;">%s</h2>
  <p style="text-align: center;">Your 6-digit verification code is:</p>
  <h1 style="letter-spacing: 10px; background: #f4f4f4; padding: 20px; text-align: center; border-radius: 10px; color: #000;">%s</h1>
  <p style="color: #666; font-size: 12px; text-align: center;">This code expires in 5 minutes. Please do not share it with anyone.</p>
</div>`, brand, code)
}
