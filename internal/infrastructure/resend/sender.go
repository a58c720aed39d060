// Package resend delivers sign-in codes through the Resend transactional
// email API (https://resend.com).
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/theom/scoreboard-api/internal/domain"
)

const defaultBaseURL = "https://api.resend.com/emails"

const emailSubject = "Sign in to Scoreboard"

// emailBodyHTML is the fixed sign-in template; %[1]s is the recipient
// address, %[2]s the code.
const emailBodyHTML = `<!DOCTYPE html>
<html dir="ltr" lang="en">
  <body style="background-color:#f8fafc;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',sans-serif">
    <div style="display:none;overflow:hidden;max-height:0">Sign in code: %[2]s</div>
    <table align="center" style="max-width:600px;margin:0 auto;background-color:#ffffff;border-radius:16px;border:1px solid #7b7f8533" role="presentation" width="100%%">
      <tbody>
        <tr><td style="background-color:#0f172a;padding:32px 40px;text-align:center">
          <h1 style="color:#ffffff;font-size:28px;margin:0">Sign in to Scoreboard</h1>
        </td></tr>
        <tr><td style="padding:40px">
          <p style="font-size:18px;color:#1e293b">Hi %[1]s,</p>
          <p style="font-size:16px;color:#475569">Use the following code to sign in to your Scoreboard account</p>
          <p style="font-size:32px;font-family:monospace;font-weight:700;letter-spacing:8px;text-align:center;border:2px solid #7b7f8533;border-radius:12px;padding:24px 32px">%[2]s</p>
          <p style="font-size:14px;color:#92400e;background-color:#fef3c7;border:1px solid #f59e0b;border-radius:8px;padding:16px">
            This code will expire in <strong>15 minutes</strong>. If you didn't request this code, you can safely ignore this email.
          </p>
        </td></tr>
        <tr><td style="padding:32px 40px;text-align:center;border-top:1px solid #7b7f8533">
          <p style="font-size:14px;color:#64748b"><strong>The Scoreboard Team</strong></p>
        </td></tr>
      </tbody>
    </table>
  </body>
</html>`

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Sender posts sign-in emails to the Resend API with a bearer credential.
type Sender struct {
	apiKey     string
	from       string
	baseURL    string
	httpClient *http.Client
}

func NewSender(apiKey, from string) *Sender {
	return &Sender{
		apiKey:     apiKey,
		from:       from,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send delivers the code to the given email address. One network call, no
// internal retries; the caller decides whether to re-invoke via resend.
// Any non-2xx response or network error wraps domain.ErrDelivery with the
// provider's response body as the failure detail.
func (s *Sender) Send(ctx context.Context, identifier, code string) error {
	payload, err := json.Marshal(emailRequest{
		From:    s.from,
		To:      []string{identifier},
		Subject: emailSubject,
		HTML:    fmt.Sprintf(emailBodyHTML, identifier, code),
	})
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %v: %w", err, domain.ErrDelivery)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("failed to send email: %s: %w", string(body), domain.ErrDelivery)
	}
	return nil
}
