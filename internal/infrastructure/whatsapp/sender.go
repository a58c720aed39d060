// Package whatsapp delivers sign-in codes through a WhatsApp messaging
// webhook (a plain bearer-authenticated JSON POST endpoint).
package whatsapp

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

type messageRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// Sender posts plain-text verification messages to the webhook.
type Sender struct {
	apiURL     string
	bearer     string
	httpClient *http.Client
}

func NewSender(apiURL, bearer string) *Sender {
	return &Sender{
		apiURL:     apiURL,
		bearer:     bearer,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send delivers the code to the given phone number. One network call, no
// internal retries. Failures wrap domain.ErrDelivery; the transport layer
// genericizes the user-facing message so provider detail never leaks.
func (s *Sender) Send(ctx context.Context, identifier, code string) error {
	payload, err := json.Marshal(messageRequest{
		To:   identifier,
		Body: "Your Scoreboard verification code is: " + code,
	})
	if err != nil {
		return fmt.Errorf("marshal whatsapp request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send whatsapp message: %v: %w", err, domain.ErrDelivery)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("failed to send whatsapp message: %s: %w", string(body), domain.ErrDelivery)
	}
	return nil
}
