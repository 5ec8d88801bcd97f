package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"buildflow-api/models"
)

// Mailer sends transactional email to customers
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, email, customerName string, order *models.Order) error
	SendOrderStatusUpdate(ctx context.Context, email string, order *models.Order, status models.OrderStatus) error
}

const resendEndpoint = "https://api.resend.com/emails"

// ResendMailer delivers via the Resend HTTP API. With no API key configured
// it logs instead of sending, so local runs need no credentials.
type ResendMailer struct {
	APIKey string
	From   string
	Client *http.Client
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{APIKey: apiKey, From: from, Client: http.DefaultClient}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *ResendMailer) send(ctx context.Context, to, subject, html string) error {
	if m.APIKey == "" {
		log.Printf("[MOCK EMAIL] To: %s | Subject: %s", to, subject)
		return nil
	}
	body, err := json.Marshal(resendRequest{
		From:    m.From,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("resend: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (m *ResendMailer) SendOrderConfirmation(ctx context.Context, email, customerName string, order *models.Order) error {
	subject := fmt.Sprintf("Order Received: #%s", order.ShortID())
	html := fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 600px; margin: auto; padding: 20px;">
			<h1 style="color: #2563eb;">BUILDFLOW</h1>
			<h2>Thanks for your order, %s!</h2>
			<p>We've received your order for <strong>%d items</strong>.</p>
			<p><strong>Total:</strong> $%.2f</p>
			<p><strong>Status:</strong> Pending Confirmation</p>
			<p style="color: #6b7280; font-size: 14px;">
				You can track your real-time delivery progress in the Buildflow app.
			</p>
		</div>`, customerName, len(order.Items), order.TotalAmount)
	return m.send(ctx, email, subject, html)
}

func (m *ResendMailer) SendOrderStatusUpdate(ctx context.Context, email string, order *models.Order, status models.OrderStatus) error {
	subject := fmt.Sprintf("Order Updated: %s", status)
	html := fmt.Sprintf(`<p>Your order #%s status has changed to: <strong>%s</strong></p>`,
		order.ShortID(), status)
	return m.send(ctx, email, subject, html)
}
