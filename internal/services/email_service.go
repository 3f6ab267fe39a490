package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

const defaultEmailAPIURL = "https://api.resend.com/emails"

// EmailService dispatches transactional email through the provider's HTTP
// API. Sending is purely additive: a failure never rolls back or blocks the
// order state it reports on.
type EmailService struct {
	apiKey string
	from   string
	apiURL string
	client *http.Client
}

// NewEmailService creates an EmailService. With an empty API key every send
// becomes a logged no-op.
func NewEmailService(apiKey, from string) *EmailService {
	return &EmailService{
		apiKey: apiKey,
		from:   from,
		apiURL: defaultEmailAPIURL,
		client: http.DefaultClient,
	}
}

// OrderConfirmation contains the data rendered into the confirmation email.
type OrderConfirmation struct {
	Email        string             `json:"email"`
	OrderNumber  string             `json:"orderNumber"`
	CustomerName string             `json:"customerName"`
	OrderTotal   float64            `json:"orderTotal"`
	Items        []ConfirmationItem `json:"items"`
}

// ConfirmationItem is one purchased line in the confirmation email.
type ConfirmationItem struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type emailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendResult carries the provider's raw response for proxy endpoints.
type SendResult struct {
	StatusCode int
	Body       []byte
}

// SendOrderConfirmation renders and dispatches the confirmation email.
func (s *EmailService) SendOrderConfirmation(conf OrderConfirmation) error {
	_, err := s.Send(conf)
	return err
}

// Send dispatches the confirmation email and returns the provider response.
func (s *EmailService) Send(conf OrderConfirmation) (*SendResult, error) {
	if s.apiKey == "" {
		log.Println("[Email] API key not configured, skipping send")
		return &SendResult{StatusCode: http.StatusOK, Body: []byte(`{"skipped":true}`)}, nil
	}

	payload := emailPayload{
		From:    s.from,
		To:      []string{conf.Email},
		Subject: fmt.Sprintf("Order Confirmation — %s", conf.OrderNumber),
		HTML:    renderConfirmationHTML(conf),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[Email] send failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= http.StatusMultipleChoices {
		log.Printf("[Email] provider returned status %d: %s", resp.StatusCode, respBody)
		return &SendResult{StatusCode: resp.StatusCode, Body: respBody},
			fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}

	return &SendResult{StatusCode: resp.StatusCode, Body: respBody}, nil
}

func renderConfirmationHTML(conf OrderConfirmation) string {
	var rows strings.Builder
	for _, item := range conf.Items {
		rows.WriteString(fmt.Sprintf(
			`<tr><td>%s</td><td align="center">%d</td><td align="right">%s</td></tr>`,
			item.ProductName, item.Quantity, FormatPrice(item.Price*float64(item.Quantity), ""),
		))
	}

	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
<h2>Thank you for your order, %s!</h2>
<p>Your order <b>%s</b> has been confirmed.</p>
<table width="100%%" cellpadding="8" style="border-collapse:collapse">
<tr style="background:#f5f5f5"><th align="left">Item</th><th>Qty</th><th align="right">Total</th></tr>
%s
</table>
<p style="font-size:18px"><b>Order Total: %s</b></p>
<p>We will email you again once your order ships. You can track it any time
with your order number.</p>
<p>— Luxentra</p>
</div>`,
		conf.CustomerName,
		conf.OrderNumber,
		rows.String(),
		FormatPrice(conf.OrderTotal, ""),
	)
}
