package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Confirmation carries everything the donation-confirmation mail template
// needs. Values are rendered as submitted; nothing is recomputed here.
type Confirmation struct {
	DonorEmail    string
	DonorName     string
	Amount        float64
	Currency      string
	GHSEquivalent float64
	PaymentMethod string
	Reference     string
}

const confirmationSubject = "Donation Confirmation - Mentors Foundation"

// Client talks to an HTTP transactional-email API (resend-compatible: POST
// /emails with a bearer key).
type Client struct {
	apiKey  string
	from    string
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL, apiKey, from string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("email api key not set")
	}
	return &Client{
		apiKey:  apiKey,
		from:    from,
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send delivers one confirmation mail. Callers treat failures as log-only;
// nothing downstream depends on the outcome.
func (c *Client) Send(ctx context.Context, conf Confirmation) error {
	body := sendRequest{
		From:    c.from,
		To:      []string{conf.DonorEmail},
		Subject: confirmationSubject,
		HTML:    renderConfirmation(conf),
	}

	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewBuffer(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		return errors.Errorf("send confirmation email: status %d: %s", resp.StatusCode, buf.String())
	}
	return nil
}

func renderConfirmation(c Confirmation) string {
	name := c.DonorName
	if name == "" {
		name = "Donor"
	}
	return fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
        <h1>Thank You for Your Donation!</h1>
        <p>Dear %s,</p>
        <p>We are grateful for your generous donation to Mentors Foundation.
        Your contribution will make a meaningful difference in our mission.</p>
        <h3>Donation Details</h3>
        <table style="width: 100%%;">
          <tr><td>Amount:</td><td>%.2f %s</td></tr>
          <tr><td>GHS Equivalent:</td><td>GHS %.2f</td></tr>
          <tr><td>Payment Method:</td><td>%s</td></tr>
          <tr><td>Reference:</td><td>%s</td></tr>
        </table>
        <p>A donation receipt has been recorded and will be available shortly.
        For any questions, please contact us at
        <strong>donations@mentorsfoundation.org</strong>.</p>
        <p>Your generosity is changing lives. Thank you!</p>
        <p>Mentors Foundation<br>All rights reserved.</p>
      </div>`,
		name, c.Amount, c.Currency, c.GHSEquivalent, c.PaymentMethod, c.Reference)
}
