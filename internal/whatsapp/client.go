package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"vestiga-portal/internal/applications/entities"
)

type UpdateKind string

const (
	UpdateStatus    UpdateKind = "status_update"
	UpdateApproval  UpdateKind = "approval"
	UpdateRejection UpdateKind = "rejection"
)

// Client talks to the WhatsApp Cloud API. Messages are fire-and-forget from
// the caller's perspective; failures surface as errors for logging only.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	accessToken   string
	phoneNumberID string
	verifyToken   string
}

func NewClient(baseURL, accessToken, phoneNumberID, verifyToken string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:       baseURL,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		verifyToken:   verifyToken,
	}
}

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SendMessage posts a plain text message and returns the provider message id.
func (c *Client) SendMessage(ctx context.Context, to, body string) (string, error) {
	if c.accessToken == "" || c.phoneNumberID == "" {
		return "", fmt.Errorf("whatsapp credentials not configured")
	}

	msg := textMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
	}
	msg.Text.Body = body

	payload, _ := json.Marshal(msg)
	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		if result.Error != nil {
			return "", fmt.Errorf("whatsapp send failed: %s", result.Error.Message)
		}
		return "", fmt.Errorf("whatsapp send failed with status %d", resp.StatusCode)
	}

	if len(result.Messages) == 0 {
		return "", fmt.Errorf("whatsapp send returned no message id")
	}
	return result.Messages[0].ID, nil
}

func (c *Client) SendApplicationConfirmation(ctx context.Context, app entities.Application) error {
	body := fmt.Sprintf(`🎉 *Application Submitted Successfully!*

*Application Details:*
• Name: %s
• ID Number: %s
• Email: %s
• Mobile: %s
• Payment Status: %s

Thank you for applying to Vestiga! We will review your application and get back to you soon.

For any queries, please contact us at support@vestiga.com`,
		app.Name, app.IDNumber, app.Email, app.Mobile, app.PaymentStatus)

	_, err := c.SendMessage(ctx, app.Mobile, body)
	return err
}

func (c *Client) SendPaymentConfirmation(ctx context.Context, app entities.Application) error {
	body := fmt.Sprintf(`💳 *Payment Confirmation*

*Application ID:* %s
• Name: %s
• Payment Status: %s
• Amount: ₹500 (Application Fee)

Your payment has been processed successfully! You will receive further updates about your application status.

Thank you for choosing Vestiga!`,
		app.ID, app.Name, app.PaymentStatus)

	_, err := c.SendMessage(ctx, app.Mobile, body)
	return err
}

func (c *Client) SendApplicationUpdate(ctx context.Context, app entities.Application, kind UpdateKind) error {
	var body string
	switch kind {
	case UpdateStatus:
		body = fmt.Sprintf(`📋 *Application Status Update*

*Application ID:* %s
• Name: %s
• New Status: %s

Your application status has been updated. Please check your email for more details.`,
			app.ID, app.Name, app.PaymentStatus)
	case UpdateApproval:
		body = fmt.Sprintf(`🎉 *Congratulations!*

*Application ID:* %s
• Name: %s

Your application has been approved! Welcome to Vestiga. We will contact you soon with next steps.`,
			app.ID, app.Name)
	case UpdateRejection:
		body = fmt.Sprintf(`📝 *Application Update*

*Application ID:* %s
• Name: %s

Thank you for your interest in Vestiga. Unfortunately, we cannot proceed with your application at this time. We encourage you to apply again in the future.`,
			app.ID, app.Name)
	default:
		body = fmt.Sprintf(`📋 *Application Update*

*Application ID:* %s
• Name: %s

Your application has been updated. Please check your email for more details.`,
			app.ID, app.Name)
	}

	_, err := c.SendMessage(ctx, app.Mobile, body)
	return err
}

// VerifyWebhook answers the Graph API subscription handshake. It returns the
// challenge to echo back and whether the token matched.
func (c *Client) VerifyWebhook(mode, token, challenge string) (string, bool) {
	if mode == "subscribe" && token == c.verifyToken {
		return challenge, true
	}
	return "", false
}
