package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kirimaja/shipment-system/internal/core/domain"
	"github.com/kirimaja/shipment-system/internal/core/ports"
)

const xenditBaseURL = "https://api.xendit.co"

// XenditClient creates hosted invoices at the Xendit payment gateway.
// Status changes come back through the webhook endpoint, never through this
// client.
type XenditClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewXenditClient(apiKey string, client *http.Client) *XenditClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &XenditClient{apiKey: apiKey, baseURL: xenditBaseURL, client: client}
}

type xenditInvoiceRequest struct {
	ExternalID         string `json:"external_id"`
	Amount             int64  `json:"amount"`
	PayerEmail         string `json:"payer_email"`
	Description        string `json:"description"`
	SuccessRedirectURL string `json:"success_redirect_url,omitempty"`
	InvoiceDuration    int    `json:"invoice_duration,omitempty"`
}

type xenditInvoiceResponse struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Status     string    `json:"status"`
	InvoiceURL string    `json:"invoice_url"`
	ExpiryDate time.Time `json:"expiry_date"`
}

func (c *XenditClient) CreateInvoice(ctx context.Context, in ports.CreateInvoiceInput) (*ports.Invoice, error) {
	payload, err := json.Marshal(xenditInvoiceRequest{
		ExternalID:         in.ExternalID,
		Amount:             in.Amount,
		PayerEmail:         in.PayerEmail,
		Description:        in.Description,
		SuccessRedirectURL: in.RedirectURL,
		InvoiceDuration:    in.DurationSeconds,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/invoices", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	// Xendit authenticates with the secret key as basic auth user.
	req.SetBasicAuth(c.apiKey, "")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("xendit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("xendit returned status %d: %s", resp.StatusCode, body)
	}

	var inv xenditInvoiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&inv); err != nil {
		return nil, fmt.Errorf("xendit decode: %w", err)
	}

	return &ports.Invoice{
		ID:         inv.ID,
		ExternalID: inv.ExternalID,
		Status:     domain.PaymentStatus(inv.Status),
		InvoiceURL: inv.InvoiceURL,
		ExpiryDate: inv.ExpiryDate,
	}, nil
}
