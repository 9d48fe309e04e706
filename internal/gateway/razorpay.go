package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"edupay/internal/config"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// ErrDisabled is returned by all client operations when the gateway is not
// configured with credentials.
var ErrDisabled = errors.New("payment gateway disabled")

// Client is an explicit Razorpay REST client constructed once at startup and
// injected into the services that need it. When credentials are missing the
// client is constructed in a disabled state instead of being nil.
type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
	enabled    bool
}

// NewClient creates a Razorpay client from configuration. A client without
// credentials is valid but disabled; callers must check Enabled.
func NewClient(cfg config.RazorpayConfig) *Client {
	return &Client{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		enabled: cfg.Enabled && cfg.KeyID != "" && cfg.KeySecret != "",
	}
}

// Enabled reports whether the client is configured to reach the gateway.
func (c *Client) Enabled() bool {
	return c.enabled
}

// OrderRequest is the payload for creating a gateway order.
type OrderRequest struct {
	Amount   int64             `json:"amount"` // smallest currency unit
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is a gateway order as returned by the Razorpay API.
type Order struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Payment is a gateway payment as returned by the Razorpay API.
type Payment struct {
	ID               string            `json:"id"`
	Entity           string            `json:"entity"`
	Amount           int64             `json:"amount"`
	Currency         string            `json:"currency"`
	Status           string            `json:"status"`
	OrderID          string            `json:"order_id"`
	Method           string            `json:"method"`
	ErrorDescription string            `json:"error_description"`
	Notes            map[string]string `json:"notes"`
	CreatedAt        int64             `json:"created_at"`
}

// CreateOrder creates an order at the gateway.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// FetchOrder retrieves an order by its gateway id.
func (c *Client) FetchOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+orderID, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// FetchPayment retrieves a payment by its gateway id.
func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	var payment Payment
	if err := c.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// FetchOrderPayments retrieves all payments made against an order.
func (c *Client) FetchOrderPayments(ctx context.Context, orderID string) ([]Payment, error) {
	var resp struct {
		Items []Payment `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders/"+orderID+"/payments", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// do performs an authenticated request against the gateway API and decodes
// the JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if !c.enabled {
		return ErrDisabled
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		}
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Code != "" {
			return fmt.Errorf("gateway error %s: %s", apiErr.Error.Code, apiErr.Error.Description)
		}
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	return json.Unmarshal(data, out)
}
