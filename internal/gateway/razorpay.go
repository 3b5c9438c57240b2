package gateway

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

// Client creates orders against the Razorpay REST API using the server-held
// key pair. The secret never leaves this package.
type Client interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error)
}

type CreateOrderRequest struct {
	// Amount in minor currency units (paise).
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Order is the gateway-side order record referenced by the hosted checkout.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// APIError carries the gateway's error envelope through to the handler layer.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay error %d: %s: %s", e.StatusCode, e.Code, e.Description)
}

type clientImpl struct {
	httpClient *http.Client
	baseAPIURL string
	keyID      string
	keySecret  string
}

func NewClient(cfg *config.Razorpay) Client {
	return &clientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseAPIURL: cfg.BaseAPIURL,
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
	}
}

func (c *clientImpl) CreateOrder(ctx context.Context, orderReq *CreateOrderRequest) (*Order, error) {
	body, err := json.Marshal(orderReq)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseAPIURL+"/v1/orders", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay order request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode razorpay response: %w", err)
	}

	return &order, nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var envelope struct {
		Error struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error.Description == "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Description: string(raw),
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        envelope.Error.Code,
		Description: envelope.Error.Description,
	}
}
