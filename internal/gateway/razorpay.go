// Package gateway holds the Razorpay client behind the payment façade.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paisatrack/backend/internal/metrics"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// Razorpay is a minimal client for order creation, signature verification
// and refunds. With no API keys configured it runs in mock mode: orders and
// refunds succeed locally without touching the network, which keeps local
// development and CI off the real gateway.
type Razorpay struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

// NewRazorpay creates a client. Empty keyID and keySecret enable mock mode.
func NewRazorpay(keyID, keySecret, baseURL string) *Razorpay {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Razorpay{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// MockMode reports whether the client is running without credentials.
func (r *Razorpay) MockMode() bool {
	return r.keyID == "" || r.keySecret == ""
}

type orderRequest struct {
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID string `json:"id"`
}

// CreateOrder registers an order with the gateway and returns its ID.
// Amounts are rupees here and paise on the wire.
func (r *Razorpay) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (string, error) {
	if r.MockMode() {
		metrics.GatewayRequests.WithLabelValues("create_order", "mock").Inc()
		return "order_mock_" + uuid.New().String()[:14], nil
	}

	body, err := json.Marshal(orderRequest{
		Amount:   toPaise(amount),
		Currency: "INR",
		Receipt:  receipt,
	})
	if err != nil {
		return "", fmt.Errorf("encoding order request: %w", err)
	}

	var resp orderResponse
	if err := r.post(ctx, "/orders", body, &resp); err != nil {
		metrics.GatewayRequests.WithLabelValues("create_order", "error").Inc()
		return "", err
	}
	metrics.GatewayRequests.WithLabelValues("create_order", "success").Inc()
	return resp.ID, nil
}

// VerifySignature checks the checkout callback signature: an HMAC-SHA256 of
// "orderID|paymentID" keyed with the API secret, hex encoded. Mock mode
// accepts any signature.
func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	if r.MockMode() {
		return true
	}

	mac := hmac.New(sha256.New, []byte(r.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Refund issues a full refund for a captured payment.
func (r *Razorpay) Refund(ctx context.Context, paymentID string, amount decimal.Decimal) error {
	if r.MockMode() {
		metrics.GatewayRequests.WithLabelValues("refund", "mock").Inc()
		return nil
	}

	body, err := json.Marshal(map[string]int64{"amount": toPaise(amount)})
	if err != nil {
		return fmt.Errorf("encoding refund request: %w", err)
	}

	path := fmt.Sprintf("/payments/%s/refund", paymentID)
	if err := r.post(ctx, path, body, nil); err != nil {
		metrics.GatewayRequests.WithLabelValues("refund", "error").Inc()
		return err
	}
	metrics.GatewayRequests.WithLabelValues("refund", "success").Inc()
	return nil
}

func (r *Razorpay) post(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(r.keyID, r.keySecret)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling gateway %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gateway %s returned %d: %s", path, resp.StatusCode, payload)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding gateway response: %w", err)
	}
	return nil
}

// toPaise converts a rupee amount to the integer paise the API expects.
func toPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
