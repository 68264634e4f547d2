package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"carzy/internal/shared/apperr"
	"carzy/internal/shared/config"

	razorpay "github.com/razorpay/razorpay-go"
)

// Gateway is the payment gateway contract the booking core depends on.
// The client is constructed from configuration at startup and injected;
// tests substitute a fake.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	FetchPayment(ctx context.Context, paymentID string) (*PaymentStatus, error)
}

// OrderRequest describes a gateway order to collect a booking charge.
type OrderRequest struct {
	Amount   int64             `json:"amount" binding:"required,gt=0"` // smallest currency unit
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is the created gateway order.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// PaymentStatus is the gateway's view of a payment attempt.
type PaymentStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// StatusCaptured is the single success predicate the core reads.
const StatusCaptured = "captured"

// Captured reports whether the charge went through.
func (p *PaymentStatus) Captured() bool {
	return p.Status == StatusCaptured
}

type razorpayGateway struct {
	client    *razorpay.Client
	keySecret string
	currency  string
}

// NewRazorpayGateway creates the production gateway adapter from config.
func NewRazorpayGateway(cfg config.RazorpayConfig) Gateway {
	return &razorpayGateway{
		client:    razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		keySecret: cfg.KeySecret,
		currency:  cfg.Currency,
	}
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	currency := req.Currency
	if currency == "" {
		currency = g.currency
	}

	data := map[string]interface{}{
		"amount":   req.Amount,
		"currency": currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		notes := make(map[string]interface{}, len(req.Notes))
		for k, v := range req.Notes {
			notes[k] = v
		}
		data["notes"] = notes
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, apperr.Upstream(err, "error creating payment order")
	}

	return &Order{
		ID:       stringField(body, "id"),
		Amount:   req.Amount,
		Currency: currency,
		Receipt:  req.Receipt,
		Status:   stringField(body, "status"),
	}, nil
}

// VerifySignature checks the HMAC-SHA256 of "order_id|payment_id" against
// the signature the gateway handed to the client.
func (g *razorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (g *razorpayGateway) FetchPayment(ctx context.Context, paymentID string) (*PaymentStatus, error) {
	body, err := g.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, apperr.Upstream(err, "error fetching payment %s", paymentID)
	}

	status := stringField(body, "status")
	if status == "" {
		return nil, apperr.Upstream(fmt.Errorf("missing status field"), "unexpected gateway response for payment %s", paymentID)
	}

	return &PaymentStatus{
		ID:     stringField(body, "id"),
		Status: status,
	}, nil
}

func stringField(body map[string]interface{}, key string) string {
	if v, ok := body[key].(string); ok {
		return v
	}
	return ""
}
