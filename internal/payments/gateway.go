// Package payments integrates the external card payment gateway.
package payments

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"airtecs/internal/models"
)

// ChargeResult is the processor-reported outcome of a charge attempt.
type ChargeResult struct {
	Status    models.PaymentStatus
	Reference string
}

// Charger obtains a payment outcome for a completed service.
type Charger interface {
	Charge(ctx context.Context, requestID string, amount float64, method models.PaymentMethod) (*ChargeResult, error)
}

// Gateway charges cards through an HTTP payment processor. Deferred methods
// (cash, transfer) never hit the processor: they get a locally generated
// voucher reference and stay pending until confirmed.
type Gateway struct {
	url    string
	apiKey string
	client *http.Client
}

// NewGateway creates a gateway client. url may be empty in development, in
// which case card charges are confirmed locally with a generated reference.
func NewGateway(url, apiKey string) *Gateway {
	return &Gateway{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type chargeRequest struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	ReferenceID string `json:"reference_id"`
}

type chargeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Charge resolves the payment outcome for the given method.
func (g *Gateway) Charge(ctx context.Context, requestID string, amount float64, method models.PaymentMethod) (*ChargeResult, error) {
	switch method {
	case models.PaymentMethodCash, models.PaymentMethodTransfer:
		return &ChargeResult{
			Status:    models.PaymentStatusPending,
			Reference: voucherReference(),
		}, nil
	case models.PaymentMethodCard:
		return g.chargeCard(ctx, requestID, amount)
	default:
		return nil, models.NewValidationError(fmt.Sprintf("unsupported payment method: %s", method))
	}
}

func (g *Gateway) chargeCard(ctx context.Context, requestID string, amount float64) (*ChargeResult, error) {
	if g.url == "" {
		// No gateway configured: confirm locally so development flows work.
		return &ChargeResult{
			Status:    models.PaymentStatusConfirmed,
			Reference: voucherReference(),
		}, nil
	}

	payload := chargeRequest{
		Amount:      int64(amount * 100), // processor expects cents
		Currency:    "MXN",
		Description: "Appliance repair service",
		ReferenceID: requestID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, models.NewUnavailableError("payment processor unavailable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		return nil, models.NewUnavailableError("payment processor unavailable", fmt.Errorf("gateway returned %d", resp.StatusCode))
	}

	var charge chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return nil, models.NewUnavailableError("payment processor returned malformed response", err)
	}

	result := &ChargeResult{Reference: charge.ID}
	switch charge.Status {
	case "paid", "confirmed":
		result.Status = models.PaymentStatusConfirmed
	case "pending", "pending_payment":
		result.Status = models.PaymentStatusPending
	default:
		result.Status = models.PaymentStatusFailed
	}
	return result, nil
}

// voucherReference generates an opaque reference for deferred payments.
func voucherReference() string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	return "ref_" + hex.EncodeToString(buf)
}
