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

	"github.com/clinicai/clinicai-api/config"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrGatewayUnavailable wraps transport-level failures talking to the payment provider
var ErrGatewayUnavailable = errors.New("payment gateway unreachable")

// BankInfo is the manual transfer fallback shown next to the QR code
type BankInfo struct {
	BankCode        string `json:"bankCode"`
	AccountNumber   string `json:"accountNumber"`
	AccountName     string `json:"accountName"`
	TransferContent string `json:"transferContent"`
}

// PaymentIntent is the provider's created payment session
type PaymentIntent struct {
	OrderCode string          `json:"orderCode"`
	Amount    decimal.Decimal `json:"amount"`
	QRUrl     string          `json:"qrUrl"`
	BankInfo  BankInfo        `json:"bankInfo"`
}

// PaymentGateway is the external settlement provider. Both operations are
// idempotent by order code.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, orderCode string, amount decimal.Decimal) (*PaymentIntent, error)
	CheckPayment(ctx context.Context, orderCode string) (bool, error)
}

// sePayGateway talks to the SePay-compatible QR payment API
type sePayGateway struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

func NewSePayGateway(cfg config.PaymentConfig, log *logrus.Logger) PaymentGateway {
	return &sePayGateway{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		log:     log,
	}
}

type createPaymentRequest struct {
	OrderCode string          `json:"orderCode"`
	Amount    decimal.Decimal `json:"amount"`
}

func (g *sePayGateway) CreatePayment(ctx context.Context, orderCode string, amount decimal.Decimal) (*PaymentIntent, error) {
	body, err := json.Marshal(createPaymentRequest{OrderCode: orderCode, Amount: amount})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/create", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Warnf("Payment create request failed for order %s: %+v", orderCode, err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		// Provider message is surfaced verbatim to the user
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("payment provider error (HTTP %d): %s", resp.StatusCode, string(raw))
	}

	var intent PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	return &intent, nil
}

type checkPaymentResponse struct {
	IsPaid bool   `json:"isPaid"`
	Status string `json:"status"`
}

func (g *sePayGateway) CheckPayment(ctx context.Context, orderCode string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/check/"+orderCode, nil)
	if err != nil {
		return false, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return false, fmt.Errorf("payment check error (HTTP %d): %s", resp.StatusCode, string(raw))
	}

	var result checkPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("decode check response: %w", err)
	}

	// Some provider versions report status "PAID" instead of the boolean
	return result.IsPaid || result.Status == "PAID", nil
}

// NewOrderCode generates an idempotent provider order code
func NewOrderCode() string {
	return fmt.Sprintf("CLINIC%d", time.Now().UnixNano())
}
