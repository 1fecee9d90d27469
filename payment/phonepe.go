package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/palrajin0126/ecom/apperrors"
	"github.com/palrajin0126/ecom/config"
)

// Client talks to the PhonePe payment gateway.
type Client struct {
	baseURL     string
	merchantID  string
	saltKey     string
	payPath     string
	statusPath  string
	redirectURL string
	callbackURL string
	http        *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:     cfg.GatewayBaseURL,
		merchantID:  cfg.GatewayMerchantID,
		saltKey:     cfg.GatewaySaltKey,
		payPath:     cfg.GatewayPayPath,
		statusPath:  cfg.GatewayStatusPath,
		redirectURL: cfg.PaymentRedirect,
		callbackURL: cfg.PaymentCallback,
		http:        &http.Client{Timeout: 15 * time.Second},
	}
}

// NewMerchantTransactionID returns a transaction id unique per attempt.
// Repeated or concurrent checkouts must never share one, since it is the
// key the callback correlates on.
func NewMerchantTransactionID() string {
	return "MT-" + uuid.NewString()
}

type paymentInstrument struct {
	Type string `json:"type"`
}

type payRequest struct {
	MerchantID            string            `json:"merchantId"`
	MerchantTransactionID string            `json:"merchantTransactionId"`
	MerchantUserID        string            `json:"merchantUserId"`
	Amount                int64             `json:"amount"`
	RedirectURL           string            `json:"redirectUrl"`
	RedirectMode          string            `json:"redirectMode"`
	CallbackURL           string            `json:"callbackUrl"`
	MobileNumber          string            `json:"mobileNumber"`
	PaymentInstrument     paymentInstrument `json:"paymentInstrument"`
}

type payResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		InstrumentResponse struct {
			RedirectInfo struct {
				URL string `json:"url"`
			} `json:"redirectInfo"`
		} `json:"instrumentResponse"`
	} `json:"data"`
}

// CreatePayment registers a pay-page session with the gateway and returns
// the URL the client should be redirected to. Amount is in paise. No local
// state is touched here; a failed call is retryable from scratch.
func (c *Client) CreatePayment(ctx context.Context, txnID, userID, mobile string, amount int64) (string, error) {
	payload := payRequest{
		MerchantID:            c.merchantID,
		MerchantTransactionID: txnID,
		MerchantUserID:        userID,
		Amount:                amount,
		RedirectURL:           c.redirectURL,
		RedirectMode:          "REDIRECT",
		CallbackURL:           c.callbackURL,
		MobileNumber:          mobile,
		PaymentInstrument:     paymentInstrument{Type: "PAY_PAGE"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	checksum := ChecksumRaw(body, c.payPath, c.saltKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.payPath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-VERIFY", checksum)
	req.Header.Set("X-MERCHANT-ID", c.merchantID)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrPaymentGateway, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrPaymentGateway, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.Wrap(apperrors.ErrPaymentGateway,
			fmt.Errorf("gateway returned %d: %s", resp.StatusCode, respBody))
	}

	var parsed payResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", apperrors.Wrap(apperrors.ErrPaymentGateway, err)
	}
	redirect := parsed.Data.InstrumentResponse.RedirectInfo.URL
	if redirect == "" {
		return "", apperrors.Wrap(apperrors.ErrPaymentGateway,
			fmt.Errorf("gateway returned no redirect url (code %s)", parsed.Code))
	}
	return redirect, nil
}

// VerifyCallback checks the X-Verify header against the raw callback body.
func (c *Client) VerifyCallback(body []byte, xVerify string) bool {
	return VerifyChecksum(body, c.statusPath, c.saltKey, xVerify)
}

// CallbackPayload is the gateway's asynchronous status notification.
type CallbackPayload struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		MerchantID            string `json:"merchantId"`
		MerchantTransactionID string `json:"merchantTransactionId"`
		TransactionID         string `json:"transactionId"`
		Amount                int64  `json:"amount"`
		State                 string `json:"state"`
		ResponseCode          string `json:"responseCode"`
		PaymentInstrument     struct {
			Type            string `json:"type"`
			PgTransactionID string `json:"pgTransactionId"`
		} `json:"paymentInstrument"`
	} `json:"data"`
}

// ParseCallback decodes a verified callback body.
func ParseCallback(body []byte) (*CallbackPayload, error) {
	var payload CallbackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if payload.Data.MerchantTransactionID == "" {
		return nil, fmt.Errorf("callback missing merchant transaction id")
	}
	return &payload, nil
}

// Paid reports whether the notification represents a completed payment.
func (p CallbackPayload) Paid() bool {
	return p.Code == "PAYMENT_SUCCESS" || p.Data.State == "COMPLETED"
}
