// Package mpesa integrates with the Daraja API to send STK push payment
// prompts to customer phones during checkout.
package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/obuzietter/Messah-Enterprise/pkg/httpclient"
	"github.com/obuzietter/Messah-Enterprise/pkg/money"
)

const (
	tokenPath   = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath = "/mpesa/stkpush/v1/processrequest"

	// Tokens are valid for an hour; refresh a little early.
	tokenExpirySlack = 60 * time.Second
)

// Config holds Daraja API credentials and endpoints.
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
}

// Gateway sends STK push requests through the Daraja API.
type Gateway struct {
	cfg    Config
	client *httpclient.CircuitBreakerClient
	logger *slog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewGateway creates an STK push gateway.
func NewGateway(cfg Config, client *httpclient.CircuitBreakerClient, logger *slog.Logger) *Gateway {
	return &Gateway{cfg: cfg, client: client, logger: logger}
}

// PushRequest is one payment prompt sent to a customer phone.
type PushRequest struct {
	Phone     string // international format, e.g. 254712345678
	Amount    int64  // minor units
	Currency  string
	Reference string // shown on the customer statement
	Narrative string
}

// PushResponse is the gateway acknowledgement of an accepted prompt.
type PushResponse struct {
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResponseCode      string `json:"ResponseCode"`
	ResponseDesc      string `json:"ResponseDescription"`
}

type stkPushPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type apiError struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// Push sends an STK push prompt. The returned error covers transport
// failures, authentication failures and gateway rejections alike; callers
// decide how fatal that is for their flow.
func (g *Gateway) Push(ctx context.Context, req PushRequest) (*PushResponse, error) {
	token, err := g.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtain access token: %w", err)
	}

	timestamp := time.Now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString(
		[]byte(g.cfg.ShortCode + g.cfg.Passkey + timestamp),
	)

	payload := stkPushPayload{
		BusinessShortCode: g.cfg.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            money.ToMajor(req.Amount, req.Currency).StringFixed(0),
		PartyA:            req.Phone,
		PartyB:            g.cfg.ShortCode,
		PhoneNumber:       req.Phone,
		CallBackURL:       g.cfg.CallbackURL,
		AccountReference:  req.Reference,
		TransactionDesc:   req.Narrative,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal push payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+stkPushPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create push request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(ctx, httpReq)
	if err != nil {
		return nil, fmt.Errorf("send push request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return nil, fmt.Errorf("read push response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.ErrorMessage != "" {
			return nil, fmt.Errorf("push rejected (%s): %s", apiErr.ErrorCode, apiErr.ErrorMessage)
		}
		return nil, fmt.Errorf("push rejected: status %d", resp.StatusCode)
	}

	var pushResp PushResponse
	if err := json.Unmarshal(respBody, &pushResp); err != nil {
		return nil, fmt.Errorf("decode push response: %w", err)
	}

	if pushResp.ResponseCode != "0" {
		return nil, fmt.Errorf("push not accepted: %s", pushResp.ResponseDesc)
	}

	g.logger.InfoContext(ctx, "stk push accepted",
		slog.String("merchant_request_id", pushResp.MerchantRequestID),
		slog.String("checkout_request_id", pushResp.CheckoutRequestID),
	)

	return &pushResp, nil
}

// token returns a valid OAuth access token, refreshing it when expired.
func (g *Gateway) token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.accessToken != "" && time.Now().Before(g.tokenExpiry) {
		return g.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+tokenPath, nil)
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(g.cfg.ConsumerKey, g.cfg.ConsumerSecret)

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed: status %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token response missing access token")
	}

	ttl := time.Hour
	if secs, err := time.ParseDuration(tok.ExpiresIn + "s"); err == nil && secs > 0 {
		ttl = secs
	}

	g.accessToken = tok.AccessToken
	g.tokenExpiry = time.Now().Add(ttl - tokenExpirySlack)

	return g.accessToken, nil
}
