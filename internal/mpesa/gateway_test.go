package mpesa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obuzietter/Messah-Enterprise/pkg/httpclient"
	"github.com/obuzietter/Messah-Enterprise/pkg/logger"
)

func newTestGateway(t *testing.T, handler http.Handler) (*Gateway, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("mpesa-test"),
		logger.New("mpesa-test", "error"),
	)

	gw := NewGateway(Config{
		BaseURL:        server.URL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		Passkey:        "passkey",
		CallbackURL:    "https://shop.example.com/mpesa/callback",
	}, client, logger.New("mpesa-test", "error"))

	return gw, server
}

func TestGateway_Push_Success(t *testing.T) {
	var gotPush stkPushPayload

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1", "expires_in": "3599"})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPush))
		json.NewEncoder(w).Encode(map[string]string{
			"MerchantRequestID":   "mr-1",
			"CheckoutRequestID":   "cr-1",
			"ResponseCode":        "0",
			"ResponseDescription": "Success. Request accepted for processing",
		})
	})

	gw, _ := newTestGateway(t, mux)

	resp, err := gw.Push(context.Background(), PushRequest{
		Phone:     "254712345678",
		Amount:    150000,
		Currency:  "KES",
		Reference: "order-cart-1",
		Narrative: "Checkout payment",
	})

	require.NoError(t, err)
	assert.Equal(t, "cr-1", resp.CheckoutRequestID)
	assert.Equal(t, "254712345678", gotPush.PhoneNumber)
	assert.Equal(t, "1500", gotPush.Amount)
	assert.Equal(t, "174379", gotPush.BusinessShortCode)
	assert.Equal(t, "CustomerPayBillOnline", gotPush.TransactionType)
	assert.NotEmpty(t, gotPush.Password)
}

func TestGateway_Push_Rejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1", "expires_in": "3599"})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"requestId":    "req-1",
			"errorCode":    "400.002.02",
			"errorMessage": "Bad Request - Invalid PhoneNumber",
		})
	})

	gw, _ := newTestGateway(t, mux)

	resp, err := gw.Push(context.Background(), PushRequest{
		Phone:    "254700000000",
		Amount:   1000,
		Currency: "KES",
	})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Invalid PhoneNumber")
}

func TestGateway_Push_TokenFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	gw, _ := newTestGateway(t, mux)

	_, err := gw.Push(context.Background(), PushRequest{Phone: "254712345678", Amount: 1000, Currency: "KES"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "obtain access token")
}

func TestGateway_Push_TokenReused(t *testing.T) {
	var tokenCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1", "expires_in": "3599"})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"MerchantRequestID": "mr", "CheckoutRequestID": "cr",
			"ResponseCode": "0", "ResponseDescription": "ok",
		})
	})

	gw, _ := newTestGateway(t, mux)

	for i := 0; i < 3; i++ {
		_, err := gw.Push(context.Background(), PushRequest{Phone: "254712345678", Amount: 1000, Currency: "KES"})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, tokenCalls)
}
