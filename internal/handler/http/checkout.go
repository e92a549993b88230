package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/obuzietter/Messah-Enterprise/internal/domain"
	"github.com/obuzietter/Messah-Enterprise/internal/service"
	"github.com/obuzietter/Messah-Enterprise/pkg/httputil"
	"github.com/obuzietter/Messah-Enterprise/pkg/validator"
)

// CheckoutHandler handles HTTP requests for checkout endpoints.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddressRequest is one postal address in a request body.
type AddressRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required,len=2"`
	Phone      string `json:"phone"`
}

// SubmitAddressRequest is the JSON request body for the address step.
type SubmitAddressRequest struct {
	Billing        AddressRequest  `json:"billing" validate:"required"`
	Shipping       *AddressRequest `json:"shipping,omitempty"`
	UseForShipping bool            `json:"use_for_shipping"`
}

// SubmitShippingMethodRequest is the JSON request body for the shipping step.
type SubmitShippingMethodRequest struct {
	ShippingMethod string `json:"shipping_method" validate:"required"`
}

// SubmitPaymentMethodRequest is the JSON request body for the payment step.
type SubmitPaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

func toAddress(a AddressRequest) domain.Address {
	return domain.Address{
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

// sessionID extracts the storefront session from the request, writing a 400
// response when missing.
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get("X-Session-ID")
	if id == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
		})
		return "", false
	}
	return id, true
}

// --- Handlers ---

// Summary handles GET /api/v1/checkout/summary
func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	cart, err := h.service.Summary(r.Context(), sid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// SubmitAddress handles POST /api/v1/checkout/addresses
//
// The step result is written as the bare response body so the redirect
// contract stays identical across all transition endpoints.
func (h *CheckoutHandler) SubmitAddress(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req SubmitAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := service.AddressInput{
		Billing:        toAddress(req.Billing),
		UseForShipping: req.UseForShipping,
	}
	if req.Shipping != nil {
		shipping := toAddress(*req.Shipping)
		input.Shipping = &shipping
	}

	result, err := h.service.SubmitAddress(r.Context(), sid, r.Header.Get("X-Customer-ID"), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// SubmitShippingMethod handles POST /api/v1/checkout/shipping-method
func (h *CheckoutHandler) SubmitShippingMethod(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req SubmitShippingMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	result, err := h.service.SubmitShippingMethod(r.Context(), sid, req.ShippingMethod)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// SubmitPaymentMethod handles POST /api/v1/checkout/payment-method
func (h *CheckoutHandler) SubmitPaymentMethod(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req SubmitPaymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	result, err := h.service.SubmitPaymentMethod(r.Context(), sid, req.PaymentMethod)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// SubmitOrder handles POST /api/v1/checkout/order
func (h *CheckoutHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	result, err := h.service.SubmitOrder(r.Context(), sid, r.Header.Get("X-Customer-ID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// CheckMinimumOrder handles GET /api/v1/checkout/minimum-order
//
// The body is the bare {status, message} pair; clients poll this from the
// cart page before enabling the checkout button.
func (h *CheckoutHandler) CheckMinimumOrder(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	status, err := h.service.CheckMinimumOrder(r.Context(), sid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, status)
}

// LastOrder handles GET /api/v1/checkout/order/last
func (h *CheckoutHandler) LastOrder(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	order, err := h.service.LastOrder(r.Context(), sid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}
