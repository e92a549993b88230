package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/obuzietter/Messah-Enterprise/internal/domain"
	"github.com/obuzietter/Messah-Enterprise/internal/mpesa"
	"github.com/obuzietter/Messah-Enterprise/internal/repository"
	apperrors "github.com/obuzietter/Messah-Enterprise/pkg/errors"
)

// RateProvider quotes shipping rates for a cart.
type RateProvider interface {
	CollectRates(ctx context.Context, cart *domain.Cart) ([]domain.ShippingRate, error)
	RateByMethod(ctx context.Context, cart *domain.Cart, method string) (domain.ShippingRate, bool)
}

// PaymentProvider exposes the enabled payment methods.
type PaymentProvider interface {
	Methods() []domain.PaymentMethod
	IsEnabled(code string) bool
	RedirectURL(code string) string
}

// PushGateway sends a mobile money payment prompt.
type PushGateway interface {
	Push(ctx context.Context, req mpesa.PushRequest) (*mpesa.PushResponse, error)
}

// SessionStore keeps per-session checkout state outside the cart row.
type SessionStore interface {
	SetPreviousCartID(ctx context.Context, sessionID, cartID string) error
	TakePreviousCartID(ctx context.Context, sessionID string) (string, error)
	FlashOrder(ctx context.Context, sessionID, orderID string) error
	TakeOrder(ctx context.Context, sessionID string) (string, error)
	AcquireOrderLock(ctx context.Context, cartID string, ttl time.Duration) (bool, error)
	ReleaseOrderLock(ctx context.Context, cartID string) error
}

// EventPublisher emits checkout domain events.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *domain.Order) error
	PublishCheckoutFailed(ctx context.Context, cart *domain.Cart, reason string) error
}

// StepResult is the outcome of a checkout transition. Exactly one of the two
// shapes is populated: a redirect to a storefront location, or data for the
// client to render the next step.
type StepResult struct {
	Redirect    bool   `json:"redirect"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Data        any    `json:"data,omitempty"`
}

func redirectTo(url string) *StepResult {
	return &StepResult{Redirect: true, RedirectURL: url}
}

func withData(data any) *StepResult {
	return &StepResult{Redirect: false, Data: data}
}

// URLs holds the storefront locations checkout redirects to.
type URLs struct {
	Cart    string
	Login   string
	Success string
}

// Options holds orchestrator tunables.
type Options struct {
	MinimumOrderAmount int64
	Currency           string
	OrderLockTTL       time.Duration
}

// AddressInput is the address submission for the first checkout step.
type AddressInput struct {
	Billing        domain.Address  `json:"billing" validate:"required"`
	Shipping       *domain.Address `json:"shipping,omitempty"`
	UseForShipping bool            `json:"use_for_shipping"`
}

// CheckoutService drives a cart through address, shipping and payment
// selection into a persisted order.
type CheckoutService struct {
	carts     repository.CartRepository
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	rates     RateProvider
	payments  PaymentProvider
	push      PushGateway
	sessions  SessionStore
	events    EventPublisher
	urls      URLs
	opts      Options
	logger    *slog.Logger
}

// NewCheckoutService creates a checkout orchestrator.
func NewCheckoutService(
	carts repository.CartRepository,
	orders repository.OrderRepository,
	customers repository.CustomerRepository,
	rates RateProvider,
	payments PaymentProvider,
	push PushGateway,
	sessions SessionStore,
	events EventPublisher,
	urls URLs,
	opts Options,
	logger *slog.Logger,
) *CheckoutService {
	if opts.OrderLockTTL <= 0 {
		opts.OrderLockTTL = 30 * time.Second
	}
	return &CheckoutService{
		carts:     carts,
		orders:    orders,
		customers: customers,
		rates:     rates,
		payments:  payments,
		push:      push,
		sessions:  sessions,
		events:    events,
		urls:      urls,
		opts:      opts,
		logger:    logger,
	}
}

// currentCart loads the active cart for the session or fails with a
// precondition error pointing back at the cart page.
func (s *CheckoutService) currentCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.carts.GetActiveBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Precondition("There is no active cart for this session.", s.urls.Cart)
		}
		return nil, fmt.Errorf("load active cart: %w", err)
	}
	return cart, nil
}

// Summary returns the current cart state for rendering the checkout page.
func (s *CheckoutService) Summary(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.currentCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.CollectTotals()
	return cart, nil
}

// SubmitAddress stores the billing (and optionally shipping) address on the
// cart and returns either shipping rates, payment methods, or a redirect.
//
// An unauthenticated caller whose cart has no guest-eligible item is sent to
// the login page; this is a normal outcome, not an error.
func (s *CheckoutService) SubmitAddress(ctx context.Context, sessionID, customerID string, input AddressInput) (*StepResult, error) {
	cart, err := s.currentCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if customerID == "" && !cart.HasGuestCheckoutItems() {
		return redirectTo(s.urls.Login), nil
	}

	if cart.HasError {
		return redirectTo(s.urls.Cart), nil
	}

	shipping := input.Shipping
	if input.UseForShipping {
		billing := input.Billing
		shipping = &billing
	}

	if err := s.carts.SaveAddresses(ctx, cart.ID, &input.Billing, shipping); err != nil {
		return nil, fmt.Errorf("save addresses: %w", err)
	}
	cart.BillingAddress = &input.Billing
	cart.ShippingAddress = shipping

	if err := s.recomputeTotals(ctx, cart); err != nil {
		return nil, err
	}

	if cart.HasStockableItems() {
		rates, err := s.rates.CollectRates(ctx, cart)
		if err != nil {
			return nil, fmt.Errorf("collect shipping rates: %w", err)
		}
		if len(rates) == 0 {
			return redirectTo(s.urls.Cart), nil
		}
		return withData(map[string]any{"rates": rates}), nil
	}

	return withData(map[string]any{"methods": s.payments.Methods()}), nil
}

// SubmitShippingMethod applies the selected rate to the cart and returns the
// enabled payment methods.
func (s *CheckoutService) SubmitShippingMethod(ctx context.Context, sessionID, method string) (*StepResult, error) {
	cart, err := s.currentCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if cart.HasError {
		return nil, apperrors.Precondition("The cart cannot proceed to checkout.", s.urls.Cart)
	}

	if method == "" {
		return nil, apperrors.Precondition("Please select a shipping method.", s.urls.Cart)
	}

	rate, ok := s.rates.RateByMethod(ctx, cart, method)
	if !ok {
		return nil, apperrors.Precondition("The selected shipping method is no longer available.", s.urls.Cart)
	}

	if err := s.carts.SaveShippingMethod(ctx, cart.ID, rate.Method, rate.Amount); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Precondition("The selected shipping method could not be applied.", s.urls.Cart)
		}
		return nil, fmt.Errorf("save shipping method: %w", err)
	}
	cart.ShippingMethod = rate.Method
	cart.ShippingAmount = rate.Amount

	if err := s.recomputeTotals(ctx, cart); err != nil {
		return nil, err
	}

	return withData(map[string]any{"methods": s.payments.Methods()}), nil
}

// SubmitPaymentMethod applies the selected payment method to the cart and
// returns the updated cart summary.
func (s *CheckoutService) SubmitPaymentMethod(ctx context.Context, sessionID, method string) (*StepResult, error) {
	cart, err := s.currentCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if cart.HasError {
		return nil, apperrors.Precondition("The cart cannot proceed to checkout.", s.urls.Cart)
	}

	if method == "" {
		return nil, apperrors.Precondition("Please select a payment method.", s.urls.Cart)
	}

	if !s.payments.IsEnabled(method) {
		return nil, apperrors.Precondition("The selected payment method is not available.", s.urls.Cart)
	}

	if err := s.carts.SavePaymentMethod(ctx, cart.ID, method); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Precondition("The selected payment method could not be applied.", s.urls.Cart)
		}
		return nil, fmt.Errorf("save payment method: %w", err)
	}
	cart.PaymentMethod = method

	if err := s.recomputeTotals(ctx, cart); err != nil {
		return nil, err
	}

	return withData(map[string]any{"cart": cart}), nil
}

// SubmitOrder validates the cart, fires the mobile money prompt when that
// payment method is selected, creates the order, deactivates the cart and
// restores any previously deactivated cart for the session.
func (s *CheckoutService) SubmitOrder(ctx context.Context, sessionID, customerID string) (*StepResult, error) {
	cart, err := s.currentCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if cart.HasError {
		return redirectTo(s.urls.Cart), nil
	}

	if err := s.recomputeTotals(ctx, cart); err != nil {
		return nil, err
	}

	customer, err := s.cartCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if violation := ValidateOrder(cart, customer, s.opts.MinimumOrderAmount, s.opts.Currency); violation != nil {
		if err := s.events.PublishCheckoutFailed(ctx, cart, violation.Rule); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish checkout.failed event",
				slog.String("cart_id", cart.ID),
				slog.String("error", err.Error()),
			)
		}
		return nil, apperrors.OrderValidation(violation.Message)
	}

	// Duplicate submissions (client retries after a timeout) must not
	// create two orders from the same cart.
	acquired, err := s.sessions.AcquireOrderLock(ctx, cart.ID, s.opts.OrderLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire order lock: %w", err)
	}
	if !acquired {
		return nil, apperrors.Conflict("An order is already being placed for this cart.")
	}

	if cart.PaymentMethod == domain.MethodMoneyTransfer {
		s.triggerMobileMoneyPush(ctx, cart, customer)
	}

	if url := s.payments.RedirectURL(cart.PaymentMethod); url != "" {
		// A hosted gateway finishes the payment first; the order is
		// created by its callback, not here.
		if err := s.sessions.ReleaseOrderLock(ctx, cart.ID); err != nil {
			s.logger.WarnContext(ctx, "failed to release order lock",
				slog.String("cart_id", cart.ID),
				slog.String("error", err.Error()),
			)
		}
		return redirectTo(url), nil
	}

	order, err := s.orders.Create(ctx, domain.PrepareOrderPayload(cart))
	if err != nil {
		if relErr := s.sessions.ReleaseOrderLock(ctx, cart.ID); relErr != nil {
			s.logger.WarnContext(ctx, "failed to release order lock",
				slog.String("cart_id", cart.ID),
				slog.String("error", relErr.Error()),
			)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.carts.Deactivate(ctx, cart.ID); err != nil {
		return nil, fmt.Errorf("deactivate cart: %w", err)
	}

	s.restorePreviousCart(ctx, sessionID, cart.ID)

	if err := s.sessions.FlashOrder(ctx, sessionID, order.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to flash order id",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	// Publish event; log but do not fail on error.
	if err := s.events.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("cart_id", cart.ID),
		slog.String("payment_method", cart.PaymentMethod),
		slog.Int64("grand_total", cart.GrandTotal),
	)

	return redirectTo(s.urls.Success), nil
}

// CheckMinimumOrder evaluates the minimum order rule for the session's cart
// without mutating anything.
func (s *CheckoutService) CheckMinimumOrder(ctx context.Context, sessionID string) (MinimumOrderStatus, error) {
	cart, err := s.currentCart(ctx, sessionID)
	if err != nil {
		return MinimumOrderStatus{}, err
	}
	cart.CollectTotals()
	return CheckMinimumOrder(cart, s.opts.MinimumOrderAmount, s.opts.Currency), nil
}

// LastOrder returns the order flashed by the most recent successful checkout
// for this session. The flash is consumed by the call.
func (s *CheckoutService) LastOrder(ctx context.Context, sessionID string) (*domain.Order, error) {
	orderID, err := s.sessions.TakeOrder(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("order", "last")
		}
		return nil, fmt.Errorf("take flashed order: %w", err)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", orderID, err)
	}
	return order, nil
}

func (s *CheckoutService) recomputeTotals(ctx context.Context, cart *domain.Cart) error {
	cart.CollectTotals()
	if err := s.carts.UpdateTotals(ctx, cart); err != nil {
		return fmt.Errorf("update cart totals: %w", err)
	}
	return nil
}

func (s *CheckoutService) cartCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	if customerID == "" {
		return nil, nil
	}
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("unknown customer")
		}
		return nil, fmt.Errorf("load customer: %w", err)
	}
	return customer, nil
}

// triggerMobileMoneyPush sends the payment prompt for the cart's grand total
// to the customer's most recent address phone. Failures are logged and do
// not abort order creation; payment confirmation arrives out of band through
// the gateway callback.
func (s *CheckoutService) triggerMobileMoneyPush(ctx context.Context, cart *domain.Cart, customer *domain.Customer) {
	phone := s.pushPhone(ctx, cart, customer)
	if phone == "" {
		return
	}

	normalized, err := mpesa.NormalizePhone(phone)
	if err != nil {
		s.logger.WarnContext(ctx, "mobile money push skipped, invalid phone",
			slog.String("cart_id", cart.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	_, err = s.push.Push(ctx, mpesa.PushRequest{
		Phone:     normalized,
		Amount:    cart.GrandTotal,
		Currency:  cart.Currency,
		Reference: cart.ID,
		Narrative: "Order payment",
	})
	if err != nil {
		s.logger.WarnContext(ctx, "mobile money push failed",
			slog.String("cart_id", cart.ID),
			slog.String("error", err.Error()),
		)
	}
}

// pushPhone resolves the phone to prompt: the customer's latest stored
// address wins, falling back to the cart's billing address.
func (s *CheckoutService) pushPhone(ctx context.Context, cart *domain.Cart, customer *domain.Customer) string {
	if customer != nil {
		addr, err := s.customers.LatestAddress(ctx, customer.ID)
		if err == nil && addr.Phone != "" {
			return addr.Phone
		}
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to load customer address for push",
				slog.String("customer_id", customer.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	if cart.BillingAddress != nil {
		return cart.BillingAddress.Phone
	}
	return ""
}

// restorePreviousCart reactivates the cart that was deactivated by the last
// order for this session, and remembers the cart just deactivated.
func (s *CheckoutService) restorePreviousCart(ctx context.Context, sessionID, deactivatedCartID string) {
	prevID, err := s.sessions.TakePreviousCartID(ctx, sessionID)
	if err == nil && prevID != "" {
		if actErr := s.carts.Activate(ctx, prevID); actErr != nil {
			s.logger.WarnContext(ctx, "failed to reactivate previous cart",
				slog.String("cart_id", prevID),
				slog.String("error", actErr.Error()),
			)
		}
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.WarnContext(ctx, "failed to read previous cart id",
			slog.String("error", err.Error()),
		)
	}

	if err := s.sessions.SetPreviousCartID(ctx, sessionID, deactivatedCartID); err != nil {
		s.logger.WarnContext(ctx, "failed to remember deactivated cart",
			slog.String("cart_id", deactivatedCartID),
			slog.String("error", err.Error()),
		)
	}
}
