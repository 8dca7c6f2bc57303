package checkout

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scootershop-backend/internal/orders"
	"github.com/angelmondragon/scootershop-backend/pkg/auth/session"
	pkgcheckout "github.com/angelmondragon/scootershop-backend/pkg/checkout"
	"github.com/angelmondragon/scootershop-backend/pkg/config"
	"github.com/angelmondragon/scootershop-backend/pkg/db/models"
	"github.com/angelmondragon/scootershop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
	"github.com/angelmondragon/scootershop-backend/pkg/logger"
	"github.com/angelmondragon/scootershop-backend/pkg/metrics"
	"github.com/angelmondragon/scootershop-backend/pkg/payments"
)

const successMessage = "Pedido realizado com sucesso!"

// Service places orders through the configured payment provider.
type Service interface {
	Execute(ctx context.Context, input Input) (*Result, error)
}

type orderWriter interface {
	Create(ctx context.Context, order *models.Order) error
}

// ServiceParams bundles the checkout dependencies.
type ServiceParams struct {
	Sessions session.Resolver
	Provider payments.Provider
	Orders   orderWriter
	Logger   *logger.Logger
	Metrics  *metrics.CheckoutMetrics
	Payments config.PaymentsConfig
	Checkout config.CheckoutConfig
}

type service struct {
	sessions session.Resolver
	provider payments.Provider
	orders   orderWriter
	logg     *logger.Logger
	metrics  *metrics.CheckoutMetrics
	payments config.PaymentsConfig
	checkout config.CheckoutConfig
	now      func() time.Time
	newRef   func() string
}

var _ orderWriter = (orders.Repository)(nil)

func NewService(params ServiceParams) (Service, error) {
	if params.Sessions == nil {
		return nil, fmt.Errorf("session resolver required")
	}
	if params.Provider == nil {
		return nil, fmt.Errorf("payment provider required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		sessions: params.Sessions,
		provider: params.Provider,
		orders:   params.Orders,
		logg:     params.Logger,
		metrics:  params.Metrics,
		payments: params.Payments,
		checkout: params.Checkout,
		now:      time.Now,
		newRef:   func() string { return uuid.NewString() },
	}, nil
}

func (s *service) Execute(ctx context.Context, input Input) (*Result, error) {
	providerName := s.provider.Name()

	lines := toLines(input.Items)
	if err := pkgcheckout.ValidateLines(lines); err != nil {
		s.metrics.IncOutcome(providerName, metrics.OutcomeRejected)
		return nil, err
	}

	total, err := s.resolveTotal(ctx, input.Total, lines)
	if err != nil {
		s.metrics.IncOutcome(providerName, metrics.OutcomeRejected)
		return nil, err
	}

	userID := s.resolveUser(ctx, input.Token)
	if userID != nil {
		ctx = s.logg.WithUserID(ctx, strconv.FormatUint(*userID, 10))
	}

	cart := payments.Cart{
		Reference: s.newRef(),
		Items:     toPaymentItems(input.Items),
		Total:     total,
		Currency:  s.payments.Currency,
		BackURLs: payments.BackURLs{
			Success: s.payments.SuccessURL,
			Failure: s.payments.FailureURL,
			Pending: s.payments.PendingURL,
		},
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"provider":  providerName,
		"reference": cart.Reference,
	})

	pref, err := s.createPreference(ctx, cart)
	if err != nil {
		s.metrics.IncOutcome(providerName, metrics.OutcomeProviderError)
		s.logg.Error(ctx, "payment preference failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentProvider, err, "create payment preference")
	}

	order := &models.Order{
		ID:       orderID(pref.ID, s.now()),
		UserID:   userID,
		Items:    toOrderItems(input.Items),
		Total:    total,
		Status:   enums.OrderStatusPending,
		Provider: providerName,
	}
	ctx = s.logg.WithOrderID(ctx, order.ID)
	if err := s.orders.Create(ctx, order); err != nil {
		s.metrics.IncOutcome(providerName, metrics.OutcomeStorageError)
		s.logg.Error(ctx, "persist order failed after preference was created", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "persist order")
	}

	s.metrics.IncOutcome(providerName, metrics.OutcomeSuccess)
	s.logg.Info(ctx, "checkout completed")
	return &Result{
		OrderID:      order.ID,
		PreferenceID: pref.ID,
		RedirectURL:  pref.RedirectURL,
		Message:      successMessage,
	}, nil
}

func (s *service) resolveTotal(ctx context.Context, submitted *decimal.Decimal, lines []pkgcheckout.LineInput) (decimal.Decimal, error) {
	if submitted == nil {
		return pkgcheckout.SumLines(lines).Round(2), nil
	}
	if submitted.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "total must not be negative")
	}
	computed, mismatch := pkgcheckout.TotalMismatch(*submitted, lines)
	if !mismatch {
		return *submitted, nil
	}
	if s.checkout.EnforceTotal {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "total does not match items").WithDetails(map[string]any{
			"submitted": submitted.StringFixed(2),
			"computed":  computed.StringFixed(2),
		})
	}
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
		"submitted_total": submitted.StringFixed(2),
		"computed_total":  computed.StringFixed(2),
	}), "checkout total does not match item sum")
	return *submitted, nil
}

// resolveUser never fails: lookup errors and unknown tokens both mean a guest order.
func (s *service) resolveUser(ctx context.Context, token string) *uint64 {
	if token == "" {
		return nil
	}
	principal, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		s.logg.Error(ctx, "session lookup failed, continuing as guest", err)
		return nil
	}
	if principal == nil {
		return nil
	}
	id := principal.UserID
	return &id
}

func (s *service) createPreference(ctx context.Context, cart payments.Cart) (*payments.Preference, error) {
	if s.payments.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.payments.Timeout)
		defer cancel()
	}
	start := time.Now()
	pref, err := s.provider.CreatePaymentPreference(ctx, cart)
	s.metrics.ObserveProvider(s.provider.Name(), time.Since(start))
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return nil, fmt.Errorf("provider returned no preference")
	}
	if pref.RedirectURL == "" {
		return nil, payments.ErrMissingRedirect
	}
	return pref, nil
}

// orderID prefers the provider id and falls back to the unix millisecond timestamp.
func orderID(preferenceID string, now time.Time) string {
	if preferenceID != "" {
		return preferenceID
	}
	return strconv.FormatInt(now.UnixMilli(), 10)
}

func toLines(items []ItemInput) []pkgcheckout.LineInput {
	out := make([]pkgcheckout.LineInput, 0, len(items))
	for _, item := range items {
		out = append(out, pkgcheckout.LineInput{Name: item.Name, UnitPrice: item.UnitPrice, Quantity: item.Quantity})
	}
	return out
}

func toPaymentItems(items []ItemInput) []payments.Item {
	out := make([]payments.Item, 0, len(items))
	for _, item := range items {
		out = append(out, payments.Item{Name: item.Name, UnitPrice: item.UnitPrice, Quantity: item.Quantity})
	}
	return out
}

func toOrderItems(items []ItemInput) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.OrderItem{Name: item.Name, UnitPrice: item.UnitPrice, Quantity: item.Quantity})
	}
	return out
}
