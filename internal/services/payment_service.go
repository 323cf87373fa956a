// internal/services/payment_service.go
package services

import (
	"context"
	"errors"
	"math"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/karigarh/marketplace-backend/internal/apperrors"
	"github.com/karigarh/marketplace-backend/internal/config"
	"github.com/karigarh/marketplace-backend/internal/utils"
)

// PaymentGateway is the checkout contract the order reconciler depends on.
// Charge opens a payment for the given amount (minor currency units) and
// returns an opaque payment identifier on success; failure is one of the
// taxonomy errors (cancelled, failed-with-reason, gateway unavailable).
// Verify checks a payment identifier supplied by the client as proof.
type PaymentGateway interface {
	Charge(ctx context.Context, amount int64, metadata map[string]string) (string, error)
	Verify(ctx context.Context, paymentID string) error
}

// StripeGateway implements PaymentGateway on Stripe payment intents.
type StripeGateway struct {
	currency string
}

func NewStripeGateway(cfg *config.Config) *StripeGateway {
	stripe.Key = cfg.Payment.StripeSecretKey

	return &StripeGateway{currency: cfg.Payment.Currency}
}

func (g *StripeGateway) Charge(ctx context.Context, amount int64, metadata map[string]string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(g.currency),
		Confirm:  stripe.Bool(true),
	}
	params.Context = ctx

	if pm, ok := metadata["payment_method"]; ok && pm != "" {
		params.PaymentMethod = stripe.String(pm)
	}
	for k, v := range metadata {
		if k == "payment_method" {
			continue
		}
		params.AddMetadata(k, v)
	}

	// One key per charge attempt so an SDK-level retry cannot double-charge.
	if key, err := utils.GenerateIdempotencyKey(); err == nil {
		params.IdempotencyKey = stripe.String(key)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", mapStripeError(err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusRequiresCapture:
		return pi.ID, nil
	case stripe.PaymentIntentStatusCanceled:
		return "", apperrors.ErrPaymentCancelled
	default:
		return "", apperrors.NewPaymentError("payment not completed: " + string(pi.Status))
	}
}

func (g *StripeGateway) Verify(ctx context.Context, paymentID string) error {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(paymentID, params)
	if err != nil {
		return mapStripeError(err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusRequiresCapture:
		return nil
	case stripe.PaymentIntentStatusCanceled:
		return apperrors.ErrPaymentCancelled
	default:
		return apperrors.NewPaymentError("payment not completed: " + string(pi.Status))
	}
}

func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return apperrors.ErrGatewayUnavailable
	}

	switch stripeErr.Type {
	case stripe.ErrorTypeAPI:
		return apperrors.ErrGatewayUnavailable
	default:
		return apperrors.NewPaymentError(stripeErr.Msg)
	}
}

// FeeSplit is a display-only breakdown of an order amount. It is never
// written to any ledger; the platform percentage is presentation, not
// settlement.
type FeeSplit struct {
	Subtotal      int64   `json:"subtotal"`
	PlatformFee   int64   `json:"platform_fee"`
	ProducerShare int64   `json:"producer_share"`
	FeePercent    float64 `json:"fee_percent"`
	Currency      string  `json:"currency"`
}

type PaymentService struct {
	gateway PaymentGateway
	cfg     *config.Config
}

func NewPaymentService(gateway PaymentGateway, cfg *config.Config) *PaymentService {
	return &PaymentService{gateway: gateway, cfg: cfg}
}

func (s *PaymentService) Gateway() PaymentGateway {
	return s.gateway
}

// Quote computes the fee split for price × quantity in minor units.
func (s *PaymentService) Quote(price int64, quantity int) FeeSplit {
	subtotal := price * int64(quantity)
	fee := int64(math.Round(float64(subtotal) * s.cfg.Payment.PlatformFeePercent / 100))

	return FeeSplit{
		Subtotal:      subtotal,
		PlatformFee:   fee,
		ProducerShare: subtotal - fee,
		FeePercent:    s.cfg.Payment.PlatformFeePercent,
		Currency:      s.cfg.Payment.Currency,
	}
}

// CheckoutConfig is what a client needs to open the payment widget.
func (s *PaymentService) CheckoutConfig() map[string]interface{} {
	return map[string]interface{}{
		"publishable_key": s.cfg.Payment.StripePublishableKey,
		"currency":        s.cfg.Payment.Currency,
		"require_upfront": s.cfg.Payment.RequireUpfront,
	}
}
