package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-service/internal/util"

	"github.com/stripe/stripe-go/v78"
	checkoutsession "github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/client"
	"go.uber.org/zap"
)

// Metadata keys round-tripped by the gateway on every related callback.
// The gateway must echo them back unmodified.
const (
	MetadataOrderID = "orderId"
	MetadataUserID  = "userId"
)

// CheckoutLine is one gateway-side line item. UnitPrice is in major
// currency units; the wire format uses minor units.
type CheckoutLine struct {
	Name      string
	UnitPrice int64
	Quantity  int
}

// CheckoutSessionRequest describes the hosted checkout to open
type CheckoutSessionRequest struct {
	OrderID string
	UserID  string
	Lines   []CheckoutLine
}

// CheckoutSession is the gateway's ephemeral record of the hosted payment
type CheckoutSession struct {
	SessionID string
	URL       string
}

// SessionMetadata is the opaque order/user reference carried by a session
type SessionMetadata struct {
	OrderID string
	UserID  string
}

type sessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	List(params *stripe.CheckoutSessionListParams) *checkoutsession.Iter
}

// Config configures the Stripe gateway
type Config struct {
	APIKey     string
	Currency   string
	SuccessURL string
	CancelURL  string
}

// StripeGateway creates hosted checkout sessions and resolves them back
// from webhook payment references
type StripeGateway struct {
	sessions   sessionAPI
	currency   string
	successURL string
	cancelURL  string
	logger     *zap.Logger
}

// NewStripeGateway constructs the gateway from configuration
func NewStripeGateway(cfg Config) (*StripeGateway, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("stripe api key is required")
	}

	sc := client.New(apiKey, nil)

	return &StripeGateway{
		sessions:   sc.CheckoutSessions,
		currency:   strings.ToLower(cfg.Currency),
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		logger:     util.GetLogger(),
	}, nil
}

// CreateCheckoutSession opens a hosted checkout for the order. The order
// and user identifiers ride along as metadata on both the session and its
// payment intent so the webhook reconciler can find its way back.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error) {
	if req.OrderID == "" || req.UserID == "" {
		return nil, errors.New("checkout session requires order and user identifiers")
	}

	metadata := map[string]string{
		MetadataOrderID: req.OrderID,
		MetadataUserID:  req.UserID,
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
		Metadata:   metadata,
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: metadata,
		},
	}
	params.Context = ctx

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Lines))
	for _, line := range req.Lines {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(line.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(g.currency),
				UnitAmount: stripe.Int64(line.UnitPrice * 100),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
			},
		})
	}
	params.LineItems = lineItems

	session, err := g.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	g.logger.Info("Checkout session created",
		zap.String("session_id", session.ID),
		zap.String("order_id", req.OrderID))

	return &CheckoutSession{SessionID: session.ID, URL: session.URL}, nil
}

// ResolveSessionByPaymentReference looks up the checkout session behind a
// payment intent and returns its order/user metadata. A missing session is
// (nil, nil): duplicate or unrelated deliveries are expected, not errors.
func (g *StripeGateway) ResolveSessionByPaymentReference(ctx context.Context, paymentRef string) (*SessionMetadata, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(paymentRef),
	}
	params.Context = ctx

	iter := g.sessions.List(params)
	for iter.Next() {
		session := iter.CheckoutSession()
		meta := &SessionMetadata{
			OrderID: session.Metadata[MetadataOrderID],
			UserID:  session.Metadata[MetadataUserID],
		}
		if meta.OrderID != "" && meta.UserID != "" {
			return meta, nil
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list checkout sessions: %w", err)
	}

	return nil, nil
}
