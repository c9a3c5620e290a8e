// Package checkout runs the purchase flow: charge the cart total through a
// payment gateway, mark the purchased products sold, then clear the cart.
// The gateway is an external collaborator behind a small contract.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oldwares/curio/pkg/storefront/cartstore"
	"github.com/oldwares/curio/pkg/storefront/uistate"
	"github.com/shopspring/decimal"
)

// ErrEmptyCart is returned when checkout is attempted with no cart lines.
var ErrEmptyCart = errors.New("cart is empty")

// CustomerInfo is the billing information collected at checkout.
type CustomerInfo struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,email"`
	Address string `validate:"required"`
	City    string `validate:"required"`
	Zip     string `validate:"required"`
}

// ChargeRequest is the payload sent to the payment gateway.
type ChargeRequest struct {
	Amount   decimal.Decimal
	Currency string
	Customer CustomerInfo
	Lines    []cartstore.Line
}

// Receipt is the gateway's record of a successful charge.
type Receipt struct {
	TransactionID string
	Amount        decimal.Decimal
	ChargedAt     time.Time
}

// Gateway is the payment provider contract.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Receipt, error)
}

// ProductMarker flips a product's sold flag after purchase. api.Client satisfies it.
type ProductMarker interface {
	MarkSold(ctx context.Context, id int64) error
}

// SimulatedGateway approves every charge after a fixed delay. It stands in
// for a real provider; no money moves.
type SimulatedGateway struct {
	Delay time.Duration
}

// Charge waits out the configured delay and returns an approving receipt.
func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*Receipt, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return &Receipt{
		TransactionID: uuid.NewString(),
		Amount:        req.Amount,
		ChargedAt:     time.Now(),
	}, nil
}

// Processor coordinates the checkout flow across the cart, the UI state and
// the backend.
type Processor struct {
	cart     *cartstore.Store
	ui       *uistate.Store
	gateway  Gateway
	products ProductMarker
	validate *validator.Validate
	logger   *slog.Logger
}

// NewProcessor creates a checkout processor.
func NewProcessor(cart *cartstore.Store, ui *uistate.Store, gateway Gateway, products ProductMarker, logger *slog.Logger) *Processor {
	return &Processor{
		cart:     cart,
		ui:       ui,
		gateway:  gateway,
		products: products,
		validate: validator.New(),
		logger:   logger.With("component", "checkout"),
	}
}

// Checkout charges the cart total and marks every purchased product sold.
// On success the user is notified and the cart is cleared; on any failure the
// user is notified and the cart is left intact for a retry.
func (p *Processor) Checkout(ctx context.Context, customer CustomerInfo) (*Receipt, error) {
	lines := p.cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if err := p.validate.Struct(customer); err != nil {
		return nil, fmt.Errorf("invalid customer information: %w", err)
	}

	total := p.cart.Total()
	receipt, err := p.gateway.Charge(ctx, ChargeRequest{
		Amount:   total,
		Currency: "USD",
		Customer: customer,
		Lines:    lines,
	})
	if err != nil {
		p.logger.Warn("Payment failed", "error", err)
		p.ui.Notify("Payment failed. Please try again.", uistate.SeverityError)
		return nil, fmt.Errorf("payment failed: %w", err)
	}

	for _, line := range lines {
		if err := p.products.MarkSold(ctx, line.ProductID); err != nil {
			p.logger.Error("Failed to mark product sold", "ID", line.ProductID, "error", err)
			p.ui.Notify("Payment failed. Please try again.", uistate.SeverityError)
			return nil, fmt.Errorf("failed to mark product %d sold: %w", line.ProductID, err)
		}
	}

	p.logger.Info("Checkout complete", "transaction_id", receipt.TransactionID, "total", total)
	p.ui.Notify("Payment successful! Thank you for your purchase.", uistate.SeveritySuccess)
	p.cart.Clear()
	return receipt, nil
}
