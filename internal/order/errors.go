package order

import "errors"

var (
	// ErrEmptyCart is returned when a checkout carries no lines.
	ErrEmptyCart = errors.New("order: cart is empty")

	// ErrProductNotFound is returned when any cart line references an
	// unknown product. The whole order fails; lines are never dropped
	// silently.
	ErrProductNotFound = errors.New("order: product not found")

	// ErrCalculation is returned when totals cannot be computed.
	ErrCalculation = errors.New("order: calculation failed")

	// ErrGateway is returned when the payment gateway call fails or
	// returns an incomplete session.
	ErrGateway = errors.New("order: payment gateway error")

	// ErrOrderNotFound is returned when a notification references an
	// unknown order.
	ErrOrderNotFound = errors.New("order: order not found")

	// ErrInvalidSignature is returned when a webhook signature does not
	// match the recomputed digest.
	ErrInvalidSignature = errors.New("order: invalid signature key")

	// ErrUnknownStatus is returned for unrecognized gateway statuses.
	ErrUnknownStatus = errors.New("order: unknown transaction status")

	// ErrInvalidTransition is returned when a status change is not in the
	// transition table.
	ErrInvalidTransition = errors.New("order: invalid status transition")
)
