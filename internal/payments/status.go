package payments

import (
	"context"
)

// State is the settlement state of a payment as reported by a provider.
type State string

const (
	StatePending State = "pending"
	StatePaid    State = "paid"
	StateFailed  State = "failed"
)

// StatusChecker queries a provider for the settlement state of a payment
// identified by the provider request reference.
type StatusChecker interface {
	CheckStatus(ctx context.Context, providerRef string) (State, error)
}

var checker StatusChecker = MockChecker{}

// SetChecker swaps the active status checker. Init installs the MoMo
// checker when the wallet is configured; tests install their own.
func SetChecker(c StatusChecker) {
	checker = c
}

func Checker() StatusChecker {
	return checker
}

// MockChecker stands in when no wallet provider is configured. It never
// settles a payment on its own: mock payments are confirmed through the
// callback or the admin payment-status endpoint.
type MockChecker struct{}

func (MockChecker) CheckStatus(ctx context.Context, providerRef string) (State, error) {
	return StatePending, nil
}
