package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument rejects input at the engine boundary; no state changes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientResources means settlement could not be funded. The
	// order stays pending and is retried on the next tick for its symbol.
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrInsufficientFunds     = fmt.Errorf("insufficient funds: %w", ErrInsufficientResources)
	ErrInsufficientHoldings  = fmt.Errorf("insufficient holdings: %w", ErrInsufficientResources)

	ErrOrderNotFound = errors.New("order not found")
)
