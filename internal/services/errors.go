package services

import "errors"

// User input errors. Handlers turn these into notices; anything else is an
// internal failure.
var (
	ErrIncompleteCheckoutForm = errors.New("incomplete checkout form")
	ErrFlavorLimitExceeded    = errors.New("flavor limit exceeded")
	ErrEmptyFlavorSelection   = errors.New("no flavor selected")
	ErrUnknownSize            = errors.New("unknown pizza size")
	ErrUnknownFlavor          = errors.New("unknown flavor")
	ErrUnknownProduct         = errors.New("unknown product")
	ErrInvalidCategory        = errors.New("invalid category")
	ErrNoPizzaOpen            = errors.New("no pizza being configured")
	ErrEmptyCart              = errors.New("cart is empty")
)

// IsUserError reports whether err comes from rejected shopper input.
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrIncompleteCheckoutForm, ErrFlavorLimitExceeded, ErrEmptyFlavorSelection,
		ErrUnknownSize, ErrUnknownFlavor, ErrUnknownProduct, ErrInvalidCategory,
		ErrNoPizzaOpen, ErrEmptyCart,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
