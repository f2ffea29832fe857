package service

import "errors"

// Domain errors surfaced at the request boundary as {success:false, message}
var (
	// ErrInvalidRequest covers missing address/items and malformed input;
	// user-correctable, surfaced verbatim
	ErrInvalidRequest = errors.New("invalid request")

	// ErrProductNotFound means a cart references a product the catalog no
	// longer resolves; the order is not created
	ErrProductNotFound = errors.New("product not found")

	// ErrPaymentGateway means checkout session creation failed; the order
	// stays pending and is never silently marked paid
	ErrPaymentGateway = errors.New("payment gateway error")
)
