package tfserving

import "errors"

var (
	ErrServingUnavailable = errors.New("model server unavailable")
	ErrInvalidResponse    = errors.New("invalid response from model server")
	ErrRequestRejected    = errors.New("model server rejected the request")
)
