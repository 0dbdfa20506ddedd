package identity

import "errors"

var (
	ErrUnknownIdentity = errors.New("unknown identity")
	ErrInvalidToken    = errors.New("invalid session token")
	ErrNoSecret        = errors.New("issuer secret is empty")
)
