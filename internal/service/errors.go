package service

import "errors"

// Sentinel errors returned by the auth operations. Handlers map these to
// HTTP statuses with errors.Is, so wrapped context stays in the logs.
var (
	ErrCredentials = errors.New("invalid credentials")
	ErrBanned      = errors.New("user banned")
	ErrNotFound    = errors.New("not found")
	ErrDelivery    = errors.New("delivery failed")
)
