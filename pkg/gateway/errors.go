package gateway

import "errors"

var (
	ErrMissingKey            = errors.New("gateway: provider key is required")
	ErrMissingSecret         = errors.New("gateway: provider secret is required")
	ErrMissingReference      = errors.New("gateway: provider reference is required")
	ErrSignatureMismatch     = errors.New("gateway: signature verification failed")
	ErrInvalidWebhookPayload = errors.New("gateway: invalid webhook payload")
	ErrCheckoutDismissed     = errors.New("gateway: checkout dismissed by user")
)
