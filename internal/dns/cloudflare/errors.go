package cloudflare

import "errors"

var (
	ErrMissingCredentials = errors.New("cloudflare API credentials are not configured")
	ErrNoAccounts         = errors.New("no cloudflare accounts visible to this API key")
	ErrZoneNotFound       = errors.New("cloudflare zone not found")
)
