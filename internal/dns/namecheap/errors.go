package namecheap

import "errors"

var (
	ErrMissingCredentials = errors.New("namecheap API credentials are not configured")
	ErrAPIError           = errors.New("namecheap API returned an error")
)
