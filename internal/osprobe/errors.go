package osprobe

import "errors"

var (
	ErrReleaseFileUnreadable    = errors.New("could not read OS release file")
	ErrReleaseFileUnparseable   = errors.New("could not parse OS release file")
	ErrUnrecognizedDistribution = errors.New("unrecognized distribution")
	ErrUnsupportedVersion       = errors.New("unsupported distribution version")
)
