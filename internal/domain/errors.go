package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrVenueTimeout = errors.New("venue fetch timed out")
	ErrContextDone  = errors.New("context cancelled")
)
