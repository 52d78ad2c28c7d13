package domain

import "errors"

var (
	ErrInvalidCapacity   = errors.New("capacity must be a positive integer")
	ErrUnknownAlgorithm  = errors.New("unknown routing algorithm")
	ErrOracleUnavailable = errors.New("travel oracle unavailable")
	ErrInfeasibleDemand  = errors.New("stop demand exceeds vehicle capacity")
	ErrEmptyStopSet      = errors.New("stop set must not be empty")
	ErrDuplicateStop     = errors.New("duplicate stop id")
	ErrInvalidDemand     = errors.New("demand must be non-negative")
	ErrResultNotFound    = errors.New("route result not found")
)
