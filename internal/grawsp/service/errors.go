package service

import "errors"

// Not-found and validation errors indicate caller or configuration problems
// and are never retried. Timeout is raised only by the bounded device poll.
var (
	ErrRealmNotFound         = errors.New("realm not found")
	ErrAccountNotFound       = errors.New("account not found")
	ErrAuthorizationNotFound = errors.New("authorization not found")

	ErrIntermediaryRequired = errors.New("an intermediary role was not provided")
	ErrSelfIntermediary     = errors.New("a role cannot be its own intermediary")
	ErrChainTooDeep         = errors.New("role assumption chain is too deep")
	ErrAmbiguousAccount     = errors.New("identifier matches more than one account")

	ErrAuthorizationTimeout = errors.New("authorization was not approved in time")
)
