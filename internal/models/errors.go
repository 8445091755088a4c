package models

import (
	"errors"
	"strings"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrUnauthenticated    = errors.New("models: not authenticated")
	ErrTokenRevoked       = errors.New("models: token revoked")
)

var (
	ErrSessionNotFound    = errors.New("search session not found")
	ErrFetchInFlight      = errors.New("search: fetch already in progress")
	ErrNoMorePages        = errors.New("search: no more pages")
	ErrSuperseded         = errors.New("request superseded by a newer one")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrRatesUnavailable   = errors.New("exchange rates unavailable")
)

// Alert keys shown to the user when a search form is incomplete.
const (
	AlertFillRequired       = "pleaseFillRequiredFields"
	AlertSpecifyDestination = "pleaseSpecifyDestination"
)

// ValidationError blocks a search before any request is sent.
type ValidationError struct {
	Alert  string
	Fields []string
}

func (e *ValidationError) Error() string {
	return "search: missing required fields: " + strings.Join(e.Fields, ", ")
}
