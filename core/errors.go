package core

import (
	"errors"
	"fmt"
)

// ErrInvalidPayload marks inbound webhook payloads that are missing required fields
var ErrInvalidPayload = errors.New("invalid payload")

// UpstreamKind classifies how an outbound call failed
type UpstreamKind string

const (
	UpstreamKindTransport UpstreamKind = "transport"
	UpstreamKindStatus    UpstreamKind = "status"
	UpstreamKindDecode    UpstreamKind = "decode"
	UpstreamKindEmpty     UpstreamKind = "empty"
)

// UpstreamError is returned by every outbound client when a call to a third-party API fails
type UpstreamError struct {
	Service    string
	Kind       UpstreamKind
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s error (status %d): %v", e.Service, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s error: %v", e.Service, e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError builds an UpstreamError without a status code
func NewUpstreamError(service string, kind UpstreamKind, err error) *UpstreamError {
	return &UpstreamError{Service: service, Kind: kind, Err: err}
}

// IsInvalidPayloadError checks if an error was caused by a malformed webhook payload
func IsInvalidPayloadError(err error) bool {
	return err != nil && errors.Is(err, ErrInvalidPayload)
}

// UpstreamKindOf returns the kind of the first UpstreamError in the chain, if any
func UpstreamKindOf(err error) (UpstreamKind, bool) {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Kind, true
	}
	return "", false
}
