package connectors

import (
	"context"
	"strings"
)

// CredentialExpiredMarker is the token the wallet puts in errors once an
// anchor's cookie has been logged out. Markup responses are mapped onto it too.
const CredentialExpiredMarker = "NOT_LOGIN"

// ErrorKind classifies a failed page fetch
type ErrorKind string

const (
	KindTransport         ErrorKind = "transport"
	KindHTTP              ErrorKind = "http"
	KindParse             ErrorKind = "parse"
	KindCredentialExpired ErrorKind = "credential_expired"
	KindService           ErrorKind = "service"
)

// FetchError describes why a page could not be fetched.
type FetchError struct {
	Kind    ErrorKind
	Message string
	// RawBody is kept for http failures only
	RawBody string
}

func (e *FetchError) Error() string {
	return e.Message
}

// PageResult is the normalized outcome of one page request
type PageResult struct {
	Success    bool
	Orders     []RawOrder
	TotalCount int
	Err        *FetchError
}

// ErrorMessage returns the failure text or "" on success.
func (r PageResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Message
}

// PageRequest identifies one page of one anchor's order list
type PageRequest struct {
	AnchorName string
	Cookie     string
	PageNo     int
	StartTime  string // YYYYMMDD HH:mm:ss
	EndTime    string
}

// OrderSource fetches one page of orders. Ordinary failures are reported in
// the result, never as a panic or error return.
type OrderSource interface {
	FetchPage(ctx context.Context, req PageRequest) PageResult
}

// IsCredentialExpired reports whether an error text carries the credential
// expiry marker. This substring check is the only place the upstream's
// expiry protocol is interpreted.
func IsCredentialExpired(message string) bool {
	return strings.Contains(message, CredentialExpiredMarker)
}
