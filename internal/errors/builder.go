package errors

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// ErrorBuilder wraps an error step by step. Mark ends the chain and returns
// the finished error.
type ErrorBuilder struct {
	err error
}

func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.New(msg)}
}

// WithError starts a chain from an error returned by a driver or library
func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// WithMessage prefixes the internal message; it is logged, never rendered
func (b *ErrorBuilder) WithMessage(msg string) *ErrorBuilder {
	b.err = errors.WithMessage(b.err, msg)
	return b
}

// WithHint sets the message shown to API clients
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

// WithReportableDetails attaches fields rendered under "details" in the
// response. Repeated calls merge; later keys win.
func (b *ErrorBuilder) WithReportableDetails(details map[string]any) *ErrorBuilder {
	payload, err := json.Marshal(details)
	if err != nil {
		return b
	}
	b.err = errors.WithSafeDetails(b.err, "__json__:%s", errors.Safe(string(payload)))
	return b
}

// WithTenant reports the tenant the failure concerns. An empty ID adds nothing.
func (b *ErrorBuilder) WithTenant(tenantID string) *ErrorBuilder {
	if tenantID == "" {
		return b
	}
	return b.WithReportableDetails(map[string]any{"tenant_id": tenantID})
}

// Mark classifies the error with one of the sentinel errors above
func (b *ErrorBuilder) Mark(reference error) error {
	return errors.Mark(b.err, reference)
}
