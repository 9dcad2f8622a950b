package errors

import (
	"net/http"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func reportedPayloads(err error) []string {
	var out []string
	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			if p, ok := strings.CutPrefix(payload, "__json__:"); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

func TestBuilder_WithTenant(t *testing.T) {
	err := NewError("no active subscription").
		WithHint("No active subscription found").
		WithTenant("tenant_01").
		WithReportableDetails(map[string]any{"status": "expired"}).
		Mark(ErrPermissionDenied)

	assert.True(t, IsPermissionDenied(err))
	assert.Equal(t, http.StatusForbidden, HTTPStatusFromErr(err))
	assert.Equal(t, []string{"No active subscription found"}, errors.GetAllHints(err))
	assert.ElementsMatch(t, []string{`{"tenant_id":"tenant_01"}`, `{"status":"expired"}`}, reportedPayloads(err))
}

func TestBuilder_WithTenantEmptyAddsNothing(t *testing.T) {
	err := NewError("tenant not found").WithTenant("").Mark(ErrPermissionDenied)
	assert.Empty(t, reportedPayloads(err))
}

func TestBuilder_WithErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := WithError(cause).WithMessage("begin transaction").Mark(ErrDatabase)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsDatabase(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromErr(err))
}
