package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
	}{
		{ValidationError("bad input"), http.StatusBadRequest},
		{NotFoundError("missing"), http.StatusNotFound},
		{InternalError("boom", nil), http.StatusInternalServerError},
		{ExternalError("upstream down", nil), http.StatusBadGateway},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.HTTPStatus())
	}
}

func TestError_MessageFormatting(t *testing.T) {
	plain := ValidationError("command is required")
	assert.Equal(t, "validation: command is required", plain.Error())

	cause := stderrors.New("connection refused")
	wrapped := ExternalError("failed to generate payload", cause)
	assert.Equal(t, "external: failed to generate payload: connection refused", wrapped.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := InternalError("wrapper", cause)
	assert.ErrorIs(t, err, cause)
}

func TestToResponse_MessageOnly(t *testing.T) {
	resp := ExternalError("failed to generate payload", stderrors.New("timeout")).ToResponse()
	assert.Equal(t, ErrorResponse{Error: "failed to generate payload"}, resp)
}

func TestAsStructuredError(t *testing.T) {
	structured := ValidationError("already structured")
	assert.Same(t, structured, AsStructuredError(structured))

	wrapped := fmt.Errorf("outer: %w", structured)
	assert.Same(t, structured, AsStructuredError(wrapped))

	plain := stderrors.New("plain")
	converted := AsStructuredError(plain)
	assert.Equal(t, TypeInternal, converted.Type)
	assert.ErrorIs(t, converted, plain)

	assert.Nil(t, AsStructuredError(nil))
}
