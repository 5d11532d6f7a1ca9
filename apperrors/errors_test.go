package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("loading tickers: %w", Wrap(KindNetworkFailure, cause, "request failed"))

	assert.Equal(t, KindNetworkFailure, KindOf(err))
	assert.True(t, Is(err, KindNetworkFailure))
	assert.False(t, Is(err, KindRateLimited))
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.False(t, Is(nil, KindInternal))
}

func TestValidationReason(t *testing.T) {
	err := fmt.Errorf("buy: %w", Validation(ReasonInsufficientFunds, "balance too low"))

	assert.Equal(t, KindValidationFailure, KindOf(err))
	assert.Equal(t, ReasonInsufficientFunds, ReasonOf(err))
	assert.Equal(t, ReasonNone, ReasonOf(errors.New("other")))
}

func TestWithStatusCopies(t *testing.T) {
	base := New(KindAuthRequired, "token expired")
	withStatus := base.WithStatus(http.StatusUnauthorized)

	assert.Equal(t, 0, base.Status)
	assert.Equal(t, http.StatusUnauthorized, withStatus.Status)
	assert.Equal(t, base.Kind, withStatus.Kind)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindAuthRequired, http.StatusUnauthorized},
		{KindValidationFailure, http.StatusBadRequest},
		{KindUnknownAsset, http.StatusNotFound},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindNetworkFailure, http.StatusBadGateway},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.kind))
		})
	}
}
