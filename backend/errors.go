package backend

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/status-im/market-game/apperrors"
)

// Structured error codes sent by the backend
const (
	CodeInsufficientFunds    = "INSUFFICIENT_FUNDS"
	CodeInsufficientHoldings = "INSUFFICIENT_HOLDINGS"
	CodeNotOwned             = "NOT_OWNED"
	CodeInvalidPrice         = "INVALID_PRICE"
	CodeInvalidAmount        = "INVALID_AMOUNT"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
)

var reasonByCode = map[string]apperrors.Reason{
	CodeInsufficientFunds:    apperrors.ReasonInsufficientFunds,
	CodeInsufficientHoldings: apperrors.ReasonInsufficientHoldings,
	CodeNotOwned:             apperrors.ReasonNotOwned,
	CodeInvalidPrice:         apperrors.ReasonInvalidPrice,
	CodeInvalidAmount:        apperrors.ReasonInvalidAmount,
	CodeInvalidCredentials:   apperrors.ReasonInvalidCredentials,
}

// responseError maps a failed response to an error kind. Known codes win
// over the HTTP status.
func responseError(status int, body []byte) *apperrors.Error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	message := eb.Message
	if message == "" {
		message = eb.Error
	}
	if message == "" {
		message = fmt.Sprintf("backend request failed with status %d", status)
	}

	if reason, ok := reasonByCode[eb.Code]; ok {
		return apperrors.Validation(reason, message).WithStatus(status)
	}

	var kind apperrors.Kind
	switch {
	case status == http.StatusUnauthorized:
		kind = apperrors.KindAuthRequired
	case status == http.StatusTooManyRequests:
		kind = apperrors.KindRateLimited
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		kind = apperrors.KindValidationFailure
	case status >= 500:
		kind = apperrors.KindNetworkFailure
	default:
		kind = apperrors.KindInternal
	}
	return apperrors.New(kind, message).WithStatus(status)
}
