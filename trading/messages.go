package trading

import "github.com/status-im/market-game/apperrors"

var reasonMessages = map[apperrors.Reason]string{
	apperrors.ReasonInvalidAmount:        "Please enter a valid amount.",
	apperrors.ReasonInvalidPrice:         "Price not available for this cryptocurrency. Please try again later.",
	apperrors.ReasonInsufficientFunds:    "Insufficient balance for this purchase.",
	apperrors.ReasonInsufficientHoldings: "You do not own enough of this cryptocurrency.",
	apperrors.ReasonNotOwned:             "You do not own this cryptocurrency.",
	apperrors.ReasonInvalidCredentials:   "Invalid email or password.",
}

var kindMessages = map[apperrors.Kind]string{
	apperrors.KindNetworkFailure:        "Could not reach the server. Check your internet connection.",
	apperrors.KindRateLimited:           "Too many requests. Please wait a moment and try again.",
	apperrors.KindMalformedUpstreamData: "The server sent an unexpected response. Please try again later.",
	apperrors.KindUnknownAsset:          "This cryptocurrency is not supported.",
	apperrors.KindAuthRequired:          "Your session has expired. Please sign in again.",
}

const fallbackMessage = "An error occurred during the transaction."

// UserMessage turns an error into the text shown to the player. It relies on
// the error kind and reason only, never on the error text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg, ok := reasonMessages[apperrors.ReasonOf(err)]; ok {
		return msg
	}
	if msg, ok := kindMessages[apperrors.KindOf(err)]; ok {
		return msg
	}
	return fallbackMessage
}
