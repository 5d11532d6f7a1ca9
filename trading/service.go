// Package trading validates and submits buy and sell orders.
package trading

//go:generate mockgen -destination=mocks/backend.go . Backend

import (
	"context"
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/status-im/market-game/apperrors"
	"github.com/status-im/market-game/backend"
	"github.com/status-im/market-game/logger"
)

// Backend submits trades and lists past ones
type Backend interface {
	Buy(ctx context.Context, req backend.TradeRequest) error
	Sell(ctx context.Context, req backend.TradeRequest) error
	Transactions(ctx context.Context) ([]backend.Transaction, error)
}

// Session provides the signed-in user and refreshes it after a trade
type Session interface {
	CurrentUser() *backend.User
	Refresh(ctx context.Context) (backend.User, error)
}

// Service checks orders against the session user before submitting them.
// The backend re-validates every order; the local checks only spare a
// round trip.
type Service struct {
	client   Backend
	session  Session
	validate *validator.Validate
}

// NewService creates a trading service
func NewService(client Backend, session Session) *Service {
	return &Service{
		client:   client,
		session:  session,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Buy submits a purchase and returns the refreshed user
func (s *Service) Buy(ctx context.Context, req backend.TradeRequest) (backend.User, error) {
	user, err := s.prepare(req)
	if err != nil {
		return backend.User{}, err
	}

	cost := decimal.NewFromFloat(req.Amount).Mul(decimal.NewFromFloat(req.Price))
	if cost.GreaterThan(decimal.NewFromFloat(finite(user.Balance))) {
		return backend.User{}, apperrors.Validation(apperrors.ReasonInsufficientFunds, "insufficient balance for this purchase")
	}

	if err := s.client.Buy(ctx, req); err != nil {
		logger.Get().Warnf("Trading: buy %s failed: %v", req.CryptoID, err)
		return backend.User{}, err
	}
	logger.Get().Infof("Trading: bought %v %s at %v", req.Amount, req.CryptoID, req.Price)
	return s.refresh(ctx, user), nil
}

// Sell submits a sale and returns the refreshed user
func (s *Service) Sell(ctx context.Context, req backend.TradeRequest) (backend.User, error) {
	user, err := s.prepare(req)
	if err != nil {
		return backend.User{}, err
	}

	held := finite(user.Holding(req.CryptoID))
	if held <= 0 {
		return backend.User{}, apperrors.Validation(apperrors.ReasonNotOwned, "you do not own this cryptocurrency")
	}
	if decimal.NewFromFloat(req.Amount).GreaterThan(decimal.NewFromFloat(held)) {
		return backend.User{}, apperrors.Validation(apperrors.ReasonInsufficientHoldings, "not enough of this cryptocurrency to sell")
	}

	// The sell endpoint takes no name
	req.CryptoName = ""
	if err := s.client.Sell(ctx, req); err != nil {
		logger.Get().Warnf("Trading: sell %s failed: %v", req.CryptoID, err)
		return backend.User{}, err
	}
	logger.Get().Infof("Trading: sold %v %s at %v", req.Amount, req.CryptoID, req.Price)
	return s.refresh(ctx, user), nil
}

// History returns the signed-in user's transactions
func (s *Service) History(ctx context.Context) ([]backend.Transaction, error) {
	if s.session.CurrentUser() == nil {
		return nil, apperrors.New(apperrors.KindAuthRequired, "sign in to see your transactions")
	}
	txs, err := s.client.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []backend.Transaction{}
	}
	return txs, nil
}

func (s *Service) prepare(req backend.TradeRequest) (*backend.User, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	user := s.session.CurrentUser()
	if user == nil {
		return nil, apperrors.New(apperrors.KindAuthRequired, "sign in to trade")
	}
	return user, nil
}

func (s *Service) check(req backend.TradeRequest) error {
	if math.IsInf(req.Amount, 0) || math.IsNaN(req.Amount) {
		return apperrors.Validation(apperrors.ReasonInvalidAmount, "amount must be a positive number")
	}
	if math.IsInf(req.Price, 0) || math.IsNaN(req.Price) {
		return apperrors.Validation(apperrors.ReasonInvalidPrice, "price is not available for this cryptocurrency")
	}

	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.Wrap(apperrors.KindValidationFailure, err, "invalid order")
	}
	switch fieldErrs[0].Field() {
	case "Amount":
		return apperrors.Validation(apperrors.ReasonInvalidAmount, "amount must be a positive number")
	case "Price":
		return apperrors.Validation(apperrors.ReasonInvalidPrice, "price is not available for this cryptocurrency")
	default:
		return apperrors.Validation(apperrors.ReasonNone, "cryptocurrency is required")
	}
}

// refresh reloads the user after a trade. A failed refresh is not a failed
// trade: the previous snapshot is returned.
func (s *Service) refresh(ctx context.Context, previous *backend.User) backend.User {
	user, err := s.session.Refresh(ctx)
	if err != nil {
		logger.Get().Warnf("Trading: user refresh after trade failed: %v", err)
		return *previous
	}
	return user
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
