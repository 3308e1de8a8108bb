package engine

import (
	"context"
	"log/slog"

	"github.com/roach88/bankcheck/internal/bank"
)

// Dispatcher drives the bank operations from trace steps.
type Dispatcher struct {
	logger *slog.Logger
}

// NewDispatcher returns a dispatcher logging to logger, or to slog.Default
// when logger is nil.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// Dispatch runs one step with the default dispatcher.
func Dispatch(s *bank.State, action bank.Action, picks Picks) (bank.ErrorCode, error) {
	return NewDispatcher(nil).Dispatch(s, action, picks)
}

// Dispatch applies action to s with the arguments in picks and returns the
// operation's code. The error return is reserved for picks that cannot be
// decoded; in that case s is untouched. ActionInit is a no-op and
// ActionUnknown yields ErrCodeUnknownAction without touching s.
func (d *Dispatcher) Dispatch(s *bank.State, action bank.Action, picks Picks) (bank.ErrorCode, error) {
	code, err := d.apply(s, action, picks)
	if err != nil {
		d.logger.Debug("dispatch failed", "action", action.String(), "error", err)
		return bank.OK, err
	}
	if d.logger.Enabled(context.Background(), slog.LevelDebug) {
		attrs := []any{"action", action.String(), "code", string(code)}
		d.logger.Debug("dispatched", append(attrs, picks.describe(argNames(action)...)...)...)
	}
	return code, nil
}

func (d *Dispatcher) apply(s *bank.State, action bank.Action, picks Picks) (bank.ErrorCode, error) {
	switch action {
	case bank.ActionInit:
		return bank.OK, nil

	case bank.ActionDeposit:
		owner, amount, err := picks.ownerAmount(PickDepositor)
		if err != nil {
			return bank.OK, err
		}
		return bank.Deposit(s, owner, amount), nil

	case bank.ActionWithdraw:
		owner, amount, err := picks.ownerAmount(PickWithdrawer)
		if err != nil {
			return bank.OK, err
		}
		return bank.Withdraw(s, owner, amount), nil

	case bank.ActionTransfer:
		sender, amount, err := picks.ownerAmount(PickSender)
		if err != nil {
			return bank.OK, err
		}
		receiver, err := picks.AsString(PickReceiver)
		if err != nil {
			return bank.OK, err
		}
		return bank.Transfer(s, sender, receiver, amount), nil

	case bank.ActionBuyInvestment:
		owner, amount, err := picks.ownerAmount(PickBuyer)
		if err != nil {
			return bank.OK, err
		}
		return bank.BuyInvestment(s, owner, amount), nil

	case bank.ActionSellInvestment:
		seller, err := picks.AsString(PickSeller)
		if err != nil {
			return bank.OK, err
		}
		id, err := picks.AsInt64(PickID)
		if err != nil {
			return bank.OK, err
		}
		return bank.SellInvestment(s, seller, id), nil

	default:
		return bank.ErrCodeUnknownAction, nil
	}
}

// argNames lists the picks read by action, in argument order.
func argNames(action bank.Action) []string {
	switch action {
	case bank.ActionDeposit:
		return []string{PickDepositor, PickAmount}
	case bank.ActionWithdraw:
		return []string{PickWithdrawer, PickAmount}
	case bank.ActionTransfer:
		return []string{PickSender, PickReceiver, PickAmount}
	case bank.ActionBuyInvestment:
		return []string{PickBuyer, PickAmount}
	case bank.ActionSellInvestment:
		return []string{PickSeller, PickID}
	default:
		return nil
	}
}
