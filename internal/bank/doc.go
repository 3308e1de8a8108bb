// Package bank is the reference implementation of the ledger state machine
// that traces are replayed against.
//
// The state is a set of balances keyed by owner, a set of investments keyed
// by id, and the id the next investment will receive. Five operations move
// value around:
//
//   - Deposit and Withdraw change the total held in the system.
//   - Transfer, BuyInvestment and SellInvestment only move value, so the sum
//     of balances and investment amounts is preserved.
//
// Operations never fail in the Go sense. A rejected operation returns an
// ErrorCode and leaves the state exactly as it was; the code is a modeled
// outcome that the harness compares with the trace.
//
// Amounts and balances are int64. Traces carry unbounded integers, and the
// decoder rejects any that do not fit in 64 bits, but credits are not
// checked: a deposit or sale that takes a balance past math.MaxInt64 wraps.
// Generated traces stay far below that bound.
package bank
