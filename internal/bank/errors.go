package bank

import "fmt"

// ErrorCode identifies why an operation was rejected. The empty code means
// the operation succeeded.
type ErrorCode string

const (
	// OK is the success outcome.
	OK ErrorCode = ""

	// ErrCodeInvalidAmount rejects a non-positive amount.
	ErrCodeInvalidAmount ErrorCode = "INVALID_AMOUNT"

	// ErrCodeInsufficientBalance rejects a debit larger than the balance.
	ErrCodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"

	// ErrCodeInvestmentNotFound rejects a sale of an unknown investment id.
	ErrCodeInvestmentNotFound ErrorCode = "INVESTMENT_NOT_FOUND"

	// ErrCodeNotOwner rejects a sale by someone other than the owner.
	ErrCodeNotOwner ErrorCode = "NOT_OWNER"

	// ErrCodeUnknownAction is returned for an action tag that maps to no
	// operation. It is never produced by the operations themselves.
	ErrCodeUnknownAction ErrorCode = "UNKNOWN_ACTION"
)

// Codes lists every non-success code.
var Codes = []ErrorCode{
	ErrCodeInvalidAmount,
	ErrCodeInsufficientBalance,
	ErrCodeInvestmentNotFound,
	ErrCodeNotOwner,
	ErrCodeUnknownAction,
}

// Messages maps codes to the error strings a trace carries.
// Traces come from a model whose wording we do not control, so the table is
// configurable; see DefaultMessages.
type Messages map[ErrorCode]string

// DefaultMessages returns the wording of the reference bank model.
func DefaultMessages() Messages {
	return Messages{
		ErrCodeInvalidAmount:       "Amount should be greater than zero",
		ErrCodeInsufficientBalance: "Balance is too low",
		ErrCodeInvestmentNotFound:  "Investment not found",
		ErrCodeNotOwner:            "Only the owner can sell the investment",
		ErrCodeUnknownAction:       "Unknown action",
	}
}

// Text renders a code as the trace would. OK renders as "".
// A code missing from m renders as the code itself so a mismatch is still
// visible in reports.
func (m Messages) Text(code ErrorCode) string {
	if code == OK {
		return ""
	}
	if s, ok := m[code]; ok {
		return s
	}
	return string(code)
}

// Validate checks that every code has a distinct, non-empty message.
// Two codes sharing a message would make the comparison ambiguous.
func (m Messages) Validate() error {
	seen := make(map[string]ErrorCode, len(m))
	for _, code := range Codes {
		msg, ok := m[code]
		if !ok || msg == "" {
			return fmt.Errorf("no message for %s", code)
		}
		if other, dup := seen[msg]; dup {
			return fmt.Errorf("%s and %s share message %q", other, code, msg)
		}
		seen[msg] = code
	}
	return nil
}
