package ledger

import (
	"errors"
	"fmt"

	"github.com/prestamio/prestamio/pkg/money"
)

var (
	// ErrForbidden means the record exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation covers structural input errors caught before any write.
	ErrValidation = errors.New("validation failed")
)

// OverpaymentError rejects a payment that exceeds an installment's remaining
// balance. The remaining balance and currency are disclosed to the caller.
type OverpaymentError struct {
	RemainingCents int64
	Currency       string
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment exceeds remaining balance of %s", money.Format(e.RemainingCents, e.Currency))
}
