package tracker

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferRequest asks to send Amount to ReceiverID.
type TransferRequest struct {
	ReceiverID string
	Amount     decimal.Decimal
}

// Validator checks transfer requests against a balance and builds the debit
// entry that commits them.
type Validator struct {
	Now   func() time.Time // defaults to time.Now
	NewID func() string    // defaults to "TXN-" + a random UUID
}

// NewValidator returns a Validator using the system clock and random ids.
func NewValidator() *Validator {
	return &Validator{Now: time.Now, NewID: newEntryID}
}

func newEntryID() string {
	return "TXN-" + strings.ToUpper(uuid.NewString())
}

// Validate applies the transfer rules in a fixed order, the first failure is
// returned:
//
//  1. the receiver must not be blank,
//  2. the amount must be positive, in whole minor units of the currency,
//  3. the amount must not exceed balance.
//
// On success it returns a new debit entry in balance's currency. It has no
// side effect: committing the entry is the caller's job.
func (v *Validator) Validate(req TransferRequest, balance Money) (Entry, error) {
	receiver := strings.TrimSpace(req.ReceiverID)
	if receiver == "" {
		return Entry{}, ErrEmptyReceiver
	}
	if !req.Amount.IsPositive() {
		return Entry{}, ErrInvalidAmount
	}
	amount := M(req.Amount, balance.Currency())
	if !amount.rounded().Equal(amount.Decimal()) {
		return Entry{}, ErrAmountTooPrecise
	}
	if amount.GreaterThan(balance) {
		return Entry{}, ErrInsufficientBalance
	}

	now, newID := time.Now, newEntryID
	if v != nil && v.Now != nil {
		now = v.Now
	}
	if v != nil && v.NewID != nil {
		newID = v.NewID
	}
	return NewEntry(newID(), now(), "Transfer to "+receiver, amount, Debit), nil
}
