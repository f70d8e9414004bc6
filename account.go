package tracker

import (
	"github.com/shopspring/decimal"
)

// Account is the authenticated identity and its monetary state.
type Account struct {
	ID          string
	DisplayName string
	Email       string
	AccountID   string // external reference, e.g. "ACC-2024-001"
	Balance     Money
}

// MarshalJSON implements the json.Marshaler interface for Account.
func (a Account) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", a.ID)
	w.Append("displayName", a.DisplayName)
	w.Append("email", a.Email)
	w.Append("accountId", a.AccountID)
	w.Money("balance", a.Balance)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Account.
// It handles the custom structure where balance and currency are separate fields.
func (a *Account) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID          string          `json:"id"`
		DisplayName string          `json:"displayName"`
		Email       string          `json:"email"`
		AccountID   string          `json:"accountId"`
		Balance     decimal.Decimal `json:"balance"`
		Currency    string          `json:"currency"`
	}
	if err := decodeStrict(data, &temp); err != nil {
		return err
	}
	if temp.Currency == "" {
		temp.Currency = DefaultCurrency
	}
	*a = Account{
		ID:          temp.ID,
		DisplayName: temp.DisplayName,
		Email:       temp.Email,
		AccountID:   temp.AccountID,
		Balance:     M(temp.Balance, temp.Currency),
	}
	return nil
}

// Equal reports whether both accounts hold the same identity and balance.
func (a Account) Equal(b Account) bool {
	return a.ID == b.ID &&
		a.DisplayName == b.DisplayName &&
		a.Email == b.Email &&
		a.AccountID == b.AccountID &&
		a.Balance.Equal(b.Balance)
}
