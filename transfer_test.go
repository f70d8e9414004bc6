package tracker

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func fixedValidator() *Validator {
	return &Validator{
		Now:   func() time.Time { return t1 },
		NewID: func() string { return "TXN-1" },
	}
}

func TestValidator_Validate(t *testing.T) {
	balance := M(1000, "USD")
	testCases := []struct {
		name     string
		receiver string
		amount   string
		want     error
	}{
		{"blank receiver wins over amount", "  ", "-1", ErrEmptyReceiver},
		{"empty receiver", "", "10", ErrEmptyReceiver},
		{"zero amount", "U1", "0", ErrInvalidAmount},
		{"negative amount wins over balance", "U1", "-5000", ErrInvalidAmount},
		{"below a cent", "U1", "0.009", ErrAmountTooPrecise},
		{"fraction of a cent", "U1", "10.005", ErrAmountTooPrecise},
		{"precision wins over balance", "U1", "5000.001", ErrAmountTooPrecise},
		{"over balance", "U1", "1000.01", ErrInsufficientBalance},
		{"whole balance", "U1", "1000", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := TransferRequest{ReceiverID: tc.receiver, Amount: decimal.RequireFromString(tc.amount)}
			_, err := fixedValidator().Validate(req, balance)
			if tc.want == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err != tc.want {
				t.Errorf("Validate() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestValidator_Validate_BuildsDebit(t *testing.T) {
	req := TransferRequest{ReceiverID: " U1 ", Amount: decimal.NewFromInt(100)}
	got, err := fixedValidator().Validate(req, M(1000, "USD"))
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	want := NewEntry("TXN-1", t1, "Transfer to U1", M(100, "USD"), Debit)
	if !got.Equal(want) {
		t.Errorf("Validate() = %+v, want %+v", got, want)
	}
}

func TestValidator_DefaultIDs(t *testing.T) {
	var v *Validator
	req := TransferRequest{ReceiverID: "U1", Amount: decimal.NewFromInt(1)}
	a, err := v.Validate(req, M(10, "USD"))
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	b, _ := NewValidator().Validate(req, M(10, "USD"))
	if !strings.HasPrefix(a.ID, "TXN-") {
		t.Errorf("ID = %q, want a TXN- prefix", a.ID)
	}
	if a.ID == b.ID {
		t.Errorf("two entries share the ID %q", a.ID)
	}
	if a.ID != strings.ToUpper(a.ID) {
		t.Errorf("ID = %q, want upper case", a.ID)
	}
}
