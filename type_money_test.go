package tracker

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		name  string
		money Money
		want  string
	}{
		{"dollars", M(10000, "USD"), "$10,000.00"},
		{"cents", M(12.5, "USD"), "$12.50"},
		{"decimal", M(decimal.RequireFromString("900"), "USD"), "$900.00"},
		{"euro", M(3, "EUR"), "€3.00"},
		{"rounds to the cent", M(decimal.RequireFromString("0.009"), "USD"), "$0.01"},
		{"yen has no minor unit", M(decimal.RequireFromString("99.6"), "JPY"), "¥100"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.money.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMoney_SignedString(t *testing.T) {
	if got, want := M(100, "USD").SignedString(), "+$100.00"; got != want {
		t.Errorf("SignedString() = %q, want %q", got, want)
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	balance := M(1000, "USD")
	got := balance.Sub(M(100, "USD"))
	if !got.Equal(M(900, "USD")) {
		t.Errorf("1000 - 100 = %v, want $900.00", got)
	}
	if !M(5, "").Add(M(5, "USD")).Equal(M(10, "USD")) {
		t.Error("an empty currency should adopt the other operand's currency")
	}
}

func TestMoney_CurrencyMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("adding USD to EUR did not panic")
		}
	}()
	M(1, "USD").Add(M(1, "EUR"))
}

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney("100.25", "USD")
	if err != nil {
		t.Fatalf("ParseMoney() unexpected error: %v", err)
	}
	if !m.Equal(M(100.25, "USD")) {
		t.Errorf("ParseMoney() = %v, want $100.25", m)
	}
	if _, err := ParseMoney("ten", "USD"); err == nil {
		t.Error("ParseMoney(\"ten\") succeeded, want an error")
	}
}
