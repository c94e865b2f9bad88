package core

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-01-01", "2025-01-01", true},
		{" 2025-12-31 ", "2025-12-31", true},
		{"2025-02-30", "", false},
		{"01/02/2025", "", false},
		{"", "", false},
	}
	for i, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d: got (%q, %v), want %q", i, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d: expected error for %q", i, tc.in)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	for _, in := range []string{"food", "FOOD", " Food "} {
		got, err := NormalizeCategory(in)
		if err != nil || got != "Food" {
			t.Fatalf("NormalizeCategory(%q) = (%q, %v), want Food", in, got, err)
		}
	}
	if _, err := NormalizeCategory("groceries"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestNormalizePaymentMode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "UPI"}, // default
		{"upi", "UPI"},
		{"credit card", "Credit Card"},
		{"CASH", "Cash"},
	}
	for _, tc := range cases {
		got, err := NormalizePaymentMode(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("NormalizePaymentMode(%q) = (%q, %v), want %q", tc.in, got, err, tc.want)
		}
	}
	if _, err := NormalizePaymentMode("cheque"); err == nil {
		t.Fatalf("expected error for unknown payment mode")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:        "2025-06-01",
		Category:    "Food",
		Amount:      120.50,
		Description: "lunch",
		PaymentMode: "UPI",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	zeroAmount := good
	zeroAmount.Amount = 0
	if err := zeroAmount.Validate(); err != nil {
		t.Fatalf("zero amount must be valid, got %v", err)
	}

	bads := []Expense{
		{Date: "bad", Category: "Food", Amount: 1, Description: "a", PaymentMode: "UPI"},
		{Date: "2025-06-01", Category: "Food", Amount: -1, Description: "a", PaymentMode: "UPI"},
		{Date: "2025-06-01", Category: "Food", Amount: 1, Description: "", PaymentMode: "UPI"},
		{Date: "2025-06-01", Category: "Rent", Amount: 1, Description: "a", PaymentMode: "UPI"},
		{Date: "2025-06-01", Category: "Food", Amount: 1, Description: "a", PaymentMode: "IOU"},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestExpenseNormalize(t *testing.T) {
	e := Expense{Date: "2025-06-01", Category: "food", Amount: 1, Description: "x", PaymentMode: "cash"}
	e.Normalize()
	if e.Category != "Food" || e.PaymentMode != "Cash" {
		t.Fatalf("normalize: got %q/%q", e.Category, e.PaymentMode)
	}
}
