package core

import (
	"errors"
	"strings"
	"time"
)

const (
	PaymentUPI        PaymentMode = "UPI"
	PaymentCreditCard PaymentMode = "Credit Card"
	PaymentDebitCard  PaymentMode = "Debit Card"
	PaymentCash       PaymentMode = "Cash"
)

// DateLayout is the only date representation stored and queried. Dates are
// kept as plain strings so analysis queries can filter them with prefix
// matching instead of engine date functions.
const DateLayout = "2006-01-02"

type (
	PaymentMode string

	// Expense is the unit stored and queried. ID is assigned by the store on
	// insert; zero means "not yet stored". CreatedAt records insertion time
	// and is never used for financial filtering.
	Expense struct {
		ID          int64   `json:"id"`
		Date        string  `json:"date"`
		Category    string  `json:"category"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
		PaymentMode string  `json:"paymentMode"`
		CreatedAt   string  `json:"created_at"`
	}
)

// Categories is the fixed label set. Matching is case-insensitive everywhere.
var Categories = []string{
	"Food", "Transport", "Shopping", "Utilities",
	"Entertainment", "Health", "Education", "Other",
}

var PaymentModes = []PaymentMode{
	PaymentUPI, PaymentCreditCard, PaymentDebitCard, PaymentCash,
}

var (
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNegativeAmount     = errors.New("amount cannot be negative")
	ErrEmptyDescription   = errors.New("empty description")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrUnknownPaymentMode = errors.New("unknown payment mode")
)

// ParseDate validates a YYYY-MM-DD string and returns it normalized.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.Format(DateLayout), nil
}

// NormalizeCategory matches a label against the fixed set case-insensitively
// and returns the canonical spelling.
func NormalizeCategory(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(c, s) {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

// NormalizePaymentMode matches a payment mode case-insensitively. An empty
// value defaults to UPI.
func NormalizePaymentMode(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return string(PaymentUPI), nil
	}
	for _, m := range PaymentModes {
		if strings.EqualFold(string(m), s) {
			return string(m), nil
		}
	}
	return "", ErrUnknownPaymentMode
}

func (e Expense) Validate() error {
	if _, err := ParseDate(e.Date); err != nil {
		return err
	}
	if e.Amount < 0 {
		return ErrNegativeAmount
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if _, err := NormalizeCategory(e.Category); err != nil {
		return err
	}
	if _, err := NormalizePaymentMode(e.PaymentMode); err != nil {
		return err
	}
	return nil
}

// Normalize canonicalizes category, payment mode and date spelling in place.
// It assumes Validate has passed.
func (e *Expense) Normalize() {
	if c, err := NormalizeCategory(e.Category); err == nil {
		e.Category = c
	}
	if m, err := NormalizePaymentMode(e.PaymentMode); err == nil {
		e.PaymentMode = m
	}
	if d, err := ParseDate(e.Date); err == nil {
		e.Date = d
	}
}
