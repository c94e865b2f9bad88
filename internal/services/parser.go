package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kharcha/internal/analysis"
	"kharcha/internal/core"
)

// ErrUnparsableExpense is returned when the model reply is not valid JSON.
var ErrUnparsableExpense = errors.New("model reply was not a valid expense")

const parsePromptTemplate = `Analyze the following text and extract the expense details into a JSON object.

Instructions:
1. "description": a concise summary of the expense. If the text is a simple description like "groceries", use that directly.
2. "amount": the numeric cost. Extract only the number.
3. "category": the most fitting category from this list: %s.
4. "date": the date of the expense in YYYY-MM-DD format. If no date is mentioned, use today's date: %s.
5. "paymentMode": one of UPI, Credit Card, Debit Card, Cash. Default to UPI when not mentioned.

Input text:
%s

Examples:
- Text: "I spent 200 on tea yesterday"
  JSON: {"description": "Tea", "amount": 200, "category": "Food", "date": "%s", "paymentMode": "UPI"}
- Text: "monthly electricity bill 5000 by card"
  JSON: {"description": "Monthly electricity bill", "amount": 5000, "category": "Utilities", "date": "%s", "paymentMode": "Credit Card"}
- Text: "uber to office 150 on 2nd jan"
  JSON: {"description": "Uber to office", "amount": 150, "category": "Transport", "date": "%s-01-02", "paymentMode": "UPI"}

Reply with the JSON object only.`

// ExpenseParser turns free-form text like "chai 20 yesterday" into a
// structured expense draft. The draft is not stored.
type ExpenseParser struct {
	client analysis.CompletionClient
	now    func() time.Time
}

func NewExpenseParser(client analysis.CompletionClient) *ExpenseParser {
	return &ExpenseParser{client: client, now: time.Now}
}

// parsedExpense tolerates both numeric and string amounts in the reply.
type parsedExpense struct {
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	PaymentMode string          `json:"paymentMode"`
}

// Parse extracts an expense draft from free-form text.
func (p *ExpenseParser) Parse(ctx context.Context, text, apiKey string) (core.Expense, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return core.Expense{}, errors.New("text is empty")
	}

	today := p.now()
	todayStr := today.Format(core.DateLayout)
	yesterday := today.AddDate(0, 0, -1).Format(core.DateLayout)
	year := today.Format("2006")

	prompt := fmt.Sprintf(parsePromptTemplate,
		strings.Join(core.Categories, ", "),
		todayStr, text, yesterday, todayStr, year)

	reply, err := p.client.Complete(ctx, prompt, apiKey)
	if err != nil {
		return core.Expense{}, fmt.Errorf("complete parse prompt: %w", err)
	}

	cleaned := stripJSONFences(reply)

	var parsed parsedExpense
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		slog.DebugContext(ctx, "Unparsable expense reply", "reply", reply)
		return core.Expense{}, fmt.Errorf("%w: %v", ErrUnparsableExpense, err)
	}

	category, err := core.NormalizeCategory(parsed.Category)
	if err != nil {
		category = "Other"
	}
	mode, err := core.NormalizePaymentMode(parsed.PaymentMode)
	if err != nil {
		mode = string(core.PaymentUPI)
	}

	e := core.Expense{
		Description: strings.TrimSpace(parsed.Description),
		Category:    category,
		PaymentMode: mode,
		Amount:      core.AmountOrZero(rawToString(parsed.Amount)),
	}
	e.Date, err = core.ParseDate(parsed.Date)
	if err != nil {
		e.Date = todayStr
	}

	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("%w: %v", ErrUnparsableExpense, err)
	}

	slog.InfoContext(ctx, "Parsed expense from text",
		"description", e.Description,
		"amount", e.Amount,
		"category", e.Category,
		"date", e.Date)

	return e, nil
}

func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func rawToString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	return strings.Trim(s, `"`)
}
