package analysis

import (
	"fmt"
	"time"

	"kharcha/internal/core"
)

// IrrelevantToken is the verbatim marker the model emits when a question has
// nothing to do with expenses.
const IrrelevantToken = "IRRELEVANT"

// promptTemplate constrains the model to a single portable SELECT over the
// fixed expenses table. Every date rule works by string slicing because dates
// are stored as YYYY-MM-DD text; engine-specific date functions are forbidden
// so the statement can never drift outside what the engine supports.
//
// Placeholders, in order: today, this-month prefix, yesterday, current year,
// the user's question.
const promptTemplate = `You convert natural language questions about personal expenses into SQL.

Database schema (this is the only table that exists):

Table: expenses
Columns:
- id (INTEGER)
- date (TEXT, format 'YYYY-MM-DD')
- category (TEXT)
- amount (REAL)
- description (TEXT)
- created_at (TEXT, format 'YYYY-MM-DD')

Today's date is: %s

Rules:
1. Output ONLY the raw SQL statement. No explanation, no comments, no markdown fences, no "SQL:" prefix.
2. Do NOT use date functions such as strftime, date or now(). Dates are plain 'YYYY-MM-DD' text: compare them with string equality, SUBSTR prefixes or LIKE. Resolve relative phrases ("yesterday", "this month") yourself using today's date above.
3. Text comparisons on category or description must be case-insensitive: apply LOWER() to both sides.
4. Aggregates must never return NULL: wrap them as COALESCE(SUM(amount), 0).
5. Give every aggregate column a simple alias, e.g. AS total_spent.
6. The 'date' column is the expense date. 'created_at' is record bookkeeping; never filter on it.
7. If the question has nothing to do with expenses, output the single token %s and nothing else.

Examples:

Question: "How much did I spend on food this month?"
SQL: SELECT COALESCE(SUM(amount), 0) AS total_spent FROM expenses WHERE LOWER(category) = 'food' AND SUBSTR(date, 1, 7) = '%s'

Question: "what did I spend on yesterday"
SQL: SELECT description, amount FROM expenses WHERE date = '%s'

Question: "total spending in january"
SQL: SELECT COALESCE(SUM(amount), 0) AS total_spent FROM expenses WHERE SUBSTR(date, 1, 7) = '%s-01'

Question: "average spend per category"
SQL: SELECT category, COALESCE(AVG(amount), 0) AS avg_spent FROM expenses GROUP BY category

Question: "show all shopping expenses"
SQL: SELECT date, description, amount FROM expenses WHERE LOWER(category) = 'shopping' ORDER BY date DESC

Question: "%s"
SQL:`

// BuildPrompt renders the synthesis prompt. today must be the single
// YYYY-MM-DD value captured for this request; yesterday and the month and
// year prefixes in the worked examples are derived from it, never from a
// second clock read.
func BuildPrompt(question, today string) string {
	monthPrefix := today
	if len(monthPrefix) >= 7 {
		monthPrefix = monthPrefix[:7]
	}
	year := today
	if len(year) >= 4 {
		year = year[:4]
	}
	yesterday := today
	if t, err := time.Parse(core.DateLayout, today); err == nil {
		yesterday = t.AddDate(0, 0, -1).Format(core.DateLayout)
	}
	return fmt.Sprintf(promptTemplate, today, IrrelevantToken, monthPrefix, yesterday, year, question)
}
