package analysis

import (
	"regexp"
	"strings"
)

// SQL massaging over model output is inherently fragile, so all of it lives
// behind this one seam. SanitizeSQL is a pure function from raw completion
// text to either a validated SELECT statement or a typed failure; callers
// never touch the regexes directly.

var (
	fenceRe       = regexp.MustCompile("(?i)```[a-z]*\n?")
	leadingLangRe = regexp.MustCompile(`(?i)^(sql|sqlite)\b[ \t]*\n?`)

	selectRe = regexp.MustCompile(`(?i)\bselect\b`)
	fromRe   = regexp.MustCompile(`(?i)\bfrom\b`)
	whereRe  = regexp.MustCompile(`(?i)\bwhere\b`)
)

// SanitizeSQL strips markdown artifacts from a raw completion, validates that
// what remains is a SELECT statement and normalizes keyword casing.
//
// Returns ErrNotExpenseRelated when the cleaned text is exactly the
// irrelevance token, or *InvalidSQLError (carrying both the raw and the
// sanitized text) when no SELECT statement can be extracted. The function is
// idempotent: already clean SQL passes through unchanged.
func SanitizeSQL(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	// Code fences first: ``` blocks, optionally tagged sql/sqlite.
	s = fenceRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	if strings.EqualFold(s, IrrelevantToken) {
		return "", ErrNotExpenseRelated
	}

	// A bare leading "sql"/"sqlite" token left over from a fence tag.
	s = leadingLangRe.ReplaceAllString(s, "")
	s = strings.TrimLeft(s, "\n")
	s = strings.TrimSpace(s)

	if s == "" || !hasSelectPrefix(s) {
		return "", &InvalidSQLError{Raw: raw, Sanitized: s}
	}

	// The engine is strict about statement recognition, so force the first
	// occurrence of each primary keyword to uppercase. Identifiers and
	// literal contents are left alone.
	s = upperFirst(s, selectRe, "SELECT")
	s = upperFirst(s, fromRe, "FROM")
	s = upperFirst(s, whereRe, "WHERE")

	return s, nil
}

func hasSelectPrefix(s string) bool {
	return len(s) >= 6 && strings.EqualFold(s[:6], "select")
}

// upperFirst uppercases only the first match of kw in s.
func upperFirst(s string, re *regexp.Regexp, kw string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + kw + s[loc[1]:]
}
