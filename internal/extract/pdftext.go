package extract

import (
	"regexp"
	"strings"

	"github.com/dverenov/bankfeed/internal/domain"
)

// PDF statements have no cell structure; once the text layer is out, each
// line is run through three explicit stages so every stage stays unit
// testable on plain strings:
//
//	tokenize:     split a line into whitespace-delimited tokens
//	classifyLine: decide whether the tokens look like a transaction line
//	extractRow:   map the classified spans onto a RawRow
//
// A transaction line is: date span, description text, amount token, and
// optionally a trailing balance token.

var (
	// Amount tokens must carry a decimal point: bare integers on
	// statement lines are usually check or reference numbers.
	amountTokenRe = regexp.MustCompile(`^\(?-?[£$€]?\d{1,3}(?:,\d{3})*\.\d{1,2}\)?-?$`)

	numericDateRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}|\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?)$`)
)

var monthNames = map[string]bool{
	"jan": true, "feb": true, "mar": true, "apr": true,
	"may": true, "jun": true, "jul": true, "aug": true,
	"sep": true, "oct": true, "nov": true, "dec": true,
}

// tokenize splits a text line into whitespace-delimited tokens.
func tokenize(line string) []string {
	return strings.Fields(line)
}

// isAmountToken reports whether a token looks like a monetary amount.
func isAmountToken(tok string) bool {
	return amountTokenRe.MatchString(tok)
}

// dateSpan returns how many leading tokens form a date, or 0.
// Recognized: a single numeric date token ("2024-01-03", "01/03/24",
// "01/03") or a written-month span ("3 Jan", "3 Jan 2024", "Jan 3").
func dateSpan(tokens []string) int {
	if len(tokens) == 0 {
		return 0
	}
	if numericDateRe.MatchString(tokens[0]) {
		return 1
	}

	isMonth := func(s string) bool {
		s = strings.ToLower(strings.TrimSuffix(s, "."))
		if len(s) > 3 {
			s = s[:3]
		}
		return monthNames[s]
	}
	isDay := func(s string) bool {
		if len(s) == 0 || len(s) > 2 {
			return false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	isYear := func(s string) bool {
		if len(s) != 4 {
			return false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}

	if len(tokens) >= 2 {
		dayFirst := isDay(tokens[0]) && isMonth(tokens[1])
		monthFirst := isMonth(tokens[0]) && isDay(tokens[1])
		if dayFirst || monthFirst {
			if len(tokens) >= 3 && isYear(tokens[2]) {
				return 3
			}
			return 2
		}
	}
	return 0
}

// classifyLine reports whether the tokens form a transaction line:
// a leading date span, at least one description token, and a trailing
// amount token (optionally preceded by another amount, the balance slot).
func classifyLine(tokens []string) bool {
	ds := dateSpan(tokens)
	if ds == 0 || len(tokens) < ds+2 {
		return false
	}
	if !isAmountToken(tokens[len(tokens)-1]) {
		return false
	}
	// Everything between date and trailing amounts must include at
	// least one non-amount token, otherwise there is no description.
	trailing := 1
	if len(tokens) >= ds+3 && isAmountToken(tokens[len(tokens)-2]) {
		trailing = 2
	}
	return len(tokens)-ds-trailing >= 1
}

// extractRow maps a classified transaction line onto a RawRow. The second
// return value is false when the line does not classify.
func extractRow(line string) (domain.RawRow, bool) {
	tokens := tokenize(line)
	if !classifyLine(tokens) {
		return domain.RawRow{}, false
	}

	ds := dateSpan(tokens)
	end := len(tokens)

	amount := tokens[end-1]
	balance := ""
	descEnd := end - 1
	if end-ds >= 3 && isAmountToken(tokens[end-2]) {
		// Two trailing amounts: the last is the running balance.
		balance = amount
		amount = tokens[end-2]
		descEnd = end - 2
	}

	return domain.RawRow{
		Date:           strings.Join(tokens[:ds], " "),
		DescriptionRaw: strings.Join(tokens[ds:descEnd], " "),
		Amount:         amount,
		Balance:        balance,
		SourceLine:     strings.TrimSpace(line),
	}, true
}
