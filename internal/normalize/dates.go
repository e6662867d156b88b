package normalize

import (
	"fmt"
	"strings"
	"time"
)

// datePatterns is the ordered list of accepted date layouts; the first
// match wins. Slash and dash dates use the US convention (month first):
// "01/02/03" is always January 2nd 2003, never guessed per-row.
var datePatterns = []string{
	"2006-01-02", // ISO
	"1/2/2006",   // US slash
	"1/2/06",
	"1-2-2006", // US dash
	"1-2-06",
	"2 Jan 2006", // written month
	"2 Jan 06",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"January 2, 2006",
}

// ParseDate parses a statement date string against the pattern ladder.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range datePatterns {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no date pattern matched %q", s)
}
