package normalize

import (
	"regexp"
	"strings"
)

var (
	// refTokenRe matches trailing reference noise: card/auth/reference
	// numbers, terminal IDs and similar tokens with three or more digits.
	refTokenRe = regexp.MustCompile(`^[#*]?[A-Za-z]*[-0-9]*\d{3,}[-0-9A-Za-z]*$`)

	// refWordRe matches reference keywords banks append to descriptions.
	refWordRe = regexp.MustCompile(`^(?i)(REF|REFERENCE|AUTH|CARD|TXN)[:#]?\w*$`)
)

// Merchant extracts a best-effort merchant name from a description by
// stripping trailing reference tokens. Extraction failure is not an error:
// when nothing usable remains, the merchant is simply empty.
func Merchant(description string) string {
	fields := strings.Fields(description)

	end := len(fields)
	for end > 0 {
		tok := fields[end-1]
		if refTokenRe.MatchString(tok) || refWordRe.MatchString(tok) {
			end--
			continue
		}
		break
	}

	merchant := strings.Join(fields[:end], " ")
	return strings.TrimSpace(merchant)
}
