// Package dedup detects already-imported transactions. Each transaction is
// reduced to a stable fingerprint; two transactions with the same
// fingerprint are the same real-world event. Matching is exact-match only:
// fuzzy matching would suppress legitimate repeated charges on different
// dates. The known trade-off is that same-day identical charges collapse
// into one.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/dverenov/bankfeed/internal/domain"
)

// Fingerprint computes the stable dedup key for a transaction: SHA-256 over
// the account ID, the ISO date, the amount at two decimal places and the
// whitespace/case-normalized description. Line numbers and file order are
// deliberately excluded so re-imports of overlapping statements stay
// idempotent.
func Fingerprint(accountID string, date time.Time, amount float64, description string) string {
	key := fmt.Sprintf("%s|%s|%.2f|%s",
		accountID,
		date.Format("2006-01-02"),
		amount,
		normalizeDescription(description),
	)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// TransactionFingerprint computes the fingerprint of a persisted transaction.
func TransactionFingerprint(tx domain.Transaction) string {
	return Fingerprint(tx.AccountID, tx.Date, tx.Amount, tx.Description)
}

// normalizeDescription lowercases and collapses interior whitespace so
// "Coffee  Shop" and "coffee shop" fingerprint identically.
func normalizeDescription(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Partition splits candidates into new transactions and a duplicate count,
// given the target account's existing transactions. Duplicates are dropped,
// never merged or flagged for manual resolution. Candidates that duplicate
// each other within the batch are also collapsed: the first occurrence wins.
func Partition(accountID string, candidates []domain.ParsedTransaction, existing []domain.Transaction) (fresh []domain.ParsedTransaction, duplicates int) {
	seen := make(map[string]struct{}, len(existing))
	for _, tx := range existing {
		seen[TransactionFingerprint(tx)] = struct{}{}
	}

	fresh = make([]domain.ParsedTransaction, 0, len(candidates))
	for _, c := range candidates {
		fp := Fingerprint(accountID, c.Date, c.Amount, c.Description)
		if _, dup := seen[fp]; dup {
			duplicates++
			continue
		}
		seen[fp] = struct{}{}
		fresh = append(fresh, c)
	}
	return fresh, duplicates
}
