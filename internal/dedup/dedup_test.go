package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dverenov/bankfeed/internal/domain"
)

var day = time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

func TestFingerprint_Stability(t *testing.T) {
	a := Fingerprint("acc-1", day, -4.50, "Coffee Shop")
	b := Fingerprint("acc-1", day, -4.50, "coffee   shop")
	assert.Equal(t, a, b, "case and whitespace differences must not change the fingerprint")

	c := Fingerprint("acc-1", day, -4.50, "Coffee Shop downtown")
	assert.NotEqual(t, a, c)

	d := Fingerprint("acc-2", day, -4.50, "Coffee Shop")
	assert.NotEqual(t, a, d, "fingerprints are account-scoped")

	e := Fingerprint("acc-1", day.AddDate(0, 0, 1), -4.50, "Coffee Shop")
	assert.NotEqual(t, a, e)
}

func TestPartition(t *testing.T) {
	existing := []domain.Transaction{
		{AccountID: "acc-1", Date: day, Amount: -4.50, Description: "COFFEE SHOP"},
		{AccountID: "acc-1", Date: day, Amount: -900, Description: "RENT"},
	}

	// One duplicate of an existing row, one new charge plus its
	// in-batch duplicate, and a next-day repeat of an existing charge.
	candidates := []domain.ParsedTransaction{
		{Date: day, Amount: -4.50, Description: "coffee shop"},
		{Date: day, Amount: -82.10, Description: "GROCERIES"},
		{Date: day, Amount: -82.10, Description: "GROCERIES"},
		{Date: day.AddDate(0, 0, 1), Amount: -4.50, Description: "COFFEE SHOP"},
	}

	fresh, duplicates := Partition("acc-1", candidates, existing)
	assert.Len(t, fresh, 2)
	assert.Equal(t, 2, duplicates)
	assert.Equal(t, "GROCERIES", fresh[0].Description)
}

func TestPartition_EmptyExisting(t *testing.T) {
	candidates := []domain.ParsedTransaction{
		{Date: day, Amount: -1, Description: "A"},
		{Date: day, Amount: -2, Description: "B"},
	}
	fresh, duplicates := Partition("acc-1", candidates, nil)
	assert.Len(t, fresh, 2)
	assert.Zero(t, duplicates)
}
