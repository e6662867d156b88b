package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExtract_WithHeader(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Withdrawal,Deposit,Balance",
		"01/02/2024,COFFEE SHOP,4.50,,995.50",
		"01/03/2024,SALARY ACME CORP,,2500.00,3495.50",
		"",
		"01/04/2024,GROCERIES,82.10,,3413.40",
	}, "\n")

	res, err := (&CSVExtractor{}).Extract(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)
	assert.Empty(t, res.Warnings)

	assert.Equal(t, "01/02/2024", res.Rows[0].Date)
	assert.Equal(t, "COFFEE SHOP", res.Rows[0].DescriptionRaw)
	assert.Equal(t, "4.50", res.Rows[0].Withdrawal)
	assert.Equal(t, "", res.Rows[0].Deposit)
	assert.Equal(t, "995.50", res.Rows[0].Balance)

	assert.Equal(t, "2500.00", res.Rows[1].Deposit)
}

func TestCSVExtract_AlternateHeaderNames(t *testing.T) {
	input := strings.Join([]string{
		"Transaction Date,Memo,Paid Out,Paid In,Running Balance",
		"2024-01-02,BUS FARE,2.80,,100.00",
	}, "\n")

	res, err := (&CSVExtractor{}).Extract(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "BUS FARE", res.Rows[0].DescriptionRaw)
	assert.Equal(t, "2.80", res.Rows[0].Withdrawal)
}

func TestCSVExtract_NoHeaderPositional(t *testing.T) {
	input := strings.Join([]string{
		"2/01/2024,-12.30,PETROL STATION,REF123",
		"3/01/2024,1500.00,SALARY",
	}, "\n")

	res, err := (&CSVExtractor{}).Extract(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	assert.Equal(t, "2/01/2024", res.Rows[0].Date)
	assert.Equal(t, "-12.30", res.Rows[0].Amount)
	assert.Equal(t, "PETROL STATION REF123", res.Rows[0].DescriptionRaw)
}

func TestCSVExtract_ShortRowBecomesWarning(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Amount",
		"01/02/2024,COFFEE,4.50",
		",,",
		"justonecell",
		"garbage,KEPT FOR NORMALIZER,9.99",
	}, "\n")

	res, err := (&CSVExtractor{}).Extract(strings.NewReader(input))
	require.NoError(t, err)

	// The truncated row lands in the date column only; with no amount
	// field it is dropped and warned about, never emitted.
	require.Len(t, res.Rows, 2)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "no amount")

	// A junk date with a real amount survives extraction; date parsing
	// is the normalizer's call.
	assert.Equal(t, "KEPT FOR NORMALIZER", res.Rows[1].DescriptionRaw)
}

func TestDetectHeader(t *testing.T) {
	tests := []struct {
		name  string
		first []string
		want  bool
	}{
		{"recognized header", []string{"Date", "Description", "Amount"}, true},
		{"withdrawal and deposit columns", []string{"DATE", "details", "Debit", "Credit"}, true},
		{"date but no amount column", []string{"Date", "Description", "Notes"}, false},
		{"data row", []string{"01/02/2024", "COFFEE", "4.50"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := detectHeader(tt.first)
			assert.Equal(t, tt.want, got)
		})
	}
}
