package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverenov/bankfeed/internal/domain"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-01-03", want: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{in: "1/3/2024", want: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{in: "01/03/2024", want: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		// Ambiguous two-digit forms use the fixed US convention: MM/DD/YY.
		{in: "01/02/03", want: time.Date(2003, 1, 2, 0, 0, 0, 0, time.UTC)},
		{in: "1-3-2024", want: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{in: "3 Jan 2024", want: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{in: "Jan 3, 2024", want: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{in: "January 3, 2024", want: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{in: "not a date", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "125.50", want: 125.50},
		{in: "-125.50", want: -125.50},
		{in: "1,234.56", want: 1234.56},
		{in: "$42.00", want: 42},
		{in: "£2.80", want: 2.80},
		{in: "(15.00)", want: -15},
		{in: "15.00-", want: -15},
		{in: "0", want: 0},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNormalize_WithdrawalDepositRoundTrip(t *testing.T) {
	n := New()

	tx, err := n.Row(domain.RawRow{
		Date:           "01/03/2024",
		DescriptionRaw: "COFFEE SHOP",
		Withdrawal:     "20",
		Deposit:        "0",
	})
	require.NoError(t, err)
	assert.InDelta(t, -20.0, tx.Amount, 1e-9)
	assert.Equal(t, domain.TypeExpense, tx.Type)
}

func TestNormalize_TypeInference(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		row  domain.RawRow
		want domain.TransactionType
	}{
		{
			name: "positive amount is income",
			row:  domain.RawRow{Date: "2024-01-03", DescriptionRaw: "SALARY", Amount: "2500.00"},
			want: domain.TypeIncome,
		},
		{
			name: "negative amount is expense",
			row:  domain.RawRow{Date: "2024-01-03", DescriptionRaw: "RENT", Amount: "-900.00"},
			want: domain.TypeExpense,
		},
		{
			name: "zero amount is expense by convention",
			row:  domain.RawRow{Date: "2024-01-03", DescriptionRaw: "FEE REVERSAL", Amount: "0"},
			want: domain.TypeExpense,
		},
		{
			name: "explicit transfer marker wins",
			row:  domain.RawRow{Date: "2024-01-03", DescriptionRaw: "TO SAVINGS", Amount: "-300.00", Transfer: true},
			want: domain.TypeTransfer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := n.Row(tt.row)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tx.Type)
		})
	}
}

func TestNormalize_DropsBadRowsWithWarnings(t *testing.T) {
	n := New()

	rows := []domain.RawRow{
		{Date: "2024-01-03", DescriptionRaw: "GOOD ROW", Amount: "-5.00"},
		{Date: "tomorrow-ish", DescriptionRaw: "BAD DATE", Amount: "-5.00"},
		{Date: "2024-01-04", DescriptionRaw: "NO AMOUNT"},
		{Date: "2024-01-05", DescriptionRaw: "", Amount: "-1.00"},
	}

	txns, warnings := n.Normalize(rows)
	assert.Len(t, txns, 1)
	assert.Len(t, warnings, 3)
	assert.Equal(t, "GOOD ROW", txns[0].Description)
}

func TestNormalize_BalanceSnapshot(t *testing.T) {
	n := New()

	tx, err := n.Row(domain.RawRow{
		Date:           "2024-01-03",
		DescriptionRaw: "GROCERIES",
		Amount:         "-82.10",
		Balance:        "3,413.40",
	})
	require.NoError(t, err)
	require.NotNil(t, tx.Balance)
	assert.InDelta(t, 3413.40, *tx.Balance, 1e-9)

	// Unparseable balance is absent, not an error.
	tx, err = n.Row(domain.RawRow{
		Date:           "2024-01-03",
		DescriptionRaw: "GROCERIES",
		Amount:         "-82.10",
		Balance:        "n/a",
	})
	require.NoError(t, err)
	assert.Nil(t, tx.Balance)
}

func TestMerchant(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"WHOLEFDS MKT #10236", "WHOLEFDS MKT"},
		{"AMAZON MKTPLACE REF 4029384756", "AMAZON MKTPLACE"},
		{"TFL TRAVEL AUTH 1234", "TFL TRAVEL"},
		{"COFFEE SHOP", "COFFEE SHOP"},
		{"4029384756", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Merchant(tt.in))
		})
	}
}
