package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptParser_ParseLines(t *testing.T) {
	parser := NewReceiptParser()

	type item struct {
		name     string
		price    string
		quantity int
		line     int
	}

	tests := []struct {
		name  string
		lines []string
		want  []item
	}{
		{
			name:  "name wrapped above its price",
			lines: []string{"MILK 2PT", "1 £1.20", "TOTAL £1.20"},
			want:  []item{{"MILK 2PT", "1.2", 1, 1}},
		},
		{
			name:  "totals and payment lines are skipped",
			lines: []string{"BREAD £1.10", "EGGS 12PK £2.00", "SUBTOTAL £3.10", "VISA £3.10", "CHANGE £0.00"},
			want:  []item{{"BREAD", "1.1", 1, 0}, {"EGGS 12PK", "2", 1, 1}},
		},
		{
			name:  "duplicates are dropped",
			lines: []string{"BREAD £1.10", "bread £1.10", "BREAD £1.20"},
			want:  []item{{"BREAD", "1.1", 1, 0}, {"BREAD", "1.2", 1, 2}},
		},
		{
			name:  "negative amounts are not items",
			lines: []string{"MILK -£0.50", "CHEESE £2.50"},
			want:  []item{{"CHEESE", "2.5", 1, 1}},
		},
		{
			name:  "quantity prefix",
			lines: []string{"2 x BREAD £2.20", "3 APPLES $1.50"},
			want:  []item{{"BREAD", "2.2", 2, 0}, {"APPLES", "1.5", 3, 1}},
		},
		{
			name:  "barcode runs are removed from names",
			lines: []string{"BANANAS 5000112637922 £0.95"},
			want:  []item{{"BANANAS", "0.95", 1, 0}},
		},
		{
			name:  "last price on the line is used",
			lines: []string{"CHICKEN £4.00 £3.50"},
			want:  []item{{"CHICKEN", "3.5", 1, 0}},
		},
		{
			name:  "comma decimals",
			lines: []string{"KÄSE €2,49"},
			want:  []item{{"KÄSE", "2.49", 1, 0}},
		},
		{
			name:  "lines without prices or names are dropped",
			lines: []string{"TESCO", "", "12 £3.00", "------", "A £1.00"},
			want:  []item{},
		},
		{
			name: "metadata words inside item names",
			lines: []string{
				"CHOC CHIP COOKIES £1.50",
				"STORE CUPBOARD BEANS £0.80",
				"REG COLA £1.00",
				"CASHEW NUTS £2.00",
				"PINEAPPLE CHUNKS £0.90",
				"HOVIS BREAD £1.40",
			},
			want: []item{
				{"CHOC CHIP COOKIES", "1.5", 1, 0},
				{"STORE CUPBOARD BEANS", "0.8", 1, 1},
				{"REG COLA", "1", 1, 2},
				{"CASHEW NUTS", "2", 1, 3},
				{"PINEAPPLE CHUNKS", "0.9", 1, 4},
				{"HOVIS BREAD", "1.4", 1, 5},
			},
		},
		{
			name: "metadata lines",
			lines: []string{
				"STORE #2041 £0.10",
				"REG 3 £1.00",
				"CLUBCARD PRICE -£0.50",
				"LOYALTY POINTS £0.50",
				"VISA DEBIT ****1234 £12.40",
				"CARD ENDING 1234 £12.40",
				"PAID BY CONTACTLESS VISA £12.40",
				"THANK YOU, COME AGAIN £0.00",
			},
			want: []item{},
		},
		{
			name:  "dash separated price is not a discount",
			lines: []string{"MILK - £1.20"},
			want:  []item{{"MILK", "1.2", 1, 0}},
		},
		{
			name:  "previous line carrying its own price is not a name",
			lines: []string{"BREAD £1.10", "£0.80"},
			want:  []item{{"BREAD", "1.1", 1, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.ParseLines(tt.lines)
			require.Len(t, got, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want.name, got[i].Name)
				assert.True(t, decimal.RequireFromString(want.price).Equal(got[i].Price), "price %s", got[i].Price)
				assert.Equal(t, want.quantity, got[i].Quantity)
				assert.Equal(t, want.line, got[i].LineNumber)
			}
		})
	}
}

func TestReceiptParser_Parse(t *testing.T) {
	parser := NewReceiptParser()

	receipt := parser.Parse(`TESCO STORE 2041
12/05/2025 14:32
SEMI SKIMMED MILK £1.20
WHOLEMEAL BREAD £0.95
BALANCE DUE £2.15
THANK YOU FOR SHOPPING`)

	require.Len(t, receipt.Items, 2)
	assert.Equal(t, "SEMI SKIMMED MILK", receipt.Items[0].Name)
	assert.Equal(t, "WHOLEMEAL BREAD", receipt.Items[1].Name)
	assert.Equal(t, "SEMI SKIMMED MILK £1.20", receipt.Items[0].RawText)

	require.NotNil(t, receipt.Total)
	assert.True(t, decimal.RequireFromString("2.15").Equal(*receipt.Total))

	require.NotNil(t, receipt.Date)
	assert.Equal(t, time.Date(2025, time.May, 12, 0, 0, 0, 0, time.UTC), *receipt.Date)
}

func TestReceiptParser_ParseEmpty(t *testing.T) {
	receipt := NewReceiptParser().Parse("")
	assert.Empty(t, receipt.Items)
	assert.NotNil(t, receipt.Items)
	assert.Nil(t, receipt.Total)
	assert.Nil(t, receipt.Date)
}
