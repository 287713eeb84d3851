package payslip

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "zéro"},
		{1, "un"},
		{16, "seize"},
		{21, "vingt et un"},
		{45, "quarante-cinq"},
		{70, "soixante-dix"},
		{71, "soixante et onze"},
		{77, "soixante-dix-sept"},
		{80, "quatre-vingts"},
		{81, "quatre-vingt-un"},
		{91, "quatre-vingt-onze"},
		{99, "quatre-vingt-dix-neuf"},
		{100, "cent"},
		{200, "deux cents"},
		{201, "deux cent un"},
		{1000, "mille"},
		{2000, "deux mille"},
		{80000, "quatre-vingt mille"},
		{200000, "deux cent mille"},
		{480000, "quatre cent quatre-vingt mille"},
		{1000000, "un million"},
		{2500000, "deux millions cinq cent mille"},
		{3000000000, "trois milliards"},
		{-130000, "moins cent trente mille"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AmountInWords(c.n), c.n)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(decimal.Zero))
	assert.Equal(t, "7 000", FormatAmount(decimal.NewFromInt(7000)))
	assert.Equal(t, "480 000", FormatAmount(decimal.NewFromInt(480000)))
	assert.Equal(t, "1 250 000", FormatAmount(decimal.NewFromInt(1250000)))
	assert.Equal(t, "-130 000", FormatAmount(decimal.NewFromInt(-130000)))
}
