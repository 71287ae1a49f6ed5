package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"1.005", "1.01"},
		{"1.004", "1.00"},
		{"-1.005", "-1.01"},
		{"165", "165.00"},
	}
	for _, c := range cases {
		got := Round(decimal.RequireFromString(c.in))
		assert.Equal(t, c.want, got.StringFixed(2), "Round(%s)", c.in)
	}
}

func TestSumAndPercent(t *testing.T) {
	total := Sum(decimal.NewFromInt(10), decimal.RequireFromString("0.25"), decimal.RequireFromString("-0.05"))
	assert.True(t, total.Equal(decimal.RequireFromString("10.2")))

	assert.True(t, Sum().IsZero())
	assert.True(t, Percent(decimal.NewFromInt(2000), decimal.NewFromInt(10)).Equal(decimal.NewFromInt(200)))
	assert.True(t, Percent(decimal.NewFromInt(3000), decimal.RequireFromString("5.5")).Equal(decimal.NewFromInt(165)))
}

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"0":          "0.00",
		"12.5":       "12.50",
		"999.999":    "1,000.00",
		"1234567.8":  "1,234,567.80",
		"-4500":      "-4,500.00",
		"100000":     "100,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, Format(decimal.RequireFromString(in)), in)
	}
}
