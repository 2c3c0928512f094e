package processors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFixed2(t *testing.T) {
	testCases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{7, "7.00"},
		{6.412, "6.41"},
		{9.95, "9.95"},
		{0.125, "0.13"},
		{1.005, "1.00"},
		{2.675, "2.67"},
		{-1.5, "-1.50"},
		{0.004, "0.00"},
		{123456.789, "123456.79"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, FormatFixed2(tc.in), "FormatFixed2(%v)", tc.in)
	}
}

func TestFormatNumberTR(t *testing.T) {
	testCases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{5, "5"},
		{1000, "1.000"},
		{1234.5, "1.234,5"},
		{1234567.891, "1.234.567,89"},
		{-1234.567, "-1.234,57"},
		{1.005, "1,01"},
		{0.1 + 0.2, "0,3"},
		{999.999, "1.000"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, FormatNumberTR(tc.in), "FormatNumberTR(%v)", tc.in)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "₺15.000", FormatMoney(15000, "tl"))
	assert.Equal(t, "$1.250,5", FormatMoney(1250.5, "usd"))
	assert.Equal(t, "€300", FormatMoney(300, "EUR"))
	assert.Equal(t, "₺42", FormatMoney(42, ""))
	assert.Equal(t, "₺42", FormatMoney(42, "ziynet"))
}

func TestFormatPlain(t *testing.T) {
	assert.Equal(t, "10", FormatPlain(10))
	assert.Equal(t, "2.5", FormatPlain(2.5))
	assert.Equal(t, "0.1", FormatPlain(0.1))
}
