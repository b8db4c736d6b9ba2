package numfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_BrazilianDecimal(t *testing.T) {
	t.Run("thousands and decimal separators", func(t *testing.T) {
		v, ok := Normalize("1.203,30", false)
		require.True(t, ok)
		assert.Equal(t, "1203.3", v.Number.String())
		assert.False(t, v.IsHour)
	})

	t.Run("plain comma decimal", func(t *testing.T) {
		v, ok := Normalize("220,00", false)
		require.True(t, ok)
		assert.Equal(t, "220", v.Number.String())
	})

	t.Run("bare integer", func(t *testing.T) {
		v, ok := Normalize("42", false)
		require.True(t, ok)
		assert.Equal(t, "42", v.Number.String())
	})

	t.Run("zero is valid but zero", func(t *testing.T) {
		v, ok := Normalize("0,00", false)
		require.True(t, ok)
		assert.True(t, v.IsZero())
	})

	t.Run("double comma is rejected", func(t *testing.T) {
		_, ok := Normalize("00,30,030", false)
		assert.False(t, ok)
	})

	t.Run("empty token is rejected", func(t *testing.T) {
		_, ok := Normalize("", false)
		assert.False(t, ok)
	})
}

func TestNormalize_Hours(t *testing.T) {
	t.Run("hour token on hour column", func(t *testing.T) {
		v, ok := Normalize("06:34", true)
		require.True(t, ok)
		assert.True(t, v.IsHour)
		assert.Equal(t, 6*60+34, v.Minutes)
		assert.Equal(t, "06,34", v.String())
	})

	t.Run("hour token on currency column is rejected", func(t *testing.T) {
		_, ok := Normalize("06:34", false)
		assert.False(t, ok)
	})

	t.Run("decimal token on hour column stays decimal", func(t *testing.T) {
		v, ok := Normalize("12,50", true)
		require.True(t, ok)
		assert.False(t, v.IsHour)
		assert.Equal(t, "12.5", v.Number.String())
	})
}

func TestCellValue_Add(t *testing.T) {
	t.Run("hour addition carries minutes", func(t *testing.T) {
		a, ok := Normalize("06:40", true)
		require.True(t, ok)
		b, ok := Normalize("00:30", true)
		require.True(t, ok)

		sum := a.Add(b)
		assert.True(t, sum.IsHour)
		assert.Equal(t, "07,10", sum.String())
	})

	t.Run("decimal addition is exact", func(t *testing.T) {
		a, _ := Normalize("601,65", false)
		b, _ := Normalize("601,65", false)
		assert.Equal(t, "1203.3", a.Add(b).Number.String())
	})
}

func TestCellValue_SheetValue(t *testing.T) {
	hour, _ := Normalize("06:34", true)
	assert.Equal(t, "06,34", hour.SheetValue())

	dec, _ := Normalize("1.203,30", false)
	assert.Equal(t, 1203.30, dec.SheetValue())
}

func TestIsNumericToken(t *testing.T) {
	cases := []struct {
		token string
		want  bool
	}{
		{"1.203,30", true},
		{"06:34", true},
		{"42", true},
		{"00,30,030", true}, // looks numeric, fails Normalize
		{"SALARIO", false},
		{"R$100", false},
		{",50", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsNumericToken(tc.token), "token %q", tc.token)
	}
}
