package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Key
	}{
		{"month name", "Referência: janeiro/2023", Key{Month: 1, Year: 2023}},
		{"month abbreviation", "Referência: fev/2024", Key{Month: 2, Year: 2024}},
		{"numeric month", "Referência: 03/2023", Key{Month: 3, Year: 2023}},
		{"competencia label", "Competência: dezembro/2022", Key{Month: 12, Year: 2022}},
		{"periodo label", "Período: maio/2023", Key{Month: 5, Year: 2023}},
		{"calculation date", "Data do cálculo: 31/01/2023", Key{Month: 1, Year: 2023}},
		{"bare month year fallback", "Folha de pagamento\nabril/2023\n", Key{Month: 4, Year: 2023}},
		{"accented month", "Referência: março/2023", Key{Month: 3, Year: 2023}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseReference(tc.text)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("no period at all", func(t *testing.T) {
		_, ok := ParseReference("01003601 PREMIO PROD. MENSAL 220,00 601,65")
		assert.False(t, ok)
	})

	t.Run("invalid month name", func(t *testing.T) {
		_, ok := ParseReference("Referência: trimestre/2023")
		assert.False(t, ok)
	})

	t.Run("month thirteen", func(t *testing.T) {
		_, ok := ParseReference("Referência: 13/2023")
		assert.False(t, ok)
	})
}

func TestKeyRendering(t *testing.T) {
	k := Key{Month: 1, Year: 2023}
	assert.Equal(t, "01/2023", k.String())
	assert.Equal(t, "jan/23", k.SheetLabel())

	assert.Equal(t, "dez/99", Key{Month: 12, Year: 1999}.SheetLabel())
}

func TestMatchCell(t *testing.T) {
	k := Key{Month: 1, Year: 2023}

	t.Run("sheet label", func(t *testing.T) {
		assert.True(t, MatchCell("jan/23", k))
		assert.True(t, MatchCell("JAN/23", k))
		assert.False(t, MatchCell("fev/23", k))
	})

	t.Run("excel serial", func(t *testing.T) {
		// 2023-01-01 as an Excel serial.
		serial := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).
			Sub(time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)).Hours() / 24
		assert.True(t, MatchCell("44927", k))
		assert.InDelta(t, 44927, serial, 0.1)
	})

	t.Run("formatted date", func(t *testing.T) {
		assert.True(t, MatchCell("01/01/2023", k))
		assert.True(t, MatchCell("2023-01-15", k))
		assert.False(t, MatchCell("01/02/2023", k))
	})

	t.Run("empty and unrelated cells", func(t *testing.T) {
		assert.False(t, MatchCell("", k))
		assert.False(t, MatchCell("TOTAL", k))
	})
}

func TestFromSerial(t *testing.T) {
	t.Run("modern serial", func(t *testing.T) {
		d := FromSerial(44927)
		assert.Equal(t, 2023, d.Year())
		assert.Equal(t, time.January, d.Month())
		assert.Equal(t, 1, d.Day())
	})

	t.Run("pre leap-bug serial", func(t *testing.T) {
		// Serial 59 is 1900-02-28; the fictitious 1900-02-29 never shifts it.
		d := FromSerial(59)
		assert.Equal(t, 1900, d.Year())
		assert.Equal(t, time.February, d.Month())
		assert.Equal(t, 28, d.Day())
	})
}
