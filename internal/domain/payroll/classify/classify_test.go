package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage_TypeLine(t *testing.T) {
	cases := []struct {
		name string
		text string
		want SheetType
	}{
		{"normal", "Empresa X\nTipo da folha: FOLHA NORMAL\nReferência: janeiro/2023", Normal},
		{"thirteenth", "Tipo da folha: 13 SALARIO", Thirteenth},
		{"thirteenth ordinal", "Tipo da folha: 13º Salário", Thirteenth},
		{"vacation", "Tipo da folha: FÉRIAS", Vacation},
		{"vacation unaccented", "Tipo da folha: FERIAS", Vacation},
		{"termination", "Tipo da folha: RESCISÃO", Termination},
		{"advance", "Tipo da folha: ADIANTAMENTO", Advance},
		{"unrecognized label", "Tipo da folha: COMPLEMENTAR", Unknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Page(tc.text))
		})
	}
}

func TestPage_HeaderFallback(t *testing.T) {
	t.Run("keyword in first ten lines", func(t *testing.T) {
		text := "Empresa X\nDemonstrativo de Férias\nReferência: janeiro/2023"
		assert.Equal(t, Vacation, Page(text))
	})

	t.Run("keyword beyond the header window is ignored", func(t *testing.T) {
		lines := make([]string, 12)
		for i := range lines {
			lines[i] = "linha de cabecalho"
		}
		lines = append(lines, "verbas de rescisão")
		assert.Equal(t, Unknown, Page(strings.Join(lines, "\n")))
	})

	t.Run("no keywords at all", func(t *testing.T) {
		assert.Equal(t, Unknown, Page("Página sem identificação\n01003601 PREMIO 220,00 601,65"))
	})
}

func TestPage_TypeLineWinsOverHeader(t *testing.T) {
	// The explicit label beats a keyword elsewhere in the header.
	text := "Aviso de férias em anexo\nTipo da folha: FOLHA NORMAL"
	assert.Equal(t, Normal, Page(text))
}

func TestProcessed(t *testing.T) {
	assert.True(t, Normal.Processed())
	assert.True(t, Thirteenth.Processed())
	assert.False(t, Vacation.Processed())
	assert.False(t, Termination.Processed())
	assert.False(t, Advance.Processed())
	assert.False(t, Unknown.Processed())
}

func TestBand(t *testing.T) {
	assert.Equal(t, RowBand{Start: 1, End: 65}, Band(Normal))
	assert.Equal(t, RowBand{Start: 67}, Band(Thirteenth))
	assert.Equal(t, RowBand{}, Band(Vacation))
}
