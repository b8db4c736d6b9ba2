package pdfio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonName(t *testing.T) {
	t.Run("simple label", func(t *testing.T) {
		name, ok := PersonName("Empresa X LTDA\nNome: JOSE DA SILVA\nCPF: 000.000.000-00")
		require.True(t, ok)
		assert.Equal(t, "JOSE DA SILVA", name)
	})

	t.Run("label followed by another field on the same line", func(t *testing.T) {
		name, ok := PersonName("Nome: MARIA APARECIDA SOUZA CPF: 111.111.111-11")
		require.True(t, ok)
		assert.Equal(t, "MARIA APARECIDA SOUZA", name)
	})

	t.Run("lowercase label", func(t *testing.T) {
		name, ok := PersonName("nome: Antonio Carlos")
		require.True(t, ok)
		assert.Equal(t, "ANTONIO CARLOS", name)
	})

	t.Run("accented name survives", func(t *testing.T) {
		name, ok := PersonName("NOME: JOÃO GONÇALVES")
		require.True(t, ok)
		assert.Equal(t, "JOÃO GONÇALVES", name)
	})

	t.Run("no label", func(t *testing.T) {
		_, ok := PersonName("Demonstrativo de pagamento\nReferência: janeiro/2023")
		assert.False(t, ok)
	})
}

func TestCleanName(t *testing.T) {
	t.Run("strips punctuation and squeezes spaces", func(t *testing.T) {
		name, ok := CleanName("  jose   da-silva. ")
		require.True(t, ok)
		assert.Equal(t, "JOSE DA SILVA", name)
	})

	t.Run("drops label words", func(t *testing.T) {
		name, ok := CleanName("FUNCIONARIO JOSE DA SILVA")
		require.True(t, ok)
		assert.Equal(t, "JOSE DA SILVA", name)
	})

	t.Run("rejects pure digits", func(t *testing.T) {
		_, ok := CleanName("123 456")
		assert.False(t, ok)
	})

	t.Run("rejects too short", func(t *testing.T) {
		_, ok := CleanName("AB")
		assert.False(t, ok)
	})

	t.Run("rejects only label words", func(t *testing.T) {
		_, ok := CleanName("FUNCIONARIO")
		assert.False(t, ok)
	})
}

func TestNormalizeFileName(t *testing.T) {
	assert.Equal(t, "JOSE DA SILVA", NormalizeFileName("JOSE /  DA\\ SILVA"))
	assert.Equal(t, "MARIA SOUZA", NormalizeFileName("MARIA: SOUZA?"))

	long := make([]byte, 0, 150)
	for i := 0; i < 150; i++ {
		long = append(long, 'A')
	}
	assert.Len(t, NormalizeFileName(string(long)), 100)
}
