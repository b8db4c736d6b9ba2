package spreadsheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/classify"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/numfmt"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/period"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/reconcile"
)

const testSheet = "LEVANTAMENTO DADOS"

func buildWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	_, err := f.NewSheet(testSheet)
	require.NoError(t, err)

	require.NoError(t, f.SetCellValue(testSheet, "A12", "jan/23"))
	require.NoError(t, f.SetCellValue(testSheet, "A14", 44958)) // 2023-02-01 serial
	require.NoError(t, f.SetCellValue(testSheet, "B12", 2500))
	require.NoError(t, f.SetCellValue(testSheet, "A70", "dez/23"))

	path := filepath.Join(t.TempDir(), "MODELO.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestOpen(t *testing.T) {
	path := buildWorkbook(t)

	t.Run("existing sheet", func(t *testing.T) {
		wb, err := Open(path, testSheet)
		require.NoError(t, err)
		defer wb.Close()
		assert.Equal(t, testSheet, wb.Sheet())
	})

	t.Run("missing sheet", func(t *testing.T) {
		_, err := Open(path, "INEXISTENTE")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "INEXISTENTE")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "nope.xlsx"), testSheet)
		assert.Error(t, err)
	})
}

func TestWorkbook_FindPeriodRow(t *testing.T) {
	wb, err := Open(buildWorkbook(t), testSheet)
	require.NoError(t, err)
	defer wb.Close()

	t.Run("label in the normal band", func(t *testing.T) {
		row, ok := wb.FindPeriodRow(period.Key{Month: 1, Year: 2023}, classify.Band(classify.Normal))
		require.True(t, ok)
		assert.Equal(t, 12, row)
	})

	t.Run("serial date cell", func(t *testing.T) {
		row, ok := wb.FindPeriodRow(period.Key{Month: 2, Year: 2023}, classify.Band(classify.Normal))
		require.True(t, ok)
		assert.Equal(t, 14, row)
	})

	t.Run("open-ended thirteenth band", func(t *testing.T) {
		row, ok := wb.FindPeriodRow(period.Key{Month: 12, Year: 2023}, classify.Band(classify.Thirteenth))
		require.True(t, ok)
		assert.Equal(t, 70, row)
	})

	t.Run("thirteenth band excludes normal rows", func(t *testing.T) {
		_, ok := wb.FindPeriodRow(period.Key{Month: 1, Year: 2023}, classify.Band(classify.Thirteenth))
		assert.False(t, ok)
	})

	t.Run("absent period", func(t *testing.T) {
		_, ok := wb.FindPeriodRow(period.Key{Month: 6, Year: 2024}, classify.Band(classify.Normal))
		assert.False(t, ok)
	})
}

func TestWorkbook_CellValue(t *testing.T) {
	wb, err := Open(buildWorkbook(t), testSheet)
	require.NoError(t, err)
	defer wb.Close()

	value, err := wb.CellValue(12, "B")
	require.NoError(t, err)
	assert.Equal(t, "2500", value)

	value, err = wb.CellValue(12, "X")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestWorkbook_ApplyAndSave(t *testing.T) {
	path := buildWorkbook(t)
	wb, err := Open(path, testSheet)
	require.NoError(t, err)

	amount, ok := numfmt.Normalize("1.203,30", false)
	require.True(t, ok)
	hours, ok := numfmt.Normalize("06:34", true)
	require.True(t, ok)

	writes := []reconcile.Write{
		{Row: 12, Column: "X", Value: amount},
		{Row: 12, Column: "Y", Value: hours},
	}
	require.NoError(t, wb.Apply(writes))
	require.NoError(t, wb.Save())
	require.NoError(t, wb.Close())

	reopened, err := Open(path, testSheet)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.CellValue(12, "X")
	require.NoError(t, err)
	assert.Equal(t, "1203.3", value)

	value, err = reopened.CellValue(12, "Y")
	require.NoError(t, err)
	assert.Equal(t, "06,34", value)
}

func TestCopyTemplate(t *testing.T) {
	t.Run("copies into a fresh directory", func(t *testing.T) {
		template := buildWorkbook(t)
		dest := filepath.Join(t.TempDir(), "DADOS", "JOSE DA SILVA.xlsx")

		require.NoError(t, CopyTemplate(template, dest))

		src, err := os.ReadFile(template)
		require.NoError(t, err)
		copied, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, src, copied)
	})

	t.Run("missing template", func(t *testing.T) {
		err := CopyTemplate(filepath.Join(t.TempDir(), "MODELO.xlsm"), filepath.Join(t.TempDir(), "out.xlsm"))
		assert.Error(t, err)
	})
}
