package spreadsheet_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/models"
	"github.com/vytor/readwithcard/internal/spreadsheet"
	"github.com/xuri/excelize/v2"
)

func TestExportThenImport(t *testing.T) {
	cards := []models.Card{
		{Word: "apple", TranslatedWord: "elma", PartOfSpeech: "noun", Synonyms: "fruit"},
		{Word: "run", TranslatedWord: "koşmak", Sentence: "I run every day."},
	}

	var buf bytes.Buffer
	require.NoError(t, spreadsheet.Export(&buf, cards))

	fields, err := spreadsheet.Import(&buf)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, cards[0].Fields(), fields[0])
	assert.Equal(t, cards[1].Fields(), fields[1])
}

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(spreadsheet.SheetName, cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestImport_HeaderOrderAndBlankRows(t *testing.T) {
	buf := workbook(t, [][]any{
		{"T_Word", "Word", "notes"},
		{"ev", "house", "ignored"},
		{"", "", ""},
		{"kitap", "book"},
	})

	fields, err := spreadsheet.Import(buf)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, models.CardFields{Word: "house", TranslatedWord: "ev"}, fields[0])
	assert.Equal(t, models.CardFields{Word: "book", TranslatedWord: "kitap"}, fields[1])
}

func TestImport_Errors(t *testing.T) {
	t.Run("missing word column", func(t *testing.T) {
		_, err := spreadsheet.Import(workbook(t, [][]any{{"t_word"}, {"ev"}}))
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("row without word", func(t *testing.T) {
		_, err := spreadsheet.Import(workbook(t, [][]any{{"word", "t_word"}, {"", "ev"}}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, err := spreadsheet.Import(bytes.NewBufferString("plain text"))
		assert.True(t, errors.IsValidation(err))
	})
}
