// Package spreadsheet reads and writes deck cards as xlsx workbooks.
package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet cards are written to.
const SheetName = "Sheet1"

// Columns is the header row, in export order.
var Columns = []string{"word", "t_word", "description", "pronunciation", "part_of_speech", "synonyms", "sentence", "image_uri"}

func fieldValues(f models.CardFields) []any {
	return []any{f.Word, f.TranslatedWord, f.Description, f.Pronunciation, f.PartOfSpeech, f.Synonyms, f.Sentence, f.ImageURI}
}

func setField(f *models.CardFields, column, value string) {
	switch column {
	case "word":
		f.Word = value
	case "t_word":
		f.TranslatedWord = value
	case "description":
		f.Description = value
	case "pronunciation":
		f.Pronunciation = value
	case "part_of_speech":
		f.PartOfSpeech = value
	case "synonyms":
		f.Synonyms = value
	case "sentence":
		f.Sentence = value
	case "image_uri":
		f.ImageURI = value
	}
}

// Export writes one header row followed by one row per card.
func Export(w io.Writer, cards []models.Card) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, card := range cards {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := fieldValues(card.Fields())
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "H", 24); err != nil {
		return err
	}
	return f.Write(w)
}

// Import reads card fields from the first worksheet. The first row must be a
// header naming at least the "word" column; unknown columns are ignored and
// blank rows are skipped.
func Import(r io.Reader) ([]models.CardFields, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.NewValidationError("file", fmt.Sprintf("not a readable xlsx workbook: %v", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewValidationError("file", "workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewValidationError("file", fmt.Sprintf("cannot read rows: %v", err))
	}
	if len(rows) == 0 {
		return []models.CardFields{}, nil
	}

	columns := make([]string, len(rows[0]))
	hasWord := false
	for i, name := range rows[0] {
		columns[i] = strings.ToLower(strings.TrimSpace(name))
		if columns[i] == "word" {
			hasWord = true
		}
	}
	if !hasWord {
		return nil, errors.NewValidationError("header", `missing "word" column`)
	}

	out := make([]models.CardFields, 0, len(rows)-1)
	for i, row := range rows[1:] {
		var fields models.CardFields
		blank := true
		for j, value := range row {
			if j >= len(columns) {
				break
			}
			value = strings.TrimSpace(value)
			if value != "" {
				blank = false
			}
			setField(&fields, columns[j], value)
		}
		if blank {
			continue
		}
		if fields.Word == "" {
			return nil, errors.NewValidationError(fmt.Sprintf("row %d", i+2), "word cannot be empty")
		}
		out = append(out, fields)
	}
	return out, nil
}
