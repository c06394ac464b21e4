package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/vytor/readwithcard/internal/errors"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleExportDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	// Buffer so a failed export can still produce a JSON error.
	var buf bytes.Buffer
	if err := s.SpreadsheetService.ExportDeck(r.Context(), deckID, &buf); err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="deck-%d.xlsx"`, deckID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleImportDeck expects the workbook in a multipart "file" field.
func (s *Server) handleImportDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())
	if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid multipart form: "+err.Error()))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, errors.NewValidationError("file", "xlsx file required"))
		return
	}
	defer file.Close()

	cards, err := s.SpreadsheetService.ImportDeck(r.Context(), deckID, file)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, cards)
}
