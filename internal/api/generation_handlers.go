package api

import (
	"io"
	"net/http"

	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/logger"
	"github.com/vytor/readwithcard/internal/models"
)

const defaultMaxUploadBytes = 20 << 20

type generateTextRequest struct {
	Text  string   `json:"text"`
	Words []string `json:"words"`
	models.LanguagePair
}

type saveGeneratedRequest struct {
	Cards []models.GeneratedCard `json:"cards"`
}

type checkSentenceRequest struct {
	Sentence string `json:"sentence"`
	models.LanguagePair
}

type continueChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type saveSentenceRequest struct {
	Sentence string `json:"sentence"`
}

func (s *Server) maxUploadBytes() int64 {
	if s.MaxUploadBytes > 0 {
		return s.MaxUploadBytes
	}
	return defaultMaxUploadBytes
}

func (s *Server) handleGenerateFromText(w http.ResponseWriter, r *http.Request) {
	var req generateTextRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.GenerationService.GenerateFromText(r.Context(), req.Text, req.Words, req.LanguagePair)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}

// handleGenerateFromImage expects a multipart form with an "image" file,
// repeated "words" fields and optional n_language / l_language.
func (s *Server) handleGenerateFromImage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())
	if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
		log.Warn("invalid multipart upload: %v", err)
		handleError(w, r, errors.NewBadRequestError("invalid multipart form: "+err.Error()))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		handleError(w, r, errors.NewValidationError("image", "file required"))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("failed to read image: "+err.Error()))
		return
	}

	langs := models.LanguagePair{
		Native:   r.FormValue("n_language"),
		Learning: r.FormValue("l_language"),
	}
	cards, err := s.GenerationService.GenerateFromImage(r.Context(), image, header.Filename, r.MultipartForm.Value["words"], langs)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleSaveGenerated(w http.ResponseWriter, r *http.Request) {
	deckID, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req saveGeneratedRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.GenerationService.SaveGenerated(r.Context(), deckID, req.Cards)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, cards)
}

func (s *Server) handleCheckSentence(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req checkSentenceRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	reply, err := s.SentenceService.CheckSentence(r.Context(), id, req.Sentence, req.LanguagePair)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, reply)
}

func (s *Server) handleContinueChat(w http.ResponseWriter, r *http.Request) {
	var req continueChatRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	reply, err := s.SentenceService.ContinueChat(r.Context(), req.SessionID, req.Message)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, reply)
}

func (s *Server) handleSaveSentence(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req saveSentenceRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.SentenceService.SaveSentence(r.Context(), id, req.Sentence); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
