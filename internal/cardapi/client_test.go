package cardapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/readwithcard/internal/cardapi"
	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/models"
)

var langs = models.LanguagePair{Native: "Turkish", Learning: "English"}

func newClient(t *testing.T, handler http.HandlerFunc) *cardapi.Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return cardapi.New(cardapi.Options{BaseURL: srv.URL, MaxTextLength: 50, MaxImageBytes: 4000, MaxImageDimension: 16})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGenerateFromText_Success(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cards/text", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "The cat sat on the mat.", body["text"])
		assert.Equal(t, []any{"cat", "mat"}, body["words"])
		assert.Equal(t, "Turkish", body["n_language"])
		assert.Equal(t, "English", body["l_language"])

		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "Cards created",
			"data": []map[string]string{
				{"word": "cat", "t_word": "kedi", "sentence": "The cat sat.", "t_sentence": "Kedi oturdu."},
				{"word": "mat", "t_word": "paspas"},
			},
		})
	})

	cards, err := client.GenerateFromText(context.Background(), "The cat sat on the mat.", []string{"cat", " ", "mat"}, langs)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "kedi", cards[0].TranslatedWord)
	assert.Equal(t, "Kedi oturdu.", cards[0].TranslatedSentence)
	assert.Equal(t, "mat", cards[1].Fields().Word)
}

func TestGenerateFromText_Validation(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	tests := []struct {
		name  string
		text  string
		words []string
	}{
		{"empty text", "  ", []string{"a"}},
		{"text too long", strings.Repeat("x", 51), []string{"a"}},
		{"no words", "short text", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GenerateFromText(context.Background(), tt.text, tt.words, langs)
			assert.True(t, errors.IsValidation(err), "got %v", err)
		})
	}
}

func TestGenerate_RemoteFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error with detail", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Error during card creation"})
		}},
		{"error status in envelope", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "error", "message": "quota"})
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, "not json")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, tt.handler)
			_, err := client.GenerateFromText(context.Background(), "some text", []string{"text"}, langs)
			require.Error(t, err)
			assert.True(t, errors.IsRemote(err), "got %v", err)
		})
	}
}

func noisyPNG(t *testing.T, size int) []byte {
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			img.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGenerateFromImage_DownscalesLargeImages(t *testing.T) {
	original := noisyPNG(t, 128)
	require.Greater(t, len(original), 4000)

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cards/image", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		data, err := io.ReadAll(file)
		require.NoError(t, err)

		assert.Equal(t, "page.jpg", header.Filename)
		assert.LessOrEqual(t, len(data), 4000)
		assert.Equal(t, []string{"cat", "dog"}, r.MultipartForm.Value["words"])
		assert.Equal(t, "Turkish", r.FormValue("n_language"))

		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": []map[string]string{{"word": "cat"}}})
	})

	cards, err := client.GenerateFromImage(context.Background(), original, "page.png", []string{"cat", "dog"}, langs)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestGenerateFromImage_RejectsUndecodableOversizedImage(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.GenerateFromImage(context.Background(), bytes.Repeat([]byte{1}, 5000), "x.png", []string{"a"}, langs)
	assert.True(t, errors.IsValidation(err))
}

func TestCheckSentenceAndContinue(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat/check-sentence":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "run", body["word"])
			writeJSON(w, http.StatusOK, map[string]any{
				"status": "success", "message": "Sentence analyzed successfully",
				"data": "Good sentence!", "session_id": "abc",
			})
		case "/api/chat/continue":
			writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": "Sure."})
		default:
			http.NotFound(w, r)
		}
	})

	reply, err := client.CheckSentence(context.Background(), "run", "I run daily.", langs)
	require.NoError(t, err)
	assert.Equal(t, "abc", reply.SessionID)
	assert.Equal(t, "Good sentence!", reply.Data)

	reply, err = client.ContinueChat(context.Background(), "abc", "Why?")
	require.NoError(t, err)
	assert.Equal(t, "abc", reply.SessionID, "session id falls back to the request")
	assert.Equal(t, "Sure.", reply.Data)

	_, err = client.ContinueChat(context.Background(), "", "Why?")
	assert.True(t, errors.IsValidation(err))
}
