package cardapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/logger"
	"github.com/vytor/readwithcard/internal/models"
)

const (
	textPath          = "/api/cards/text"
	imagePath         = "/api/cards/image"
	checkSentencePath = "/api/chat/check-sentence"
	continueChatPath  = "/api/chat/continue"

	statusSuccess = "success"
	statusError   = "error"
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	MaxTextLength     int
	MaxImageBytes     int64
	MaxImageDimension int
	HTTPClient        *http.Client
}

type Client struct {
	baseURL       string
	httpClient    *http.Client
	maxTextLength int
	maxImageBytes int64
	maxDimension  int
	log           *logger.Logger
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8000"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxTextLength <= 0 {
		opts.MaxTextLength = 1000
	}
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = 10 << 20
	}
	if opts.MaxImageDimension <= 0 {
		opts.MaxImageDimension = 2048
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		httpClient:    httpClient,
		maxTextLength: opts.MaxTextLength,
		maxImageBytes: opts.MaxImageBytes,
		maxDimension:  opts.MaxImageDimension,
		log:           logger.Default().WithPrefix("cardapi"),
	}
}

// envelope is the response body shared by every endpoint.
type envelope struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	SessionID string          `json:"session_id"`
	Detail    string          `json:"detail"`
}

type textRequest struct {
	Text     string   `json:"text"`
	Words    []string `json:"words"`
	Native   string   `json:"n_language"`
	Learning string   `json:"l_language"`
}

type sentenceRequest struct {
	Word     string `json:"word"`
	Sentence string `json:"sentence"`
	Native   string `json:"n_language"`
	Learning string `json:"l_language"`
}

type continueRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func cleanWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func (c *Client) GenerateFromText(ctx context.Context, text string, words []string, langs models.LanguagePair) ([]models.GeneratedCard, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.NewValidationError("text", "cannot be empty")
	}
	if n := utf8.RuneCountInString(text); n > c.maxTextLength {
		return nil, errors.NewValidationError("text", fmt.Sprintf("must be at most %d characters (got %d)", c.maxTextLength, n))
	}
	words = cleanWords(words)
	if len(words) == 0 {
		return nil, errors.NewValidationError("words", "at least one word is required")
	}

	body, err := json.Marshal(textRequest{Text: text, Words: words, Native: langs.Native, Learning: langs.Learning})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	env, err := c.do(ctx, textPath, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return decodeCards(env)
}

func (c *Client) GenerateFromImage(ctx context.Context, image []byte, filename string, words []string, langs models.LanguagePair) ([]models.GeneratedCard, error) {
	if len(image) == 0 {
		return nil, errors.NewValidationError("image", "cannot be empty")
	}
	words = cleanWords(words)
	if len(words) == 0 {
		return nil, errors.NewValidationError("words", "at least one word is required")
	}

	image, filename, err := c.fitImage(ctx, image, filename)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, errors.NewInternalError(err)
	}
	for _, w := range words {
		if err := mw.WriteField("words", w); err != nil {
			return nil, errors.NewInternalError(err)
		}
	}
	if err := mw.WriteField("n_language", langs.Native); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if err := mw.WriteField("l_language", langs.Learning); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if err := mw.Close(); err != nil {
		return nil, errors.NewInternalError(err)
	}

	env, err := c.do(ctx, imagePath, mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	return decodeCards(env)
}

func (c *Client) CheckSentence(ctx context.Context, word, sentence string, langs models.LanguagePair) (*models.ChatReply, error) {
	if strings.TrimSpace(word) == "" {
		return nil, errors.NewValidationError("word", "cannot be empty")
	}
	if strings.TrimSpace(sentence) == "" {
		return nil, errors.NewValidationError("sentence", "cannot be empty")
	}

	body, err := json.Marshal(sentenceRequest{Word: word, Sentence: sentence, Native: langs.Native, Learning: langs.Learning})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	env, err := c.do(ctx, checkSentencePath, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return decodeReply(env, "")
}

func (c *Client) ContinueChat(ctx context.Context, sessionID, message string) (*models.ChatReply, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, errors.NewValidationError("session_id", "cannot be empty")
	}
	if strings.TrimSpace(message) == "" {
		return nil, errors.NewValidationError("message", "cannot be empty")
	}

	body, err := json.Marshal(continueRequest{SessionID: sessionID, Message: message})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	env, err := c.do(ctx, continueChatPath, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return decodeReply(env, sessionID)
}

func (c *Client) do(ctx context.Context, path, contentType string, body io.Reader) (*envelope, error) {
	log := logger.FromContext(ctx).WithPrefix("cardapi").WithField("path", path)
	url := c.baseURL + path

	log.Debug("calling %s", url)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, errors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed: %v", err)
		return nil, errors.NewRemoteServiceError(path, err)
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		log.Error("failed to read response: %v", err)
		return nil, errors.NewRemoteServiceError(path, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Detail
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = strings.TrimSpace(string(raw[:min(len(raw), 1024)]))
		}
		log.Error("request failed: status=%d, body=%s", resp.StatusCode, msg)
		return nil, errors.NewRemoteServiceError(path, fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}
	if decodeErr != nil {
		log.Error("failed to decode response: %v", decodeErr)
		return nil, errors.NewRemoteServiceError(path, decodeErr)
	}
	if env.Status == statusError {
		log.Warn("service reported error: %s", env.Message)
		return nil, errors.NewRemoteServiceError(path, fmt.Errorf("%s", env.Message))
	}
	if env.Status != statusSuccess {
		return nil, errors.NewRemoteServiceError(path, fmt.Errorf("unexpected status %q", env.Status))
	}
	return &env, nil
}

func decodeCards(env *envelope) ([]models.GeneratedCard, error) {
	cards := []models.GeneratedCard{}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return cards, nil
	}
	if err := json.Unmarshal(env.Data, &cards); err != nil {
		return nil, errors.NewRemoteServiceError("decode cards", err)
	}
	return cards, nil
}

func decodeReply(env *envelope, sessionID string) (*models.ChatReply, error) {
	reply := &models.ChatReply{SessionID: env.SessionID, Message: env.Message}
	if reply.SessionID == "" {
		reply.SessionID = sessionID
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &reply.Data); err != nil {
			return nil, errors.NewRemoteServiceError("decode chat reply", err)
		}
	}
	return reply, nil
}
