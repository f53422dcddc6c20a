package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/fedutinova/logsuggest/internal/common"
	"github.com/go-chi/chi/v5"
)

// FileField is the multipart form field carrying the log file.
const FileField = "file"

// LogAnalyzer is implemented by analyzer.Analyzer.
type LogAnalyzer interface {
	Analyze(ctx context.Context, r io.Reader) (string, error)
	MaxSize() int64
}

type Handlers struct {
	Analyzer LogAnalyzer
}

type AnalyzeResponse struct {
	SuggestedSolution string `json:"suggested_solution"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

func (h *Handlers) Routers(r chi.Router) {
	r.Get("/health", h.Health)
	r.Post("/analyze-log", h.analyzeLog)
}

func (h *Handlers) analyzeLog(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		slog.Warn("analyze-log without multipart body", "error", err, "content_type", r.Header.Get("Content-Type"))
		h.writeError(w, common.ErrMissingFile)
		return
	}

	// Parts are streamed so the upload is never buffered past the size ceiling.
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn("failed to read multipart body", "error", err)
			h.writeError(w, fmt.Errorf("next part: %w", errors.Join(common.ErrMissingFile, err)))
			return
		}
		if part.FormName() != FileField {
			part.Close()
			continue
		}

		slog.Info("log upload received",
			"filename", part.FileName(),
			"content_type", part.Header.Get("Content-Type"))

		suggestion, err := h.Analyzer.Analyze(r.Context(), part)
		part.Close()
		if err != nil {
			h.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, AnalyzeResponse{SuggestedSolution: suggestion})
		return
	}

	h.writeError(w, common.ErrMissingFile)
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status, detail := h.mapError(err)
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

func (h *Handlers) mapError(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrPayloadTooLarge):
		limit := h.Analyzer.MaxSize()
		var limitErr common.LimitError
		if errors.As(err, &limitErr) {
			limit = limitErr.Limit
		}
		return http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File too large. Limit is %d bytes. Upload a smaller log file.", limit)
	case errors.Is(err, common.ErrEmptyInput):
		return http.StatusBadRequest, "Uploaded log file is empty."
	case errors.Is(err, common.ErrUnsupportedEncoding):
		return http.StatusBadRequest, "Only UTF-8 text log files are supported."
	case errors.Is(err, common.ErrMissingFile):
		return http.StatusBadRequest, `A multipart file field named "file" is required.`
	case errors.Is(err, common.ErrUnreadableUpload):
		return http.StatusBadRequest, "Could not read the uploaded file."
	case errors.Is(err, common.ErrEmptyUpstreamResponse):
		return http.StatusBadGateway, "LLM returned an empty response."
	case errors.Is(err, common.ErrUpstreamFailure):
		return http.StatusBadGateway, "Failed to get response from LLM provider."
	default:
		slog.Error("unexpected analyze error", "error", err)
		return http.StatusInternalServerError, "internal error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "err", err)
	}
}
