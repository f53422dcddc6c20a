// Package uploadclient submits log files to the relay service.
package uploadclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	fileField          = "file"
	analyzePath        = "/analyze-log"
	defaultContentType = "text/plain"

	NoSuggestion   = "No suggestion received."
	UnknownBackend = "Unknown backend error"
)

var (
	// ErrNoFile is returned before any network traffic when nothing was selected.
	ErrNoFile = errors.New("please upload a log file first")
	// ErrUnreachable wraps transport failures talking to the relay service.
	ErrUnreachable = errors.New("could not connect to backend API")
)

// BackendError is a non-2xx reply from the relay service.
type BackendError struct {
	Status int
	Detail string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error: %s", e.Detail)
}

type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// DeclaredType returns the content type to send for u, sniffing it when the
// caller did not supply one.
func DeclaredType(u Upload) string {
	if u.ContentType != "" {
		return u.ContentType
	}
	mt := mimetype.Detect(u.Content)
	if mt.Is("text/plain") {
		return mt.String()
	}
	return defaultContentType
}

func encodeUpload(u Upload) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		fileField, escapeQuotes(u.Filename)))
	h.Set("Content-Type", DeclaredType(u))

	pw, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := pw.Write(u.Content); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &body, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// Analyze uploads u and returns the suggestion text. It makes one attempt.
func (c *Client) Analyze(ctx context.Context, u Upload) (string, error) {
	if u.Filename == "" && u.Content == nil {
		return "", ErrNoFile
	}

	body, contentType, err := encodeUpload(u)
	if err != nil {
		return "", fmt.Errorf("encode upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+analyzePath, body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("relay service unreachable", "url", c.baseURL, "error", err)
		return "", fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrUnreachable, err)
	}

	slog.Debug("relay service replied",
		"status", resp.StatusCode,
		"bytes", len(raw),
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Detail string `json:"detail"`
		}
		detail := UnknownBackend
		if json.Unmarshal(raw, &payload) == nil && payload.Detail != "" {
			detail = payload.Detail
		}
		return "", &BackendError{Status: resp.StatusCode, Detail: detail}
	}

	var payload struct {
		SuggestedSolution *string `json:"suggested_solution"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", &BackendError{Status: resp.StatusCode, Detail: UnknownBackend}
	}
	if payload.SuggestedSolution == nil {
		return NoSuggestion, nil
	}
	return *payload.SuggestedSolution, nil
}

// Message turns an Analyze error into the single line shown to a user.
func Message(err error) string {
	var be *BackendError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoFile):
		return "Please upload a log file first."
	case errors.Is(err, ErrUnreachable):
		return "Could not connect to backend API. Ensure the relay service is running."
	case errors.As(err, &be):
		return "Backend error: " + be.Detail
	default:
		return "Backend error: " + UnknownBackend
	}
}
