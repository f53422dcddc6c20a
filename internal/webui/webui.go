// Package webui serves the browser upload page and relays uploads to the service.
package webui

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/fedutinova/logsuggest/internal/uploadclient"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// maxFormMemory bounds in-memory multipart parsing; larger files spill to disk
// and the relay service enforces the real ceiling.
const maxFormMemory = 32 << 20

//go:embed templates/index.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Analyzer is implemented by uploadclient.Client.
type Analyzer interface {
	Analyze(ctx context.Context, u uploadclient.Upload) (string, error)
}

type page struct {
	Warning    string
	Error      string
	Suggestion template.HTML
}

type Server struct {
	client   Analyzer
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

func New(client Analyzer) *Server {
	return &Server{
		client:   client,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.index)
	r.Post("/", s.submit)
	return r
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.render(w, page{})
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		slog.Warn("failed to parse upload form", "error", err)
		s.render(w, page{Error: "Could not read the selected file."})
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		s.render(w, page{Warning: uploadclient.Message(uploadclient.ErrNoFile)})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		slog.Warn("failed to read selected file", "filename", hdr.Filename, "error", err)
		s.render(w, page{Error: "Could not read the selected file."})
		return
	}

	suggestion, err := s.client.Analyze(r.Context(), uploadclient.Upload{
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		s.render(w, page{Error: uploadclient.Message(err)})
		return
	}

	s.render(w, page{Suggestion: s.toHTML(suggestion)})
}

// toHTML renders markdown and strips anything unsafe; on failure the text is shown preformatted.
func (s *Server) toHTML(md string) template.HTML {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(md), &buf); err != nil {
		slog.Warn("markdown conversion failed", "error", err)
		return template.HTML("<pre>" + template.HTMLEscapeString(md) + "</pre>")
	}
	return template.HTML(s.policy.SanitizeBytes(buf.Bytes()))
}

func (s *Server) render(w http.ResponseWriter, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, p); err != nil {
		slog.Error("render page", "error", err)
	}
}
