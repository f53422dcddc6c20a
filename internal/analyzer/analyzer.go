// Package analyzer turns one uploaded log into one model suggestion.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fedutinova/logsuggest/internal/common"
	"github.com/fedutinova/logsuggest/internal/validation"
	"github.com/gabriel-vasile/mimetype"
)

const instructions = "You are a production support assistant. Analyze the following application log and return:\n" +
	"1) probable root cause\n" +
	"2) short explanation\n" +
	"3) concrete remediation steps\n" +
	"4) prevention tips\n\n"

// Completer is the upstream LLM call.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Analyzer struct {
	llm     Completer
	maxSize int64
}

func New(llm Completer, maxSize int64) *Analyzer {
	return &Analyzer{llm: llm, maxSize: maxSize}
}

func (a *Analyzer) MaxSize() int64 {
	return a.maxSize
}

// BuildPrompt appends the log verbatim after the fixed instruction block.
func BuildPrompt(logText string) string {
	return instructions + "Log:\n" + logText
}

// Analyze validates the upload read from r and, if it passes, asks the model
// for a suggestion. The upstream is called at most once.
func (a *Analyzer) Analyze(ctx context.Context, r io.Reader) (string, error) {
	raw, err := validation.ReadBounded(r, a.maxSize)
	if err != nil {
		slog.Warn("failed to read upload", "error", err)
		return "", fmt.Errorf("read upload: %w", errors.Join(common.ErrUnreadableUpload, err))
	}

	logText, err := validation.ValidateLog(raw, a.maxSize)
	if err != nil {
		slog.Warn("upload rejected", "reason", err, "size", len(raw), "limit", a.maxSize)
		return "", err
	}

	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		slog.Debug("upload accepted", "size", len(raw), "detected_type", mimetype.Detect(raw).String())
	}

	start := time.Now()
	out, err := a.llm.Complete(ctx, BuildPrompt(logText))
	if err != nil {
		slog.Error("LLM call failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		if common.IsUpstream(err) {
			return "", err
		}
		return "", common.WrapUpstream("complete", err)
	}

	suggestion := strings.TrimSpace(out)
	if suggestion == "" {
		slog.Warn("LLM returned empty response", "duration_ms", time.Since(start).Milliseconds())
		return "", common.ErrEmptyUpstreamResponse
	}

	slog.Info("log analyzed",
		"log_size", len(raw),
		"suggestion_length", len(suggestion),
		"duration_ms", time.Since(start).Milliseconds())

	return suggestion, nil
}
