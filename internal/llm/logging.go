package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/drdscore/internal/store"
)

// LoggingProvider records every call it forwards as an llm_request_events
// row and a structured log line.
type LoggingProvider struct {
	inner  Provider
	repo   store.EventRepo
	logger *slog.Logger
}

// WithLogging wraps p. A nil repo records nothing; a nil logger uses
// slog.Default().
func WithLogging(p Provider, repo store.EventRepo, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{inner: p, repo: repo, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	ev := l.event(ctx, req, resp, err, time.Since(start))

	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelWarn
	}
	l.logger.Log(ctx, level, "llm request",
		"provider", ev.Provider,
		"model", ev.Model,
		"purpose", ev.Purpose,
		"latency_ms", ev.LatencyMs,
		"tokens_in", ev.InputTokens,
		"tokens_out", ev.OutputTokens,
		"error", ev.ErrorMessage,
	)

	// A failed write never fails the call itself.
	if l.repo != nil {
		if werr := l.repo.AppendLLMRequest(ctx, ev); werr != nil {
			l.logger.WarnContext(ctx, "recording llm request", "error", werr)
		}
	}
	return resp, err
}

// event assembles the stored record for one call. The model reported by
// the response wins over the configured one.
func (l *LoggingProvider) event(ctx context.Context, req Request, resp *Response, err error, took time.Duration) store.LLMRequestEventData {
	ev := store.LLMRequestEventData{
		Provider:    l.inner.Name(),
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   took.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	return ev
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) Name() string { return l.inner.Name() }

// transcript renders a request as role-tagged sections followed by the
// response schema, e.g. "[system]\n...\n\n[user]\n...".
func transcript(req Request) string {
	var b strings.Builder
	section := func(tag, text string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", tag, text)
	}

	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		section(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
