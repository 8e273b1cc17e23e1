package service

import (
	"context"
	"iter"
	"log/slog"
	"time"

	generationDomain "github.com/allisson/emoticare/internal/generation/domain"
)

// ResilientGenerator bounds every generation with a timeout and replaces upstream failures
// with the language fallback reply.
//
// A failure before the first fragment yields the fallback as the only fragment. A failure
// after some fragments ends the sequence so the partial reply stands. When the caller's own
// context is cancelled the error is passed through instead, since nobody is left to answer.
type ResilientGenerator struct {
	next    Generator
	timeout time.Duration
	logger  *slog.Logger
}

// NewResilientGenerator wraps next. A zero timeout disables the deadline.
func NewResilientGenerator(next Generator, timeout time.Duration, logger *slog.Logger) *ResilientGenerator {
	return &ResilientGenerator{next: next, timeout: timeout, logger: logger}
}

func (r *ResilientGenerator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Stream forwards fragments from the wrapped generator.
func (r *ResilientGenerator) Stream(ctx context.Context, text, language string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		genCtx, cancel := r.withTimeout(ctx)
		defer cancel()

		produced := false
		for chunk, err := range r.next.Stream(genCtx, text, language) {
			if err != nil {
				if ctx.Err() != nil {
					yield("", ctx.Err())
					return
				}
				r.logger.Warn("generation failed",
					slog.Bool("partial", produced),
					slog.String("language", language),
					slog.Any("error", err))
				if !produced {
					yield(generationDomain.FallbackReply(language), nil)
				}
				return
			}
			produced = true
			if !yield(chunk, nil) {
				return
			}
		}

		if !produced && ctx.Err() == nil {
			r.logger.Warn("generation returned no content", slog.String("language", language))
			yield(generationDomain.FallbackReply(language), nil)
		}
	}
}

// Reply returns the wrapped generator's reply, or the fallback when it fails.
func (r *ResilientGenerator) Reply(ctx context.Context, text, language string) (string, error) {
	genCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	reply, err := r.next.Reply(genCtx, text, language)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		r.logger.Warn("generation failed", slog.String("language", language), slog.Any("error", err))
		return generationDomain.FallbackReply(language), nil
	}
	return reply, nil
}
