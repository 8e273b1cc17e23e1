// Package service provides the reply generators: the Gemini backed generator, a canned
// fallback generator and a wrapper that turns upstream failures into fallback replies.
package service

import (
	"context"
	"iter"
)

// Generator produces an assistant reply for a user message.
type Generator interface {
	// Stream returns a lazy, finite, non-restartable sequence of reply fragments. A non-nil
	// error ends the sequence. Cancelling ctx stops generation.
	Stream(ctx context.Context, text, language string) iter.Seq2[string, error]

	// Reply returns the complete reply in one call.
	Reply(ctx context.Context, text, language string) (string, error)
}
