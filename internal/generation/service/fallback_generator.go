package service

import (
	"context"
	"iter"

	generationDomain "github.com/allisson/emoticare/internal/generation/domain"
)

// FallbackGenerator always answers with the canned reply for the language. It is selected
// when no generative provider is configured.
type FallbackGenerator struct{}

// NewFallbackGenerator creates a FallbackGenerator.
func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{}
}

// Stream yields the fallback reply as a single fragment.
func (f *FallbackGenerator) Stream(_ context.Context, _, language string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		yield(generationDomain.FallbackReply(language), nil)
	}
}

// Reply returns the fallback reply.
func (f *FallbackGenerator) Reply(_ context.Context, _, language string) (string, error) {
	return generationDomain.FallbackReply(language), nil
}
