// Package domain defines language handling and fallback replies for reply generation.
package domain

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

const (
	English = "en"
	Hindi   = "hi"

	// MaxTagLength is the longest tag stored with a message.
	MaxTagLength = 35
)

var fallbackReplies = map[string]string{
	English: "I'm having a little trouble connecting right now. Please try again in a moment.",
	Hindi:   "माफ़ कीजिये, मैं अभी संपर्क नहीं कर पा रहा हूँ। कृपया थोड़ी देर बाद प्रयास करें।",
}

// IsHindi reports whether tag names Hindi. Both "hi" and regional forms such as "hi-IN" match.
func IsHindi(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return tag == Hindi || strings.HasPrefix(tag, Hindi+"-")
}

// NormalizeLanguage maps a client supplied tag to a supported language. An empty tag
// returns an empty string so callers can fall back to detection.
func NormalizeLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	switch {
	case tag == "":
		return ""
	case IsHindi(tag):
		return Hindi
	default:
		return English
	}
}

// DetectLanguage guesses the language of text. Hindi is reported as "hi" and everything
// else as "en".
func DetectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if info.Lang == whatlanggo.Hin {
		return Hindi
	}
	return English
}

// ResolveLanguage returns the normalized tag, or the detected language of text when tag is empty.
func ResolveLanguage(tag, text string) string {
	if lang := NormalizeLanguage(tag); lang != "" {
		return lang
	}
	return DetectLanguage(text)
}

// MessageLanguage returns the tag stored with a message. A tag supplied by the client is kept
// as given; resolved is used when the client sent none or sent one too long to store.
func MessageLanguage(tag, resolved string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" || len(tag) > MaxTagLength {
		return resolved
	}
	return tag
}

// FallbackReply returns the canned reply sent when generation fails.
func FallbackReply(tag string) string {
	if IsHindi(tag) {
		return fallbackReplies[Hindi]
	}
	return fallbackReplies[English]
}
