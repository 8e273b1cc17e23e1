package service

import (
	generationDomain "github.com/allisson/emoticare/internal/generation/domain"
)

const basePrompt = `You are EmotiCare, a supportive chat companion and not a therapist.
Sound warm and human. Avoid pet names, emojis, clinical language and diagnoses.
Reply in exactly two short sentences: first a specific validation with one concrete next step,
then exactly one question that helps you understand the person better.`

// systemPrompt returns the instruction sent with every request for the given language.
func systemPrompt(language string) string {
	if generationDomain.IsHindi(language) {
		return basePrompt + "\nRespond in Hindi using Devanagari script. Keep it casual and short."
	}
	return basePrompt + "\nRespond in English."
}
