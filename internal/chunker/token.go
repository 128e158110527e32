package chunker

import "unicode/utf8"

// DefaultCharsPerToken is the ~4 chars/token heuristic used for budgeting.
const DefaultCharsPerToken = 4

// EstimateTokens approximates the token count of text as ceil(chars / charsPerToken).
// Characters are counted as runes, matching the offsets used by ChunkText.
func EstimateTokens(text string, charsPerToken int) int {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	n := utf8.RuneCountInString(text)
	return (n + charsPerToken - 1) / charsPerToken
}

// NeedsChunking reports whether text exceeds maxTokens at the default density.
func NeedsChunking(text string, maxTokens int) bool {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return EstimateTokens(text, DefaultCharsPerToken) > maxTokens
}
