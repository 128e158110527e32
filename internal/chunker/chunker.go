package chunker

// Default budget values.
const (
	DefaultMaxTokens     = 25000
	DefaultOverlapTokens = 500
)

// snapThreshold is the fraction of the window a sentence boundary must pass
// before the chunk end is pulled back to it.
const snapThreshold = 0.8

// TextChunk is a contiguous slice of the source text. Positions are character
// offsets and Content is exactly the characters in [StartPosition, EndPosition).
type TextChunk struct {
	Content       string `json:"content"`
	ChunkIndex    int    `json:"chunk_index"`
	TotalChunks   int    `json:"total_chunks"`
	StartPosition int    `json:"start_position"`
	EndPosition   int    `json:"end_position"`
}

// Config controls chunking behavior.
type Config struct {
	MaxTokens              int // Per-chunk budget in estimated tokens.
	OverlapTokens          int // Tokens repeated at the start of the next chunk.
	EstimatedCharsPerToken int
}

// DefaultConfig returns the production budget.
func DefaultConfig() Config {
	return Config{
		MaxTokens:              DefaultMaxTokens,
		OverlapTokens:          DefaultOverlapTokens,
		EstimatedCharsPerToken: DefaultCharsPerToken,
	}
}

func (c Config) normalized() Config {
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.EstimatedCharsPerToken <= 0 {
		c.EstimatedCharsPerToken = DefaultCharsPerToken
	}
	if c.OverlapTokens < 0 {
		c.OverlapTokens = 0
	}
	return c
}

// NeedsChunking reports whether text is over this config's token budget.
func (c Config) NeedsChunking(text string) bool {
	c = c.normalized()
	return EstimateTokens(text, c.EstimatedCharsPerToken) > c.MaxTokens
}

// ChunkText splits text into overlapping windows of at most MaxTokens
// estimated tokens, preferring to end each window on a sentence boundary.
// The chunks cover the whole text in order; empty text yields no chunks.
func ChunkText(text string, cfg Config) []TextChunk {
	cfg = cfg.normalized()

	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	maxChars := cfg.MaxTokens * cfg.EstimatedCharsPerToken
	overlapChars := cfg.OverlapTokens * cfg.EstimatedCharsPerToken
	minSnap := float64(maxChars) * snapThreshold

	var chunks []TextChunk
	for start := 0; start < n; {
		end := min(start+maxChars, n)
		if end < n {
			if b := sentenceBoundary(runes, start, end); float64(b) > float64(start)+minSnap {
				end = b
			}
		}

		chunks = append(chunks, TextChunk{
			Content:       string(runes[start:end]),
			ChunkIndex:    len(chunks),
			StartPosition: start,
			EndPosition:   end,
		})
		if end == n {
			break
		}

		next := end - overlapChars
		if next <= start {
			next = end
		}
		start = next
	}

	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
	}
	return chunks
}

// sentenceBoundary returns the position just after the last sentence
// terminator (". ", ".\n", "! ", "!\n", "? ", "?\n") that lies entirely in
// runes[start:end], or end when there is none.
func sentenceBoundary(runes []rune, start, end int) int {
	for i := end - 2; i >= start; i-- {
		switch runes[i] {
		case '.', '!', '?':
			if next := runes[i+1]; next == ' ' || next == '\n' {
				return i + 2
			}
		}
	}
	return end
}
