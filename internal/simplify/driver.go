package simplify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/dgallion1/studybuddy/internal/chunker"
)

// Generator is the narrow contract to a text model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config controls model call resilience.
type Config struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// Driver turns prompts into model output with retry, and runs chunked
// material through the model in order.
type Driver struct {
	gen   Generator
	log   *slog.Logger
	cfg   Config
	stats *LLMStats
	sleep func(context.Context, time.Duration) error
	now   func() time.Time
}

func NewDriver(gen Generator, log *slog.Logger, cfg Config) *Driver {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	return &Driver{
		gen:   gen,
		log:   log,
		cfg:   cfg,
		stats: NewLLMStats(time.Hour),
		sleep: sleepContext,
		now:   time.Now,
	}
}

// Stats returns the driver's call statistics.
func (d *Driver) Stats() *LLMStats { return d.stats }

// CallModel sends prompt to the model, retrying retryable failures with
// exponential backoff. Other failures, and exhaustion, yield ErrModelCallFailed.
func (d *Driver) CallModel(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	attempt := 1
	for ; attempt <= d.cfg.MaxRetries; attempt++ {
		start := time.Now()
		text, err := d.gen.Generate(ctx, prompt)
		d.stats.Record(time.Since(start), err != nil)
		if err == nil {
			d.log.Debug("model call succeeded", "attempt", attempt, "chars", len(text))
			return text, nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == d.cfg.MaxRetries {
			break
		}

		delay := Backoff(d.cfg.BaseDelay, attempt)
		d.log.Warn("retryable model error", "attempt", attempt, "max_attempts", d.cfg.MaxRetries, "retry_in", delay, "error", err)
		if err := d.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("%w: %w", ErrModelCallFailed, err)
		}
	}

	d.log.Error("model call failed", "attempts", attempt, "error", lastErr)
	return "", fmt.Errorf("%w after %d attempt(s): %w", ErrModelCallFailed, attempt, lastErr)
}

// ChunkFunc processes one chunk's content.
type ChunkFunc func(ctx context.Context, content string, index, total int) (string, error)

// ProcessSequential runs fn over chunks one at a time in ChunkIndex order and
// merges the results. The first failure aborts the whole run.
func ProcessSequential(ctx context.Context, chunks []chunker.TextChunk, fn ChunkFunc) (string, error) {
	ordered := slices.Clone(chunks)
	slices.SortFunc(ordered, func(a, b chunker.TextChunk) int { return a.ChunkIndex - b.ChunkIndex })

	results := make([]string, 0, len(ordered))
	for _, c := range ordered {
		out, err := fn(ctx, c.Content, c.ChunkIndex, c.TotalChunks)
		if err != nil {
			return "", fmt.Errorf("%w: chunk %d of %d: %w", ErrChunkProcessingFailed, c.ChunkIndex+1, c.TotalChunks, err)
		}
		results = append(results, out)
	}
	return MergeResults(results), nil
}

// MergeResults joins per-chunk outputs with a horizontal-rule separator.
func MergeResults(results []string) string {
	if len(results) == 1 {
		return results[0]
	}
	return strings.Join(results, "\n\n---\n\n")
}

var markdownFence = regexp.MustCompile("(?s)^```(?:markdown|md)?\\s*\\n(.*?)\\n?```\\s*$")

// Simplify produces a markdown study guide for one piece of material.
func (d *Driver) Simplify(ctx context.Context, content, topic string, difficulty Difficulty, pos *ChunkPosition) (string, error) {
	out, err := d.CallModel(ctx, SimplifyPrompt(content, topic, difficulty, pos))
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if m := markdownFence.FindStringSubmatch(out); m != nil {
		out = strings.TrimSpace(m[1])
	}
	return out, nil
}

// SimplifyChunks runs chunks through Simplify in order, telling the model
// each chunk's position.
func (d *Driver) SimplifyChunks(ctx context.Context, chunks []chunker.TextChunk, topic string, difficulty Difficulty) (string, error) {
	return ProcessSequential(ctx, chunks, func(ctx context.Context, content string, index, total int) (string, error) {
		d.log.Debug("simplifying chunk", "chunk", index+1, "total", total)
		return d.Simplify(ctx, content, topic, difficulty, &ChunkPosition{Index: index, Total: total})
	})
}

// Schedule asks the model for study sessions over durationDays.
func (d *Driver) Schedule(ctx context.Context, topic string, durationDays int, difficulty Difficulty) ([]StudySession, error) {
	out, err := d.CallModel(ctx, SchedulePrompt(topic, durationDays, difficulty, d.now()))
	if err != nil {
		return nil, err
	}
	sessions, err := DecodeJSONArray[StudySession](out)
	if err != nil {
		return nil, err
	}

	valid := sessions[:0]
	for i := range sessions {
		if ValidateSession(&sessions[i], durationDays) {
			valid = append(valid, sessions[i])
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: no usable study sessions", ErrInvalidModelOutput)
	}
	return valid, nil
}

// Tutor answers a student message given study material and prior turns.
func (d *Driver) Tutor(ctx context.Context, message, studyContext string, history []ChatMessage) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errors.New("empty student message")
	}
	out, err := d.CallModel(ctx, TutorPrompt(message, studyContext, history))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Quiz asks the model for n multiple-choice questions. Invalid questions are dropped.
func (d *Driver) Quiz(ctx context.Context, studyContext string, n int) ([]QuizQuestion, error) {
	out, err := d.CallModel(ctx, QuizPrompt(studyContext, n))
	if err != nil {
		return nil, err
	}
	questions, err := DecodeJSONArray[QuizQuestion](out)
	if err != nil {
		return nil, err
	}

	valid := questions[:0]
	for i := range questions {
		if ValidateQuestion(&questions[i]) {
			valid = append(valid, questions[i])
		} else {
			d.log.Warn("dropping invalid quiz question", "index", i)
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: no usable quiz questions", ErrInvalidModelOutput)
	}
	return valid, nil
}
