package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/studybuddy/internal/chunker"
)

func (o *Orchestrator) research(ctx context.Context, s State) (Patch, error) {
	if len(s.Materials) == 0 {
		return Patch{}, errors.New("no study materials provided")
	}
	if o.Extractor == nil || o.Model == nil {
		return Patch{}, errors.New("extractor and model are required")
	}
	log := o.log.With("plan_id", s.PlanID, "stage", "research")

	text, err := o.Extractor.ExtractBatch(ctx, s.Materials)
	if err != nil {
		return Patch{}, err
	}
	log.Info("extracted text", "chars", len(text), "estimated_tokens", chunker.EstimateTokens(text, o.Chunking.EstimatedCharsPerToken))

	key := guideCacheKey(s.Topic, s.Difficulty, text)
	guide, hit := o.cachedGuide(ctx, key)
	if hit {
		log.Info("study guide cache hit")
	} else {
		if o.Chunking.NeedsChunking(text) {
			chunks := chunker.ChunkText(text, o.Chunking)
			log.Info("text requires chunking", "chunks", len(chunks))
			guide, err = o.Model.SimplifyChunks(ctx, chunks, s.Topic, s.Difficulty)
		} else {
			guide, err = o.Model.Simplify(ctx, text, s.Topic, s.Difficulty, nil)
		}
		if err != nil {
			return Patch{}, err
		}
		if strings.TrimSpace(guide) == "" {
			return Patch{}, errors.New("model returned an empty study guide")
		}
		o.storeGuide(ctx, key, guide)
	}

	return Patch{
		ExtractedText:     text,
		SimplifiedContent: guide,
		ResearchSummary:   fmt.Sprintf("Processed %d file(s) into a %d character study guide", len(s.Materials), len(guide)),
	}, nil
}

// cachedGuide consults the cache; cache errors are logged and treated as misses.
func (o *Orchestrator) cachedGuide(ctx context.Context, key string) (string, bool) {
	if o.Cache == nil {
		return "", false
	}
	guide, ok, err := o.Cache.Get(ctx, key)
	if err != nil {
		o.log.Warn("study guide cache read failed", "error", err)
		return "", false
	}
	return guide, ok && guide != ""
}

func (o *Orchestrator) storeGuide(ctx context.Context, key, guide string) {
	if o.Cache == nil {
		return
	}
	if err := o.Cache.Set(ctx, key, guide); err != nil {
		o.log.Warn("study guide cache write failed", "error", err)
	}
}
