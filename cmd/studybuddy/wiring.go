package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/studybuddy/internal/cache"
	"github.com/dgallion1/studybuddy/internal/chunker"
	"github.com/dgallion1/studybuddy/internal/config"
	"github.com/dgallion1/studybuddy/internal/gcp"
	"github.com/dgallion1/studybuddy/internal/parser"
	"github.com/dgallion1/studybuddy/internal/pipeline"
	"github.com/dgallion1/studybuddy/internal/planstore"
	"github.com/dgallion1/studybuddy/internal/render"
	"github.com/dgallion1/studybuddy/internal/simplify"
)

// app is the wired set of clients one command run uses.
type app struct {
	log       *slog.Logger
	extractor *parser.Extractor
	driver    *simplify.Driver
	orch      *pipeline.Orchestrator
	store     *planstore.Store
	closers   []func() error
}

func (a *app) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", "error", err)
		}
	}
}

// buildApp connects to Vertex AI, Firestore and, when configured, Redis.
// Drive or Cloud Storage and Calendar are only wired when workspace is set.
func (c *commandContext) buildApp(ctx context.Context, workspace bool) (*app, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	log := c.log
	a := &app{log: log}

	gemini, err := gcp.NewGemini(ctx, cfg.ProjectID, cfg.Region, cfg.GeminiModel, log)
	if err != nil {
		return nil, err
	}
	a.onClose(gemini.Close)
	a.driver = simplify.NewDriver(gemini, log, simplify.Config{
		MaxRetries: cfg.ModelMaxRetries,
		BaseDelay:  cfg.ModelRetryBaseDelay,
	})

	fs, err := gcp.NewFirestoreClient(ctx, cfg.ProjectID)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.onClose(fs.Close)
	a.store = planstore.New(fs, cfg.FirestoreCollection, log)

	a.extractor = parser.NewExtractor(log, cfg.MaxConcurrentExtract, cfg.PDFFallbackPdftotext)
	deps := pipeline.Deps{
		Extractor: a.extractor,
		Model:     a.driver,
		Renderer:  render.NewPDF(),
		Chunking: chunker.Config{
			MaxTokens:              cfg.MaxTokensPerChunk,
			OverlapTokens:          cfg.OverlapTokens,
			EstimatedCharsPerToken: cfg.EstimatedCharsPerToken,
		},
		QuizSize: cfg.QuizSize,
		Location: cfg.Location(),
	}

	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Warn("study guide cache disabled", "error", err)
		} else {
			deps.Cache = rc
			a.onClose(rc.Close)
		}
	}

	if workspace {
		if err := a.wireWorkspace(ctx, cfg, &deps); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.orch = pipeline.New(log, deps)
	return a, nil
}

func (a *app) wireWorkspace(ctx context.Context, cfg config.Config, deps *pipeline.Deps) error {
	ts, err := gcp.TokenSource(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleTokenFile)
	if err != nil {
		return fmt.Errorf("google credentials: %w", err)
	}

	cal, err := gcp.NewCalendar(ctx, ts, cfg.CalendarID, cfg.CalendarTimezone, a.log)
	if err != nil {
		return err
	}
	deps.Calendar = cal

	switch cfg.PublishTarget {
	case config.PublishGCS:
		pub, err := gcp.NewGCSPublisher(ctx, cfg.GCSBucket, a.log)
		if err != nil {
			return err
		}
		a.onClose(pub.Close)
		deps.Publisher = pub
	default:
		pub, err := gcp.NewDrivePublisher(ctx, ts, a.log)
		if err != nil {
			return err
		}
		deps.Publisher = pub
	}
	return nil
}
