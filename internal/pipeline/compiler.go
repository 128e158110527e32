package pipeline

import (
	"context"
	"errors"
	"fmt"
)

const pdfMIMEType = "application/pdf"

func (o *Orchestrator) compile(ctx context.Context, s State) (Patch, error) {
	if s.SimplifiedContent == "" {
		return Patch{}, errors.New("no simplified content available to compile")
	}
	if o.Renderer == nil || o.Publisher == nil {
		return Patch{}, errors.New("renderer and publisher are required")
	}

	pdf, err := o.Renderer.Render(s.SimplifiedContent, s.Topic)
	if err != nil {
		return Patch{}, fmt.Errorf("render pdf: %w", err)
	}

	up, err := o.Publisher.Publish(ctx, Document{
		PlanID:   s.PlanID,
		Topic:    s.Topic,
		FileName: s.Topic + " - Study Guide.pdf",
		MIMEType: pdfMIMEType,
		Content:  pdf,
	})
	if err != nil {
		return Patch{}, fmt.Errorf("publish study guide: %w", err)
	}
	o.log.Info("published study guide", "plan_id", s.PlanID, "bytes", len(pdf), "file_id", up.FileID)

	return Patch{PDF: pdf, Upload: &up}, nil
}
