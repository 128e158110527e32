package gcp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/studybuddy/internal/pipeline"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const driveFolderMIMEType = "application/vnd.google-apps.folder"

// DrivePublisher uploads study guides into a fresh Drive folder per plan.
type DrivePublisher struct {
	svc *drive.Service
	log *slog.Logger
	now func() time.Time
}

func NewDrivePublisher(ctx context.Context, ts oauth2.TokenSource, log *slog.Logger) (*DrivePublisher, error) {
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("drive.NewService: %w", err)
	}
	return &DrivePublisher{svc: svc, log: log, now: time.Now}, nil
}

func (p *DrivePublisher) Publish(ctx context.Context, doc pipeline.Document) (pipeline.Upload, error) {
	folder, err := p.svc.Files.Create(&drive.File{
		Name:     FolderName(doc.Topic, p.now()),
		MimeType: driveFolderMIMEType,
	}).Fields("id", "webViewLink").Context(ctx).Do()
	if err != nil {
		return pipeline.Upload{}, fmt.Errorf("create drive folder: %w", err)
	}

	file, err := p.svc.Files.Create(&drive.File{
		Name:     doc.FileName,
		MimeType: doc.MIMEType,
		Parents:  []string{folder.Id},
	}).Media(bytes.NewReader(doc.Content), googleapi.ContentType(doc.MIMEType)).
		Fields("id", "webViewLink").Context(ctx).Do()
	if err != nil {
		return pipeline.Upload{}, fmt.Errorf("upload %s: %w", doc.FileName, err)
	}
	p.log.Info("uploaded to drive", "plan_id", doc.PlanID, "folder_id", folder.Id, "file_id", file.Id)

	return pipeline.Upload{
		FileID:    file.Id,
		FileURL:   file.WebViewLink,
		FolderID:  folder.Id,
		FolderURL: folder.WebViewLink,
	}, nil
}
