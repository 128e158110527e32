package gcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/dgallion1/studybuddy/internal/pipeline"
	"google.golang.org/api/googleapi"
)

// GCSPublisher publishes study guides as Cloud Storage objects under a
// per-plan folder prefix. Writes are create-only, so a rerun never
// overwrites an object that already exists.
type GCSPublisher struct {
	client *storage.Client
	bucket string
	log    *slog.Logger
	now    func() time.Time
}

func NewGCSPublisher(ctx context.Context, bucket string, log *slog.Logger) (*GCSPublisher, error) {
	if bucket == "" {
		return nil, errors.New("gcs: bucket is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &GCSPublisher{client: client, bucket: bucket, log: log, now: time.Now}, nil
}

func (p *GCSPublisher) Publish(ctx context.Context, doc pipeline.Document) (pipeline.Upload, error) {
	prefix := FolderName(doc.Topic, p.now())
	name := prefix + "/" + doc.FileName

	w := p.client.Bucket(p.bucket).Object(name).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = doc.MIMEType
	w.Metadata = map[string]string{"plan_id": doc.PlanID, "topic": doc.Topic}

	_, err := io.Copy(w, bytes.NewReader(doc.Content))
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	switch {
	case preconditionFailed(err):
		p.log.Info("object already exists, keeping it", "object", name)
	case err != nil:
		return pipeline.Upload{}, fmt.Errorf("write gs://%s/%s: %w", p.bucket, name, err)
	}

	return pipeline.Upload{
		FileID:    name,
		FileURL:   objectURL(p.bucket, name),
		FolderID:  prefix,
		FolderURL: browserURL(p.bucket, prefix),
	}, nil
}

func (p *GCSPublisher) Close() error {
	return p.client.Close()
}

func preconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}

func objectURL(bucket, name string) string {
	return "https://storage.googleapis.com/" + bucket + "/" + escapePath(name)
}

func browserURL(bucket, prefix string) string {
	return "https://console.cloud.google.com/storage/browser/" + bucket + "/" + escapePath(prefix)
}

func escapePath(name string) string {
	parts := strings.Split(name, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
