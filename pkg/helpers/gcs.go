package helpers

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// GCSBucket uploads objects into a single bucket.
type GCSBucket struct {
	Client *storage.Client
	Name   string
}

func NewGCSBucket(client *storage.Client, name string) *GCSBucket {
	if client == nil || name == "" {
		return nil
	}
	return &GCSBucket{Client: client, Name: name}
}

// Upload stores r at objectPath and returns its public URL.
func (b *GCSBucket) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	wc := b.Client.Bucket(b.Name).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(b.Name, objectPath), nil
}

// PublicURL builds a public URL for an object (assuming public read access or signed URLs)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}
