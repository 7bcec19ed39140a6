package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

// FetchPrefix downloads every object under bucket/prefix into destDir,
// preserving paths relative to the prefix. Returns the number of objects
// fetched.
func FetchPrefix(ctx context.Context, bucket, prefix, destDir string, log *zap.Logger) (int, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return 0, fmt.Errorf("storage client: %w", err)
	}
	defer client.Close()

	it := client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	fetched := 0
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fetched, fmt.Errorf("list gs://%s/%s: %w", bucket, prefix, err)
		}
		// Directory placeholder objects carry no data.
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(attrs.Name, prefix), "/")
		if rel == "" {
			rel = filepath.Base(attrs.Name)
		}
		dest := filepath.Join(destDir, filepath.FromSlash(rel))

		if err := fetchObject(ctx, client, bucket, attrs.Name, dest); err != nil {
			log.Warn("skipping object", zap.String("object", attrs.Name), zap.Error(err))
			continue
		}
		fetched++
		log.Debug("fetched object",
			zap.String("object", attrs.Name),
			zap.String("dest", dest),
			zap.Int64("bytes", attrs.Size))
	}
	log.Info("fetched artifacts",
		zap.String("bucket", bucket),
		zap.String("prefix", prefix),
		zap.Int("objects", fetched))
	return fetched, nil
}

func fetchObject(ctx context.Context, client *storage.Client, bucket, object, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("open reader: %w", err)
	}
	defer r.Close()

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("download: %w", err)
	}
	return f.Close()
}
