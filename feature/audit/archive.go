package audit

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"patrician/core/collection"
	"patrician/core/reconcile"
	"patrician/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const (
	runsPrefix = "runs/"

	// SnapshotObject is the pre-merge collection of a run.
	SnapshotObject = "collection.csv"
	// UpdatesObject is the base name of a run's audit dump.
	UpdatesObject = "item-updates"
)

// Archive stores run artifacts in an object storage bucket.
type Archive struct {
	client storage.Client
	bucket string
	region string
	logger *zap.Logger
}

// NewArchive creates an archive backed by client.
func NewArchive(client storage.Client, bucket, region string, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{client: client, bucket: bucket, region: region, logger: logger}
}

// ObjectName returns the object key of name within a run.
func ObjectName(runID, name string) string {
	return path.Join(runsPrefix, runID, name)
}

// Store uploads the audit dump and the pre-merge collection snapshot of a run.
// The bucket is created when missing.
func (a *Archive) Store(ctx context.Context, plan *reconcile.Plan, format Format, snapshot collection.Collection) error {
	if err := storage.EnsureBucket(ctx, a.client, a.bucket, a.region); err != nil {
		return err
	}

	var dump bytes.Buffer
	if err := Dump(&dump, plan, format); err != nil {
		return err
	}
	if err := a.put(ctx, ObjectName(plan.RunID, UpdatesObject+"."+string(format)), dump.Bytes(), format.ContentType()); err != nil {
		return err
	}

	var csv bytes.Buffer
	if err := collection.Write(&csv, append(collection.Collection(nil), snapshot...)); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := a.put(ctx, ObjectName(plan.RunID, SnapshotObject), csv.Bytes(), "text/csv"); err != nil {
		return err
	}

	a.logger.Info("Run archived",
		zap.String("bucket", a.bucket),
		zap.String("prefix", ObjectName(plan.RunID, "")),
	)
	return nil
}

func (a *Archive) put(ctx context.Context, object string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", object, err)
	}
	return nil
}

// Snapshot downloads the pre-merge collection of a run.
func (a *Archive) Snapshot(ctx context.Context, runID string) (collection.Collection, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, ObjectName(runID, SnapshotObject), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot of run %s: %w", runID, err)
	}
	defer obj.Close()

	coll, err := collection.Read(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot of run %s: %w", runID, err)
	}
	return coll, nil
}

// Runs lists the IDs of archived runs in lexical order.
func (a *Archive) Runs(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: runsPrefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archive: %w", obj.Err)
		}
		rest := strings.TrimPrefix(obj.Key, runsPrefix)
		if id, _, ok := strings.Cut(rest, "/"); ok && id != "" {
			seen[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
