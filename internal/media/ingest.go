package media

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxUploadBytes is the largest accepted input payload (10 MiB).
	MaxUploadBytes = 10 << 20

	DefaultMaxDimension = 1080
	DefaultJPEGQuality  = 85
)

// ObjectStore is the slice of the storage platform the ingestion workflow
// needs. Upload must reject an existing key instead of overwriting it.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	PublicURL(key string) string
	Remove(ctx context.Context, keys []string) error
	Bucket() string
}

// Input is one user-selected image plus the reference it supersedes, if any.
type Input struct {
	Filename    string
	ContentType string
	Data        []byte
	PriorURL    string
}

// Ingestor runs the ingestion workflow: validate, resize, re-encode as JPEG,
// upload under a fresh key and garbage-collect the superseded object.
type Ingestor struct {
	store   ObjectStore
	log     *zap.Logger
	maxDim  int
	quality int
}

func NewIngestor(store ObjectStore, log *zap.Logger, maxDim, quality int) *Ingestor {
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	return &Ingestor{store: store, log: log, maxDim: maxDim, quality: quality}
}

// Ingest validates and stores one image. On success the returned reference is
// live in the store; linking it into a record is the caller's job. Prior
// cleanup is best-effort and never aborts the run. Every remote call is
// attempted exactly once.
func (ing *Ingestor) Ingest(ctx context.Context, in Input) (ObjectReference, error) {
	if !strings.HasPrefix(in.ContentType, "image/") {
		return ObjectReference{}, &ValidationError{Reason: "not an image"}
	}
	if len(in.Data) > MaxUploadBytes {
		return ObjectReference{}, &ValidationError{Reason: "too large"}
	}

	ing.cleanupPrior(ctx, in.PriorURL)

	img, err := imaging.Decode(bytes.NewReader(in.Data), imaging.AutoOrientation(true))
	if err != nil {
		return ObjectReference{}, &DecodeError{Err: err}
	}

	bounds := img.Bounds()
	w, h := fit(bounds.Dx(), bounds.Dy(), ing.maxDim)
	if w != bounds.Dx() || h != bounds.Dy() {
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(ing.quality)); err != nil {
		return ObjectReference{}, fmt.Errorf("encode: %w", err)
	}

	key := buildKey()
	if err := ing.store.Upload(ctx, key, "image/jpeg", buf.Bytes()); err != nil {
		return ObjectReference{}, &UploadError{Err: err}
	}

	ing.log.Info("image ingested",
		zap.String("key", key),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("bytes", buf.Len()))

	return ObjectReference{
		Bucket:    ing.store.Bucket(),
		Key:       key,
		PublicURL: ing.store.PublicURL(key),
	}, nil
}

// Remove deletes the object behind a linked reference. URLs that do not match
// the store's public path convention are left untouched and return nil, so
// the caller still clears its link. Store failures come back as CleanupError;
// callers log them and proceed, accepting the orphaned object.
func (ing *Ingestor) Remove(ctx context.Context, rawURL string) error {
	ref, ok := ParseReference(rawURL)
	if !ok || ref.Bucket != ing.store.Bucket() {
		return nil
	}
	if err := ing.store.Remove(ctx, []string{ref.Key}); err != nil {
		return &CleanupError{Key: ref.Key, Err: err}
	}
	return nil
}

func (ing *Ingestor) cleanupPrior(ctx context.Context, priorURL string) {
	if strings.TrimSpace(priorURL) == "" {
		return
	}
	ref, ok := ParseReference(priorURL)
	if !ok || ref.Bucket != ing.store.Bucket() {
		return
	}
	if err := ing.store.Remove(ctx, []string{ref.Key}); err != nil {
		ing.log.Warn("stale image cleanup failed",
			zap.String("key", ref.Key),
			zap.Error(err))
	}
}

// fit bounds the longer edge by max, preserving aspect ratio. Images already
// within bounds keep their dimensions.
func fit(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w >= h {
		return max, atLeastOne(math.Round(float64(h) * float64(max) / float64(w)))
	}
	return atLeastOne(math.Round(float64(w) * float64(max) / float64(h))), max
}

func atLeastOne(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}

func buildKey() string {
	return fmt.Sprintf("%s-%d.jpg", uuid.NewString(), time.Now().UnixMilli())
}
