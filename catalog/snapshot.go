package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/programme-lv/cfcoach/cfdomain"
	"github.com/programme-lv/cfcoach/s3bucket"
)

// SnapshotStore keeps the last good catalog so recommendations survive an
// upstream outage that starts while the cache is empty.
type SnapshotStore interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
}

var ErrNoSnapshot = errors.New("no catalog snapshot")

type snapshot struct {
	FetchedAt time.Time         `json:"fetched_at"`
	Problems  []snapshotProblem `json:"problems"`
}

type snapshotProblem struct {
	ContestID int      `json:"contest_id"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Tags      []string `json:"tags"`
	Rating    int      `json:"rating,omitempty"`
}

// encodeSnapshot serialises problems as zstd-compressed JSON.
func encodeSnapshot(problems []cfdomain.Problem, fetchedAt time.Time) ([]byte, error) {
	snap := snapshot{FetchedAt: fetchedAt, Problems: make([]snapshotProblem, 0, len(problems))}
	for _, p := range problems {
		snap.Problems = append(snap.Problems, snapshotProblem{
			ContestID: p.ContestID,
			Index:     p.Index,
			Name:      p.Name,
			Tags:      p.Tags,
			Rating:    p.Rating,
		})
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer encoder.Close()

	return encoder.EncodeAll(raw, make([]byte, 0, len(raw)/4)), nil
}

func decodeSnapshot(data []byte) ([]cfdomain.Problem, time.Time, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer decoder.Close()

	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decompress snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	problems := make([]cfdomain.Problem, 0, len(snap.Problems))
	for i, sp := range snap.Problems {
		p := cfdomain.Problem{
			ContestID: sp.ContestID,
			Index:     sp.Index,
			Name:      sp.Name,
			Tags:      sp.Tags,
			Rating:    sp.Rating,
		}
		if err := p.Validate(); err != nil {
			return nil, time.Time{}, fmt.Errorf("snapshot problem %d: %w", i, err)
		}
		problems = append(problems, p)
	}
	return problems, snap.FetchedAt, nil
}

// S3SnapshotStore keeps the snapshot as a single object in an S3 bucket.
type S3SnapshotStore struct {
	bucket *s3bucket.S3Bucket
	key    string
}

const DefaultSnapshotKey = "catalog/problemset.json.zst"

func NewS3SnapshotStore(bucket *s3bucket.S3Bucket, key string) *S3SnapshotStore {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &S3SnapshotStore{bucket: bucket, key: key}
}

func (s *S3SnapshotStore) Save(ctx context.Context, data []byte) error {
	_, err := s.bucket.Upload(ctx, data, s.key, "application/zstd")
	return err
}

func (s *S3SnapshotStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.bucket.Download(ctx, s.key)
	if errors.Is(err, s3bucket.ErrObjectNotFound) {
		return nil, ErrNoSnapshot
	}
	return data, err
}
