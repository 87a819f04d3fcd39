package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var ErrNotFound = errors.New("store: snapshot not found")

// SnapshotConfig configures the optional object store for finished
// creative bundle snapshots.
type SnapshotConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// SnapshotStore archives the finished artifacts of one (unit, arm) — hook
// bundle plus scene plan — as JSON objects. A nil store is a no-op so the
// pipeline runs the same with or without object storage configured.
type SnapshotStore struct {
	client   *minio.Client
	bucket   string
	region   string
	initOnce sync.Once
	initErr  error
}

func NewSnapshotStore(cfg SnapshotConfig) (*SnapshotStore, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("snapshot endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("snapshot access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("snapshot bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init snapshot client: %w", err)
	}
	return &SnapshotStore{client: client, bucket: bucket, region: region}, nil
}

func (s *SnapshotStore) ensureBucket(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("snapshot store is nil")
	}
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// PutSnapshot archives one record under <runID>/<unitID>/<arm>/<name>.json.
func (s *SnapshotStore) PutSnapshot(ctx context.Context, runID, unitID, arm, name string, value any) error {
	if s == nil {
		return nil
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", name, err)
	}
	key := fmt.Sprintf("%s/%s/%s/%s.json", runID, unitID, arm, name)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

// GetSnapshot fetches one archived record.
func (s *SnapshotStore) GetSnapshot(ctx context.Context, runID, unitID, arm, name string, out any) error {
	if s == nil {
		return ErrNotFound
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	key := fmt.Sprintf("%s/%s/%s/%s.json", runID, unitID, arm, name)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return err
	}
	defer obj.Close()

	dec := json.NewDecoder(obj)
	if err := dec.Decode(out); err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return ErrNotFound
		}
		return err
	}
	return nil
}
