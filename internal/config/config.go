package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"adforge/internal/store"
)

type Config struct {
	Env         string
	Model       string
	MaxParallel int
	StoreDir    string
	Snapshot    SnapshotConfig
}

type SnapshotConfig struct {
	Enabled bool
	store.SnapshotConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	model := strings.TrimSpace(os.Getenv("ADFORGE_MODEL"))
	if model == "" {
		model = "gemini-2.5-flash"
	}

	parallel := 4
	if raw := strings.TrimSpace(os.Getenv("ADFORGE_MAX_PARALLEL")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			parallel = n
		}
	}

	dir := strings.TrimSpace(os.Getenv("ADFORGE_STORE_DIR"))
	if dir == "" {
		dir = "out"
	}

	return &Config{
		Env:         env,
		Model:       model,
		MaxParallel: parallel,
		StoreDir:    dir,
		Snapshot:    loadSnapshotConfig(env),
	}, nil
}

func loadSnapshotConfig(env string) SnapshotConfig {
	endpoint := strings.TrimSpace(os.Getenv("SNAPSHOT_S3_ENDPOINT"))
	if endpoint == "" && strings.EqualFold(env, "local") {
		endpoint = strings.TrimSpace(os.Getenv("SNAPSHOT_MINIO_ENDPOINT"))
	}
	return SnapshotConfig{
		Enabled: endpoint != "",
		SnapshotConfig: store.SnapshotConfig{
			Endpoint:  endpoint,
			Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("SNAPSHOT_S3_REGION")), "us-east-1"),
			AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("SNAPSHOT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
			SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("SNAPSHOT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
			Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("SNAPSHOT_S3_BUCKET")), "adforge-creative"),
			UseSSL:    resolveUseSSL(env),
		},
	}
}

func resolveUseSSL(env string) bool {
	if strings.EqualFold(env, "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("SNAPSHOT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
