package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Record kinds the pipeline emits.
const (
	KindBriefUnit    = "brief_unit"
	KindEvidencePack = "evidence_pack"
	KindScriptDraft  = "script_draft"
	KindHookBundle   = "hook_bundle"
	KindScenePlan    = "scene_plan"
	KindSceneReport  = "scene_report"
	KindABSummary    = "ab_summary"
)

// Store persists emitted pipeline records. Postgres-backed when a DSN is
// configured, JSON-files-on-disk otherwise; reads go through a small LRU so
// dashboard polling does not hammer the database.
type Store struct {
	dir string
	db  *sql.DB

	schemaOnce sync.Once
	schemaErr  error

	mu    sync.Mutex
	cache *lru.Cache[string, json.RawMessage]
}

// New creates a file-backed store rooted at dir.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	cache, err := lru.New[string, json.RawMessage](1024)
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir, cache: cache}, nil
}

// NewPostgres creates a Postgres-backed store via the pgx stdlib driver.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, json.RawMessage](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, cache: cache}, nil
}

// NewFromEnv prefers CREATIVE_STORE_PG_DSN, falling back to files at dir.
func NewFromEnv(dir string) (*Store, error) {
	dsn := strings.TrimSpace(os.Getenv("CREATIVE_STORE_PG_DSN"))
	if dsn == "" {
		return New(dir)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(dir)
	}
	return s, nil
}

// Close releases the database handle if any.
func (s *Store) Close() error {
	if s != nil && s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ensureSchema() error {
	s.schemaOnce.Do(func() {
		if s.db == nil {
			return
		}
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS creative_records (
    run_id  TEXT NOT NULL,
    kind    TEXT NOT NULL,
    key     TEXT NOT NULL,
    payload JSONB NOT NULL,
    PRIMARY KEY (run_id, kind, key)
)`)
	})
	return s.schemaErr
}

// Save upserts one record. Values are marshaled wholesale; records are
// replaced, never patched field-by-field.
func (s *Store) Save(runID, kind, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode %s/%s: %w", kind, key, err)
	}
	if s.db != nil {
		if err := s.ensureSchema(); err != nil {
			return err
		}
		_, err = s.db.Exec(`
INSERT INTO creative_records (run_id, kind, key, payload) VALUES ($1, $2, $3, $4)
ON CONFLICT (run_id, kind, key) DO UPDATE SET payload = EXCLUDED.payload`,
			runID, kind, key, payload)
		if err != nil {
			return err
		}
	} else {
		path := s.filePath(runID, kind, key)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.cache.Add(cacheKey(runID, kind, key), json.RawMessage(payload))
	s.mu.Unlock()
	return nil
}

// Get loads one record into out. Read-through: cache first, then backend.
func (s *Store) Get(runID, kind, key string, out any) error {
	ck := cacheKey(runID, kind, key)
	s.mu.Lock()
	cached, ok := s.cache.Get(ck)
	s.mu.Unlock()
	if ok {
		return json.Unmarshal(cached, out)
	}

	var payload []byte
	if s.db != nil {
		if err := s.ensureSchema(); err != nil {
			return err
		}
		err := s.db.QueryRow(`
SELECT payload FROM creative_records WHERE run_id = $1 AND kind = $2 AND key = $3`,
			runID, kind, key).Scan(&payload)
		if err != nil {
			return err
		}
	} else {
		var err error
		payload, err = os.ReadFile(s.filePath(runID, kind, key))
		if err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.cache.Add(ck, json.RawMessage(payload))
	s.mu.Unlock()
	return json.Unmarshal(payload, out)
}

// ListKeys returns the record keys of one kind within a run, sorted by the
// backend's natural order.
func (s *Store) ListKeys(runID, kind string) ([]string, error) {
	if s.db != nil {
		if err := s.ensureSchema(); err != nil {
			return nil, err
		}
		rows, err := s.db.Query(`
SELECT key FROM creative_records WHERE run_id = $1 AND kind = $2 ORDER BY key`, runID, kind)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var keys []string
		for rows.Next() {
			var k string
			if err := rows.Scan(&k); err != nil {
				return nil, err
			}
			keys = append(keys, k)
		}
		return keys, rows.Err()
	}

	entries, err := os.ReadDir(filepath.Join(s.dir, sanitize(runID), sanitize(kind)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), ".json"))
	}
	return keys, nil
}

func (s *Store) filePath(runID, kind, key string) string {
	return filepath.Join(s.dir, sanitize(runID), sanitize(kind), sanitize(key)+".json")
}

func cacheKey(runID, kind, key string) string {
	return runID + "/" + kind + "/" + key
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}
