package store

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSaveGetRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	in := record{Name: "draft", Count: 3}
	if err := s.Save("run-1", KindScriptDraft, "u1-control", in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	var out record
	if err := s.Get("run-1", KindScriptDraft, "u1-control", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip: %+v vs %+v", in, out)
	}
}

func TestSaveReplacesWholesale(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if err := s.Save("run-1", KindHookBundle, "u1", record{Name: "first", Count: 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save("run-1", KindHookBundle, "u1", record{Name: "second"}); err != nil {
		t.Fatalf("Save again: %v", err)
	}
	var out record
	if err := s.Get("run-1", KindHookBundle, "u1", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Name != "second" || out.Count != 0 {
		t.Fatalf("record not replaced: %+v", out)
	}
}

func TestGetReadsThroughCacheMiss(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Save("run-1", KindScenePlan, "u1", record{Name: "plan"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Close()

	// Fresh store over the same directory: nothing cached.
	s2, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s2.Close()
	var out record
	if err := s2.Get("run-1", KindScenePlan, "u1", &out); err != nil {
		t.Fatalf("Get from disk: %v", err)
	}
	if out.Name != "plan" {
		t.Fatalf("out = %+v", out)
	}
}

func TestGetMissingRecord(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	var out record
	if err := s.Get("run-1", KindABSummary, "nope", &out); err == nil {
		t.Fatal("expected error for missing record")
	}
}

func TestListKeys(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	for _, key := range []string{"u2", "u1", "u3"} {
		if err := s.Save("run-1", KindEvidencePack, key, record{Name: key}); err != nil {
			t.Fatalf("Save %s: %v", key, err)
		}
	}
	keys, err := s.ListKeys("run-1", KindEvidencePack)
	if err != nil {
		t.Fatalf("ListKeys: %v", err)
	}
	sort.Strings(keys)
	if !reflect.DeepEqual(keys, []string{"u1", "u2", "u3"}) {
		t.Fatalf("keys = %v", keys)
	}

	empty, err := s.ListKeys("run-2", KindEvidencePack)
	if err != nil || empty != nil {
		t.Fatalf("unknown run: keys=%v err=%v", empty, err)
	}
}

func TestSanitizedPaths(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if err := s.Save("run/1", KindBriefUnit, "u:1", record{Name: "x"}); err != nil {
		t.Fatalf("Save with separators: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "run_1", KindBriefUnit, "u_1.json")); err != nil {
		t.Fatalf("sanitized file missing: %v", err)
	}
	var out record
	if err := s.Get("run/1", KindBriefUnit, "u:1", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
}
