package jsonutil

import (
	"strings"
	"testing"
)

func TestUnmarshalPlain(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	if err := Unmarshal([]byte(`{"name":"ok"}`), &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Name != "ok" {
		t.Fatalf("name = %q", out.Name)
	}
}

func TestUnmarshalFenced(t *testing.T) {
	payload := "```json\n{\"name\":\"fenced\"}\n```"
	var out struct {
		Name string `json:"name"`
	}
	if err := Unmarshal([]byte(payload), &out); err != nil {
		t.Fatalf("Unmarshal fenced: %v", err)
	}
	if out.Name != "fenced" {
		t.Fatalf("name = %q", out.Name)
	}
}

func TestUnmarshalBareFence(t *testing.T) {
	payload := "```\n{\"n\":1}\n```"
	var out map[string]int
	if err := Unmarshal([]byte(payload), &out); err != nil {
		t.Fatalf("Unmarshal bare fence: %v", err)
	}
	if out["n"] != 1 {
		t.Fatalf("out = %v", out)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	var out map[string]any
	if err := Unmarshal([]byte("not json at all"), &out); err == nil {
		t.Fatal("expected error for non-JSON payload")
	}
}

func TestMarshalNoEscape(t *testing.T) {
	b, err := MarshalNoEscape(map[string]string{"k": "a<b>&c"})
	if err != nil {
		t.Fatalf("MarshalNoEscape: %v", err)
	}
	if strings.Contains(string(b), `<`) {
		t.Fatalf("HTML escaping leaked: %s", b)
	}
	if !strings.Contains(string(b), "a<b>&c") {
		t.Fatalf("value mangled: %s", b)
	}
}

func TestFingerprintStable(t *testing.T) {
	type in struct {
		A string `json:"a"`
		B int    `json:"b"`
	}
	first := Fingerprint(in{A: "x", B: 2})
	second := Fingerprint(in{A: "x", B: 2})
	if first != second {
		t.Fatalf("same input, different fingerprints: %s vs %s", first, second)
	}
	if len(first) != 16 {
		t.Fatalf("fingerprint length = %d", len(first))
	}
	if other := Fingerprint(in{A: "y", B: 2}); other == first {
		t.Fatal("different inputs collided")
	}
}

func TestFingerprintKeyOrderIndependent(t *testing.T) {
	a := Fingerprint(map[string]int{"x": 1, "y": 2})
	b := Fingerprint(map[string]int{"y": 2, "x": 1})
	if a != b {
		t.Fatalf("key order changed the fingerprint: %s vs %s", a, b)
	}
}
