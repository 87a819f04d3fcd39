package jsonutil

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// Fingerprint hashes v after canonicalization (decode to generic maps so
// keys serialize sorted). Used for provenance fields like the plan hash;
// identical logical inputs always yield identical fingerprints.
func Fingerprint(v any) string {
	b, _ := json.Marshal(v)
	var generic any
	if err := json.Unmarshal(b, &generic); err == nil {
		if cb, err := json.Marshal(generic); err == nil {
			b = cb
		}
	}
	sum := sha256.Sum256(b)
	return fmt.Sprintf("%x", sum[:])[:16]
}
