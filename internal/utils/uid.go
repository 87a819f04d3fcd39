package utils

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// EvidenceID mints a stable evidence ID from a kind prefix and the source
// content. Same content always yields the same ID; IDs never depend on
// incidental input ordering.
func EvidenceID(kind, content string) string {
	slug := SlugifyASCII(content)
	if len(slug) > 24 {
		slug = strings.Trim(slug[:24], "-")
	}
	if slug == "" {
		slug = "ref"
	}
	return fmt.Sprintf("%s-%s-%s", kind, slug, ShortHashHex(kind+":"+content))
}

// ShortHashHex returns an 8-hex-digit fnv hash of s.
func ShortHashHex(s string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("%08x", uint32(h.Sum64()&0xffffffff))
}

// SlugifyASCII lowercases s and collapses non-alphanumerics into dashes.
func SlugifyASCII(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
