package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Generate creates a deterministic fingerprint for row data.
// The fingerprint is a SHA256 hash of the canonicalized JSON.
func Generate(data map[string]any) string {
	return GenerateWithExclusions(data, nil)
}

// GenerateWithExclusions fingerprints data ignoring the named top-level fields.
func GenerateWithExclusions(data map[string]any, excludeFields map[string]bool) string {
	filtered := make(map[string]any, len(data))
	for k, v := range data {
		if excludeFields[k] || isBlank(v) {
			continue
		}
		filtered[k] = v
	}

	// encoding/json writes map keys in sorted order, which makes the output canonical
	b, err := json.Marshal(filtered)
	if err != nil {
		b = []byte(fmt.Sprintf("%v", filtered))
	}
	hash := sha256.Sum256(b)
	return hex.EncodeToString(hash[:])
}

// GenerateFromValue fingerprints any JSON-encodable value by round-tripping
// it through a generic map so struct field order does not matter.
func GenerateFromValue(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return "", err
	}
	return Generate(m), nil
}

// HasChanged compares two fingerprints to detect changes
func HasChanged(oldFingerprint, newFingerprint string) bool {
	return oldFingerprint != newFingerprint
}

// blank values do not contribute so that an absent optional field and an
// explicit empty one fingerprint the same
func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
