package document

import (
	"encoding/json"
	"fmt"
)

// Merge applies a partial document onto a stored one, key by top-level
// key. A key present in partial replaces the stored value wholesale;
// callers must send a field's complete value to change any part of it.
// This is deliberately not a deep merge.
func Merge(stored []byte, partial map[string]json.RawMessage) ([]byte, error) {
	base := map[string]json.RawMessage{}
	if len(stored) > 0 {
		if err := json.Unmarshal(stored, &base); err != nil {
			return nil, fmt.Errorf("decode stored document: %w", err)
		}
	}

	for key, value := range partial {
		base[key] = value
	}

	merged, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("encode merged document: %w", err)
	}
	return merged, nil
}
