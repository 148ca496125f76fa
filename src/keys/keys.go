package keys

import (
	"encoding/json"
	"fmt"

	"github.com/OneOfOne/xxhash"
)

// For derives the cache key for a verification request. The payload is
// serialized to canonical JSON (map keys sorted by encoding/json) so equal
// payloads always map to the same key, then hashed so keys stay short enough
// for redis and log lines regardless of content size.
func For(contentType string, payload map[string]interface{}) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		// Maps of JSON-decoded values cannot fail to marshal; a programmatic
		// payload that does still needs a stable key.
		raw = []byte(fmt.Sprintf("%v", payload))
	}

	h := xxhash.NewS64(0)
	h.Write([]byte(contentType))
	h.Write([]byte{':'})
	h.Write(raw)
	return fmt.Sprintf("%s:%016x", contentType, h.Sum64())
}
