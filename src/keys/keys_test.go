package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForIsDeterministic(t *testing.T) {
	a := For("text", map[string]interface{}{"content": "claim", "lang": "hi"})
	b := For("text", map[string]interface{}{"lang": "hi", "content": "claim"})
	assert.Equal(t, a, b, "map order must not change the key")
}

func TestForSeparatesContentTypes(t *testing.T) {
	payload := map[string]interface{}{"url": "http://x"}
	assert.NotEqual(t, For("url", payload), For("page", payload))
}

func TestForSeparatesPayloads(t *testing.T) {
	assert.NotEqual(t,
		For("text", map[string]interface{}{"content": "a"}),
		For("text", map[string]interface{}{"content": "b"}))
}

func TestForPrefixesContentType(t *testing.T) {
	key := For("image", map[string]interface{}{"imageUrl": "http://img"})
	assert.Regexp(t, `^image:[0-9a-f]{16}$`, key)
}
