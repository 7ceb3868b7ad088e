package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "users:list", ListKey("users"))
	assert.Equal(t, "recipes:12", RecordKey("recipes", 12))
	assert.Equal(t, "flash:abc", FlashKey("abc"))
}

func TestBytes(t *testing.T) {
	b, ok := Bytes([]byte(`{"id":1}`))
	assert.True(t, ok)
	assert.Equal(t, `{"id":1}`, string(b))

	b, ok = Bytes(`{"id":2}`)
	assert.True(t, ok)
	assert.Equal(t, `{"id":2}`, string(b))

	_, ok = Bytes(42)
	assert.False(t, ok)

	_, ok = Bytes(nil)
	assert.False(t, ok)
}
