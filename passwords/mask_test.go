package passwords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s, err := Summarize("pbkdf2_sha256$29000$abcdefghijkl$R1/GfWtwog1T8Ev9VndgDjzkiRzbFr8JpmJtL9cMmQU=")
	require.NoError(t, err)

	assert.Equal(t, "pbkdf2_sha256", s.Algorithm)
	assert.Equal(t, "29000", s.Iterations)
	assert.Equal(t, "abcdef******", s.Salt)
	assert.Equal(t, "R1/GfW**************************************", s.Hash)
	assert.NotContains(t, s.Salt, "ghijkl")
}

func TestSummarize_ShortFields(t *testing.T) {
	s, err := Summarize("x$1$ab$cd")
	require.NoError(t, err)
	assert.Equal(t, "ab******", s.Salt)
	assert.Equal(t, "cd**************************************", s.Hash)
}

func TestSummarize_InvalidFormat(t *testing.T) {
	for _, encoded := range []string{"", "abc", "a$b", "a$b$c", "a$b$c$d$e"} {
		_, err := Summarize(encoded)
		assert.ErrorIs(t, err, ErrInvalidFormat, encoded)
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		want    string
	}{
		{
			name:    "valid",
			encoded: "pbkdf2_sha256$29000$abcdefghijkl$R1/GfWtwog1T8Ev9VndgDjzkiRzbFr8JpmJtL9cMmQU=",
			want:    "algorithm: pbkdf2_sha256 iterations: 29000 salt: abcdef****** hash: R1/GfW**************************************",
		},
		{
			name:    "fewer than four fields",
			encoded: "pbkdf2_sha256$29000$abcdefghijkl",
			want:    InvalidFormatMessage,
		},
		{
			name:    "empty",
			encoded: "",
			want:    InvalidFormatMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.encoded))
		})
	}
}

func TestMask_NeverRevealsFullSaltOrHash(t *testing.T) {
	encoded, err := NewHasher(1000).Encode("secret")
	require.NoError(t, err)
	d, err := decode(encoded)
	require.NoError(t, err)

	masked := Mask(encoded)
	assert.NotContains(t, masked, d.salt)
	assert.NotContains(t, masked, d.hash)
	assert.NotContains(t, masked, "secret")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "pbkdf2_sha256$2.....", Preview("pbkdf2_sha256$29000$abc$def"))
	assert.Equal(t, "short.....", Preview("short"))
}
