// Package passwords encodes plaintext passwords into self-describing
// PBKDF2 hash strings and verifies candidates against them.
//
// Encoded form: algorithm$iterations$salt$hash, e.g.
//
//	pbkdf2_sha256$29000$x3kPq9ZbW1aL$3uV1k2...=
package passwords

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 round count used for new hashes
	DefaultIterations = 29000
	// Algorithm is the identifier written by Encode
	Algorithm = "pbkdf2_sha256"

	separator  = "$"
	saltLength = 12
	saltChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var ErrInvalidFormat = errors.New("invalid password format or unknown hashing algorithm")

// digests maps algorithm identifiers to their PRF and derived key length
var digests = map[string]struct {
	newHash func() hash.Hash
	keyLen  int
}{
	"pbkdf2_sha256": {sha256.New, sha256.Size},
	"pbkdf2_sha1":   {sha1.New, sha1.Size},
}

// Hasher encodes and verifies passwords with a fixed iteration count
type Hasher struct {
	Iterations int
}

// NewHasher returns a Hasher; iterations <= 0 selects DefaultIterations
func NewHasher(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{Iterations: iterations}
}

// Encode derives a hash of plain with a fresh random salt
func (h *Hasher) Encode(plain string) (string, error) {
	salt, err := generateSalt(saltLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return encode(Algorithm, plain, salt, h.Iterations), nil
}

// Verify reports whether plain matches encoded. Malformed input never matches.
func (h *Hasher) Verify(plain, encoded string) bool {
	d, err := decode(encoded)
	if err != nil {
		return false
	}
	candidate := derive(d.algorithm, plain, d.salt, d.iterations)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(d.hash)) == 1
}

// MustUpdate reports whether encoded was produced with weaker parameters
// than the hasher's and should be re-encoded after a successful Verify
func (h *Hasher) MustUpdate(encoded string) bool {
	d, err := decode(encoded)
	if err != nil {
		return true
	}
	return d.algorithm != Algorithm || d.iterations < h.Iterations
}

type decoded struct {
	algorithm  string
	iterations int
	salt       string
	hash       string
}

func decode(encoded string) (decoded, error) {
	parts := strings.Split(encoded, separator)
	if len(parts) != 4 {
		return decoded{}, ErrInvalidFormat
	}
	if _, ok := digests[parts[0]]; !ok {
		return decoded{}, ErrInvalidFormat
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return decoded{}, ErrInvalidFormat
	}
	if parts[2] == "" || parts[3] == "" {
		return decoded{}, ErrInvalidFormat
	}
	return decoded{
		algorithm:  parts[0],
		iterations: iterations,
		salt:       parts[2],
		hash:       parts[3],
	}, nil
}

func encode(algorithm, plain, salt string, iterations int) string {
	return strings.Join([]string{
		algorithm,
		strconv.Itoa(iterations),
		salt,
		derive(algorithm, plain, salt, iterations),
	}, separator)
}

func derive(algorithm, plain, salt string, iterations int) string {
	d := digests[algorithm]
	key := pbkdf2.Key([]byte(plain), []byte(salt), iterations, d.keyLen, d.newHash)
	return base64.StdEncoding.EncodeToString(key)
}

func generateSalt(n int) (string, error) {
	max := big.NewInt(int64(len(saltChars)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = saltChars[idx.Int64()]
	}
	return string(b), nil
}
