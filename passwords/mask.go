package passwords

import (
	"fmt"
	"strings"
)

// InvalidFormatMessage is displayed instead of a summary for unparseable hashes
const InvalidFormatMessage = "Invalid password format or unknown hashing algorithm."

const (
	visiblePrefix = 6
	saltMask      = "******"
	hashMask      = "**************************************"
	previewLength = 15
)

// Summary is the displayable part of an encoded hash
type Summary struct {
	Algorithm  string
	Iterations string
	Salt       string // first characters of the salt, followed by a mask
	Hash       string // first characters of the hash, followed by a mask
}

// Summarize splits encoded into its four fields and masks salt and hash.
// Only the field count is checked; unknown algorithms are still displayed.
func Summarize(encoded string) (Summary, error) {
	parts := strings.Split(encoded, separator)
	if len(parts) != 4 {
		return Summary{}, ErrInvalidFormat
	}
	return Summary{
		Algorithm:  parts[0],
		Iterations: parts[1],
		Salt:       truncate(parts[2], visiblePrefix) + saltMask,
		Hash:       truncate(parts[3], visiblePrefix) + hashMask,
	}, nil
}

// Mask renders encoded for display without revealing the full salt or hash
func Mask(encoded string) string {
	s, err := Summarize(encoded)
	if err != nil {
		return InvalidFormatMessage
	}
	return fmt.Sprintf("algorithm: %s iterations: %s salt: %s hash: %s", s.Algorithm, s.Iterations, s.Salt, s.Hash)
}

// Preview is the short column value shown in user listings
func Preview(encoded string) string {
	return truncate(encoded, previewLength) + "....."
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
