package cache

import (
	"strconv"
	"time"
)

const (
	// ListTTL bounds how long an unfiltered list response is served from cache
	ListTTL = 5 * time.Minute
	// RecordTTL bounds how long a single record response is served from cache
	RecordTTL = 10 * time.Minute
	// FlashTTL bounds how long an admin message waits for the next page view
	FlashTTL = 10 * time.Minute
)

// ListKey is the key of the unfiltered list of kind, e.g. "users:list"
func ListKey(kind string) string {
	return kind + ":list"
}

// RecordKey is the key of one record of kind, e.g. "users:7"
func RecordKey(kind string, id int) string {
	return kind + ":" + strconv.Itoa(id)
}

// FlashKey is the key of the admin messages stored for a browser
func FlashKey(id string) string {
	return "flash:" + id
}

// Bytes normalizes a cached value. The memory cache hands back what was
// stored while redis returns strings.
func Bytes(v interface{}) ([]byte, bool) {
	switch b := v.(type) {
	case []byte:
		return b, true
	case string:
		return []byte(b), true
	}
	return nil, false
}
