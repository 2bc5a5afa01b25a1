package util

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// maxKeyLen bounds storage keys; longer caller keys are replaced by a hash.
const maxKeyLen = 200

// DocKey returns the storage key for a caller key: "doc:<ns>:<key>".
// Over-long keys become "doc:<ns>:#<xxh64 hex>".
func DocKey(ns, key string) string {
	prefix := "doc:" + ns + ":"
	if len(prefix)+len(key) <= maxKeyLen {
		return prefix + key
	}
	return prefix + "#" + strconv.FormatUint(xxhash.Sum64String(key), 16)
}
