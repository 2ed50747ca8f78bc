package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// artifactPrefix namespaces rendered artifacts so a shared Redis instance can
// hold other keys alongside them.
const artifactPrefix = "artifact:"

// ArtifactKey returns the cache key for dot source rendered as variant.
//
// The key reads "artifact:<variant>:<digest>", where digest is the SHA-256
// of the source. Variant is a format name, optionally qualified by render
// options (png@2.00x), so a cache listing shows what each entry holds.
func ArtifactKey(variant string, source []byte) string {
	return artifactPrefix + variant + ":" + Hash(source)
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
