package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Scale    float64 `json:"scale,omitempty"`
	FontSize float64 `json:"font_size,omitempty"`
	ShowIDs  bool    `json:"show_ids,omitempty"`
}

// ArtifactKey returns the key for format rendered from content with opts.
// The key format is: artifact:format:hash(content, opts).
func ArtifactKey(content []byte, format string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+format, Hash(content), opts)
}

// hashKey generates a cache key by hashing the components.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
