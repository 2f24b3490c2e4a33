package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const previewKeyPrefix = "preview:%s"

// PreviewTTL bounds how long a fetched link preview is reused.
const PreviewTTL = 30 * time.Minute

// PreviewKey derives the cache key for a link preview. URLs are hashed so
// arbitrary input never shapes the keyspace.
func PreviewKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf(previewKeyPrefix, hex.EncodeToString(sum[:16]))
}
