package badger

import (
	"encoding/binary"

	"github.com/poiesic/forumqa/core"
)

// Key prefixes for different data types
const (
	imageEmbeddingPrefix = "imgemb:"
)

// makeImageEmbeddingKey generates a key for an image embedding by URL.
// Format: prefix + 8-byte BigEndian content ID of the URL
func makeImageEmbeddingKey(url string) []byte {
	prefixBytes := []byte(imageEmbeddingPrefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(core.IDFromContent(url)))
	return buf
}
